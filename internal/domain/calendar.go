package domain

import "time"

// All per-day counters in this bot live on the UTC calendar.

// DayBounds returns the half-open UTC day interval [start, end)
// containing t.
func DayBounds(t time.Time) (start, end time.Time) {
	t = t.UTC()
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

// SameDay reports whether a and b fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// InDaylight reports whether t's UTC hour is inside [fromH, toH).
// A zero-length window admits nothing.
func InDaylight(t time.Time, fromH, toH int) bool {
	h := t.UTC().Hour()
	return h >= fromH && h < toH
}
