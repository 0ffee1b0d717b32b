package domain

import (
	"testing"
	"time"
)

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	cases := []struct {
		name string
		in   time.Time
		want string // start, RFC3339
	}{
		{"midday utc", time.Date(2025, time.June, 10, 13, 45, 12, 0, time.UTC), "2025-06-10T00:00:00Z"},
		{"utc midnight", time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), "2025-06-10T00:00:00Z"},
		{"last second", time.Date(2025, time.June, 10, 23, 59, 59, 0, time.UTC), "2025-06-10T00:00:00Z"},
		// 01:30 MSK is still the previous UTC day.
		{"offset zone", time.Date(2025, time.June, 10, 1, 30, 0, 0, loc), "2025-06-09T00:00:00Z"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			start, end := DayBounds(c.in)
			if got := start.Format(time.RFC3339); got != c.want {
				t.Fatalf("start = %s, want %s", got, c.want)
			}
			if d := end.Sub(start); d != 24*time.Hour {
				t.Fatalf("interval length = %s, want 24h", d)
			}
			if !c.in.UTC().Before(end) || c.in.UTC().Before(start) {
				t.Fatalf("%s not inside [%s, %s)", c.in, start, end)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, time.June, 10, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, time.June, 11, 0, 1, 0, 0, time.UTC)
	if SameDay(a, b) {
		t.Fatal("dates across UTC midnight reported as same day")
	}
	if !SameDay(a, a.Add(-23*time.Hour)) {
		t.Fatal("same UTC date reported as different days")
	}
	// Zone must not leak into the comparison: 02:00 MSK == 23:00 UTC previous day.
	msk := time.FixedZone("MSK", 3*60*60)
	if SameDay(time.Date(2025, time.June, 11, 2, 0, 0, 0, msk), b) {
		t.Fatal("local date used instead of UTC date")
	}
}

func TestInDaylight(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2025, time.June, 10, h, 30, 0, 0, time.UTC)
	}
	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"before window", at(7), false},
		{"window start", at(8), true},
		{"inside", at(13), true},
		{"last hour", at(19), true},
		{"window end is exclusive", at(20), false},
		{"night", at(23), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := InDaylight(c.t, 8, 20); got != c.want {
				t.Fatalf("InDaylight(%s, 8, 20) = %v, want %v", c.t, got, c.want)
			}
		})
	}

	if InDaylight(at(10), 10, 10) {
		t.Fatal("zero-length window admitted an instant")
	}
}
