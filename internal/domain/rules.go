package domain

import "time"

// Rules is the eligibility engine: pure predicates over user state and
// an injected "now". It holds the configured quota and daylight window
// and nothing else; every decision is re-derived from timestamps on
// each call.
type Rules struct {
	// DailyQuota caps regular readings per UTC day.
	DailyQuota int
	// DaylightFromH/DaylightToH bound the [from, to) UTC hour window
	// in which a spontaneous offer may be shown.
	DaylightFromH int
	DaylightToH   int
}

// AllowRegular reports whether one more regular reading fits under the
// daily quota given the count already used today.
func (r Rules) AllowRegular(usedToday int) bool {
	return usedToday < r.DailyQuota
}

// ShouldOffer reports whether the spontaneous offer should be shown to
// u right now: inside the daylight window and not yet offered today.
// A denied regular reading does not matter here; offers are tracked by
// their own date field.
func (r Rules) ShouldOffer(u *User, now time.Time) bool {
	if !InDaylight(now, r.DaylightFromH, r.DaylightToH) {
		return false
	}
	return u.LastOfferDate == nil || !SameDay(*u.LastOfferDate, now)
}

// AllowClaim reports whether u may claim a spontaneous reading right
// now: at most one per UTC day, independent of the regular quota and
// of whether an offer was recorded.
func (r Rules) AllowClaim(u *User, now time.Time) bool {
	return u.LastSpontaneousAt == nil || !SameDay(*u.LastSpontaneousAt, now)
}
