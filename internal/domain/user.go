package domain

import "time"

// Gender is the user's chosen reading persona. Predictions are worded
// per gender, so nothing is issued until it is set.
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender maps a callback payload to a Gender. Unknown values
// (including empty) come back as GenderUnset with ok=false.
func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	}
	return GenderUnset, false
}

// User is the persisted per-user state.
type User struct {
	ID         int64
	TelegramID int64
	Username   string // best-effort display hint, may be empty
	Gender     Gender
	CreatedAt  time.Time // UTC
	UpdatedAt  time.Time // UTC

	// LastOfferDate is the UTC midnight of the last day a spontaneous
	// offer was shown; nil if never offered.
	LastOfferDate *time.Time
	// LastSpontaneousAt is when the last spontaneous reading was
	// claimed; nil if never claimed.
	LastSpontaneousAt *time.Time
}

// HasGender reports whether readings may be issued at all.
func (u *User) HasGender() bool {
	return u.Gender == GenderMale || u.Gender == GenderFemale
}

// Reading is one immutable ledger entry.
type Reading struct {
	ID          int64
	UserID      int64
	Arcana      string
	Prediction  string
	Spontaneous bool
	CreatedAt   time.Time // UTC
}
