package domain

import (
	"testing"
	"time"
)

var testRules = Rules{DailyQuota: 5, DaylightFromH: 8, DaylightToH: 20}

func TestAllowRegular(t *testing.T) {
	cases := []struct {
		used int
		want bool
	}{
		{0, true},
		{4, true},
		{5, false},
		{6, false},
	}
	for _, c := range cases {
		if got := testRules.AllowRegular(c.used); got != c.want {
			t.Fatalf("AllowRegular(%d) = %v, want %v", c.used, got, c.want)
		}
	}
}

func TestShouldOffer(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2025, time.June, d, h, 15, 0, 0, time.UTC)
	}
	today := day(10, 0)
	yesterday := day(9, 0)

	cases := []struct {
		name  string
		offer *time.Time
		now   time.Time
		want  bool
	}{
		{"never offered, in window", nil, day(10, 10), true},
		{"never offered, before window", nil, day(10, 7), false},
		{"never offered, after window", nil, day(10, 20), false},
		{"offered yesterday", &yesterday, day(10, 10), true},
		{"offered today", &today, day(10, 10), false},
		{"offered today, late hour anyway", &today, day(10, 19), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u := &User{Gender: GenderFemale, LastOfferDate: c.offer}
			if got := testRules.ShouldOffer(u, c.now); got != c.want {
				t.Fatalf("ShouldOffer = %v, want %v", got, c.want)
			}
		})
	}
}

func TestAllowClaim(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	earlierToday := now.Add(-2 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	cases := []struct {
		name    string
		claimed *time.Time
		want    bool
	}{
		{"never claimed", nil, true},
		{"claimed yesterday", &yesterday, true},
		{"claimed earlier today", &earlierToday, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u := &User{Gender: GenderMale, LastSpontaneousAt: c.claimed}
			if got := testRules.AllowClaim(u, now); got != c.want {
				t.Fatalf("AllowClaim = %v, want %v", got, c.want)
			}
		})
	}
}

// Claim tracking is independent of the offer date: having been offered
// today does not block the claim, and claiming does not consume the
// offer flag.
func TestOfferAndClaimIndependent(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	today, _ := DayBounds(now)

	u := &User{Gender: GenderMale, LastOfferDate: &today}
	if !testRules.AllowClaim(u, now) {
		t.Fatal("offer mark blocked the claim")
	}

	u = &User{Gender: GenderMale, LastSpontaneousAt: &now}
	if !testRules.ShouldOffer(&User{Gender: GenderMale}, now) {
		t.Fatal("fresh user not offered in window")
	}
	if testRules.AllowClaim(u, now) {
		t.Fatal("second claim same day allowed")
	}
}

func TestParseGender(t *testing.T) {
	cases := []struct {
		in string
		g  Gender
		ok bool
	}{
		{"male", GenderMale, true},
		{"female", GenderFemale, true},
		{"", GenderUnset, false},
		{"other", GenderUnset, false},
		{"MALE", GenderUnset, false},
	}
	for _, c := range cases {
		g, ok := ParseGender(c.in)
		if g != c.g || ok != c.ok {
			t.Fatalf("ParseGender(%q) = (%q, %v), want (%q, %v)", c.in, g, ok, c.g, c.ok)
		}
	}
}
