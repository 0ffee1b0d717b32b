package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/warlock9600/tarobot/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	r, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "tarobot.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestGetOrCreateUser(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	u, created, err := r.GetOrCreateUser(ctx, 42, "Вася")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created {
		t.Fatal("first contact not reported as created")
	}
	if u.Gender != domain.GenderUnset {
		t.Fatalf("new user gender = %q, want unset", u.Gender)
	}

	// Same id again: resolved, not created; changed hint persisted.
	u2, created, err := r.GetOrCreateUser(ctx, 42, "Василий")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if created {
		t.Fatal("existing user reported as created")
	}
	if u2.ID != u.ID {
		t.Fatalf("resolved id %d, want %d", u2.ID, u.ID)
	}
	if u2.Username != "Василий" {
		t.Fatalf("username = %q, want updated hint", u2.Username)
	}

	// Empty hint must not clobber the stored name.
	u3, _, err := r.GetOrCreateUser(ctx, 42, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if u3.Username != "Василий" {
		t.Fatalf("username = %q after empty hint", u3.Username)
	}
}

func TestSetGender(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	u, _, err := r.GetOrCreateUser(ctx, 7, "x")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetGender(ctx, u.ID, domain.GenderFemale); err != nil {
		t.Fatalf("set gender: %v", err)
	}
	// Overwrite is allowed.
	if err := r.SetGender(ctx, u.ID, domain.GenderMale); err != nil {
		t.Fatalf("overwrite gender: %v", err)
	}
	u, _, err = r.GetOrCreateUser(ctx, 7, "")
	if err != nil {
		t.Fatal(err)
	}
	if u.Gender != domain.GenderMale {
		t.Fatalf("gender = %q, want male", u.Gender)
	}
}

func TestCountRegularToday(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	u, _, err := r.GetOrCreateUser(ctx, 1, "x")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	from, to := domain.DayBounds(now)

	// Two regular today, one spontaneous today, one regular yesterday.
	for _, rec := range []struct {
		spont bool
		at    time.Time
	}{
		{false, now},
		{false, now.Add(time.Hour)},
		{true, now.Add(2 * time.Hour)},
		{false, now.Add(-24 * time.Hour)},
	} {
		if err := r.AppendReading(ctx, u.ID, "Шут", "текст", rec.spont, rec.at); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	n, err := r.CountRegularToday(ctx, u.ID, from, to)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2 (spontaneous and other days excluded)", n)
	}

	// Entries by another user never leak into the count.
	other, _, err := r.GetOrCreateUser(ctx, 2, "y")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.AppendReading(ctx, other.ID, "Маг", "текст", false, now); err != nil {
		t.Fatal(err)
	}
	n, err = r.CountRegularToday(ctx, u.ID, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("count = %d after other user's reading, want 2", n)
	}
}

func TestMarkSpontaneousOffered(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	u, _, err := r.GetOrCreateUser(ctx, 1, "x")
	if err != nil {
		t.Fatal(err)
	}
	day := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	won, err := r.MarkSpontaneousOffered(ctx, u.ID, day)
	if err != nil || !won {
		t.Fatalf("first mark: won=%v err=%v", won, err)
	}
	won, err = r.MarkSpontaneousOffered(ctx, u.ID, day)
	if err != nil {
		t.Fatal(err)
	}
	if won {
		t.Fatal("second mark same day won")
	}
	// Next day the slot opens again.
	won, err = r.MarkSpontaneousOffered(ctx, u.ID, day.Add(24*time.Hour))
	if err != nil || !won {
		t.Fatalf("next-day mark: won=%v err=%v", won, err)
	}

	u, _, err = r.GetOrCreateUser(ctx, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if u.LastOfferDate == nil || !domain.SameDay(*u.LastOfferDate, day.Add(24*time.Hour)) {
		t.Fatalf("last offer date = %v", u.LastOfferDate)
	}
}

func TestMarkSpontaneousClaimed(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	u, _, err := r.GetOrCreateUser(ctx, 1, "x")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)
	dayStart, _ := domain.DayBounds(now)

	won, err := r.MarkSpontaneousClaimed(ctx, u.ID, now, dayStart)
	if err != nil || !won {
		t.Fatalf("first claim: won=%v err=%v", won, err)
	}
	// A duplicate delivery of the same claim must lose.
	won, err = r.MarkSpontaneousClaimed(ctx, u.ID, now.Add(time.Minute), dayStart)
	if err != nil {
		t.Fatal(err)
	}
	if won {
		t.Fatal("duplicate claim same day won")
	}

	// Tomorrow the claim is open again.
	next := now.Add(24 * time.Hour)
	nextStart, _ := domain.DayBounds(next)
	won, err = r.MarkSpontaneousClaimed(ctx, u.ID, next, nextStart)
	if err != nil || !won {
		t.Fatalf("next-day claim: won=%v err=%v", won, err)
	}
}
