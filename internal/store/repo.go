package store

import (
	"context"
	"time"

	"github.com/warlock9600/tarobot/internal/domain"
)

// Repo defines storage operations for users and the reading ledger.
//
// MarkSpontaneousOffered and MarkSpontaneousClaimed are conditional
// writes: they return won=false when another request already took the
// day's slot. Callers must treat the returned flag, not their earlier
// snapshot of the user, as the authoritative decision.
type Repo interface {
	// GetOrCreateUser resolves a user by telegram id, creating one with
	// unset gender on first contact. A changed username hint is
	// persisted in passing.
	GetOrCreateUser(ctx context.Context, telegramID int64, username string) (u *domain.User, created bool, err error)
	SetGender(ctx context.Context, userID int64, g domain.Gender) error

	// CountRegularToday counts non-spontaneous readings created in the
	// half-open interval [from, to).
	CountRegularToday(ctx context.Context, userID int64, from, to time.Time) (int, error)
	// AppendReading adds one immutable ledger entry. There is no update
	// or delete.
	AppendReading(ctx context.Context, userID int64, arcana, prediction string, spontaneous bool, at time.Time) error

	MarkSpontaneousOffered(ctx context.Context, userID int64, day time.Time) (won bool, err error)
	MarkSpontaneousClaimed(ctx context.Context, userID int64, at, dayStart time.Time) (won bool, err error)

	Close() error
}
