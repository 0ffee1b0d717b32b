package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/warlock9600/tarobot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single connection: SQLite is a single-writer engine, and the
	// conditional UPDATE guards below rely on serialized writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

const userColumns = `id, telegram_id, username, gender, created_at, updated_at,
       last_offer_date, last_spontaneous_at`

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u         domain.User
		gender    string
		createdAt int64
		updatedAt int64
		offerDay  sql.NullString
		claimedAt sql.NullInt64
	)
	if err := row.Scan(
		&u.ID, &u.TelegramID, &u.Username, &gender,
		&createdAt, &updatedAt, &offerDay, &claimedAt,
	); err != nil {
		return nil, err
	}
	u.Gender = domain.Gender(gender)
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	u.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	u.LastOfferDate = fromNullDay(offerDay)
	u.LastSpontaneousAt = fromNullInt64(claimedAt)
	return &u, nil
}

// GetOrCreateUser resolves a user by telegram id, inserting a fresh row
// with unset gender on first contact. When the display hint changed
// since last seen, the stored username is refreshed in passing.
func (r *SQLiteRepo) GetOrCreateUser(ctx context.Context, telegramID int64, username string) (*domain.User, bool, error) {
	u, err := r.getByTelegramID(ctx, telegramID)
	if err == nil {
		if username != "" && u.Username != username {
			now := time.Now().UTC().Unix()
			if _, err := r.db.ExecContext(ctx, `
				UPDATE users SET username = ?, updated_at = ? WHERE id = ?`,
				username, now, u.ID,
			); err != nil {
				return nil, false, fmt.Errorf("update username: %w", err)
			}
			u.Username = username
		}
		return u, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	now := time.Now().UTC().Unix()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (telegram_id, username, gender, created_at, updated_at)
		VALUES (?, ?, '', ?, ?)`,
		telegramID, username, now, now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}
	return &domain.User{
		ID:         id,
		TelegramID: telegramID,
		Username:   username,
		Gender:     domain.GenderUnset,
		CreatedAt:  time.Unix(now, 0).UTC(),
		UpdatedAt:  time.Unix(now, 0).UTC(),
	}, true, nil
}

func (r *SQLiteRepo) getByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE telegram_id = ?`,
		telegramID,
	)
	return scanUser(row)
}

// SetGender overwrites the user's gender. Idempotent.
func (r *SQLiteRepo) SetGender(ctx context.Context, userID int64, g domain.Gender) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET gender = ?, updated_at = ?
		WHERE id = ?`,
		string(g), time.Now().UTC().Unix(), userID,
	)
	return err
}

// CountRegularToday counts non-spontaneous readings created within
// [from, to).
func (r *SQLiteRepo) CountRegularToday(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(id)
		FROM readings
		WHERE user_id = ?
		  AND is_spontaneous = 0
		  AND created_at >= ?
		  AND created_at < ?`,
		userID, from.UTC().Unix(), to.UTC().Unix(),
	).Scan(&n)
	return n, err
}

// AppendReading persists one ledger entry.
func (r *SQLiteRepo) AppendReading(ctx context.Context, userID int64, arcana, prediction string, spontaneous bool, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO readings (user_id, arcana, prediction, is_spontaneous, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		userID, arcana, prediction, boolToInt(spontaneous), at.UTC().Unix(),
	)
	return err
}

// MarkSpontaneousOffered sets last_offer_date to the given day unless
// it is already that day. The WHERE guard makes concurrent offers for
// the same user race safely: exactly one caller sees won=true.
func (r *SQLiteRepo) MarkSpontaneousOffered(ctx context.Context, userID int64, day time.Time) (bool, error) {
	key := dayKey(day)
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET last_offer_date = ?, updated_at = ?
		WHERE id = ?
		  AND (last_offer_date IS NULL OR last_offer_date <> ?)`,
		key, time.Now().UTC().Unix(), userID, key,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkSpontaneousClaimed sets last_spontaneous_at unless a claim this
// day (at or after dayStart) already exists. Committed before any
// reading is generated, so duplicate claim events cannot both win.
func (r *SQLiteRepo) MarkSpontaneousClaimed(ctx context.Context, userID int64, at, dayStart time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET last_spontaneous_at = ?, updated_at = ?
		WHERE id = ?
		  AND (last_spontaneous_at IS NULL OR last_spontaneous_at < ?)`,
		at.UTC().Unix(), time.Now().UTC().Unix(), userID, dayStart.UTC().Unix(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
