package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pageturn/internal/modules/profile/domain"
	profileout "pageturn/internal/modules/profile/port/out"
	apperrors "pageturn/internal/platform/errors"
	"pageturn/internal/platform/tx"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteProfileStore struct {
	db *sql.DB
}

func NewSQLiteProfileStore(db *sql.DB) (profileout.ProfileStore, error) {
	store := &SQLiteProfileStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteProfileStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS user_profiles (
  user_id TEXT PRIMARY KEY,
  base_ppm REAL NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create user_profiles table: %w", err)
	}
	return nil
}

func (s *SQLiteProfileStore) Find(ctx context.Context, userID string) (domain.Profile, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx,
		`SELECT user_id, base_ppm, updated_at FROM user_profiles WHERE user_id = ?`, userID)

	var (
		profile   domain.Profile
		updatedAt string
	)
	if err := row.Scan(&profile.UserID, &profile.BasePPM, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, apperrors.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("scan profile: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	if t, err := time.Parse(timeLayout, updatedAt); err == nil {
		profile.UpdatedAt = t.UTC()
	}
	return profile, nil
}

func (s *SQLiteProfileStore) Upsert(ctx context.Context, profile domain.Profile) error {
	const stmt = `
INSERT INTO user_profiles (user_id, base_ppm, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET base_ppm = excluded.base_ppm, updated_at = excluded.updated_at;
`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		profile.UserID, profile.BasePPM, profile.UpdatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("upsert profile: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}
