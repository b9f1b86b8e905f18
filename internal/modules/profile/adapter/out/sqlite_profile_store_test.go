package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	storeout "pageturn/internal/modules/profile/adapter/out"
	"pageturn/internal/modules/profile/domain"
	profileout "pageturn/internal/modules/profile/port/out"
	apperrors "pageturn/internal/platform/errors"
	"pageturn/internal/platform/sqlite"
)

func newStore(t *testing.T) profileout.ProfileStore {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "pageturn.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	s, err := storeout.NewSQLiteProfileStore(db)
	if err != nil {
		t.Fatalf("new profile store: %v", err)
	}
	return s
}

func TestProfileStoreUpsertOverwrites(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	if _, err := store.Find(ctx, "u-1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("missing profile lookup = %v, want ErrNotFound", err)
	}

	if err := store.Upsert(ctx, domain.Profile{UserID: "u-1", BasePPM: 0.8, UpdatedAt: now}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Upsert(ctx, domain.Profile{UserID: "u-1", BasePPM: 1.2, UpdatedAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := store.Find(ctx, "u-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.BasePPM != 1.2 {
		t.Fatalf("base ppm = %v, want 1.2", got.BasePPM)
	}
	if !got.UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("updated at = %v", got.UpdatedAt)
	}
}
