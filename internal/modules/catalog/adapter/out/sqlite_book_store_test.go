package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	storeout "pageturn/internal/modules/catalog/adapter/out"
	"pageturn/internal/modules/catalog/domain"
	catalogout "pageturn/internal/modules/catalog/port/out"
	apperrors "pageturn/internal/platform/errors"
	"pageturn/internal/platform/sqlite"
)

func newBookStore(t *testing.T) catalogout.BookStore {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "pageturn.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	s, err := storeout.NewSQLiteBookStore(db)
	if err != nil {
		t.Fatalf("new book store: %v", err)
	}
	return s
}

func TestBookStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := newBookStore(t)
	ctx := context.Background()

	meta := domain.BookMeta{
		ID:            "b-1",
		ISBN13:        "9788937460449",
		Title:         "소년이 온다",
		Authors:       []string{"한강"},
		Publisher:     "창비",
		PublishedDate: "2014-05-19",
		PageCount:     216,
		Categories:    []string{"국내도서", "소설"},
		Language:      "ko",
		UpdatedAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	if err := store.Upsert(ctx, meta); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.FindByID(ctx, "b-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != meta.Title || got.PageCount != 216 {
		t.Fatalf("unexpected book: %+v", got)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "한강" {
		t.Fatalf("authors mangled: %+v", got.Authors)
	}
	if len(got.Categories) != 2 {
		t.Fatalf("categories mangled: %+v", got.Categories)
	}
}

func TestBookStoreUpsertOverwrites(t *testing.T) {
	t.Parallel()
	store := newBookStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	if err := store.Upsert(ctx, domain.BookMeta{ID: "b-1", Title: "Dune", UpdatedAt: now}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Upsert(ctx, domain.BookMeta{ID: "b-1", Title: "Dune", PageCount: 412, UpdatedAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := store.FindByID(ctx, "b-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.PageCount != 412 {
		t.Fatalf("page count = %d, want 412", got.PageCount)
	}
}

func TestBookStoreMissingBook(t *testing.T) {
	t.Parallel()
	store := newBookStore(t)

	_, err := store.FindByID(context.Background(), "ghost")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}
