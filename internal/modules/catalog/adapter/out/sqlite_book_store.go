package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pageturn/internal/modules/catalog/domain"
	catalogout "pageturn/internal/modules/catalog/port/out"
	apperrors "pageturn/internal/platform/errors"
	"pageturn/internal/platform/tx"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteBookStore struct {
	db *sql.DB
}

func NewSQLiteBookStore(db *sql.DB) (catalogout.BookStore, error) {
	store := &SQLiteBookStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteBookStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  isbn13 TEXT,
  title TEXT NOT NULL,
  authors TEXT NOT NULL DEFAULT '[]',
  publisher TEXT,
  published_date TEXT,
  page_count INTEGER NOT NULL DEFAULT 0,
  categories TEXT NOT NULL DEFAULT '[]',
  thumbnail_url TEXT,
  language TEXT,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_books_isbn13 ON books(isbn13);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func (s *SQLiteBookStore) FindByID(ctx context.Context, bookID string) (domain.BookMeta, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, `
SELECT id, isbn13, title, authors, publisher, published_date, page_count, categories, thumbnail_url, language, updated_at
FROM books WHERE id = ?`, bookID)

	var (
		meta                  domain.BookMeta
		authors, categories   string
		updatedAt             string
	)
	err := row.Scan(
		&meta.ID,
		&meta.ISBN13,
		&meta.Title,
		&authors,
		&meta.Publisher,
		&meta.PublishedDate,
		&meta.PageCount,
		&categories,
		&meta.ThumbnailURL,
		&meta.Language,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BookMeta{}, apperrors.ErrNotFound
		}
		return domain.BookMeta{}, fmt.Errorf("scan book: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	meta.Authors = decodeStrings(authors)
	meta.Categories = decodeStrings(categories)
	if t, err := time.Parse(timeLayout, updatedAt); err == nil {
		meta.UpdatedAt = t.UTC()
	}
	return meta, nil
}

func (s *SQLiteBookStore) Upsert(ctx context.Context, meta domain.BookMeta) error {
	const stmt = `
INSERT INTO books (id, isbn13, title, authors, publisher, published_date, page_count, categories, thumbnail_url, language, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  isbn13 = excluded.isbn13,
  title = excluded.title,
  authors = excluded.authors,
  publisher = excluded.publisher,
  published_date = excluded.published_date,
  page_count = excluded.page_count,
  categories = excluded.categories,
  thumbnail_url = excluded.thumbnail_url,
  language = excluded.language,
  updated_at = excluded.updated_at;
`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		meta.ID,
		meta.ISBN13,
		meta.Title,
		encodeStrings(meta.Authors),
		meta.Publisher,
		meta.PublishedDate,
		meta.PageCount,
		encodeStrings(meta.Categories),
		meta.ThumbnailURL,
		meta.Language,
		meta.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert book: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func encodeStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeStrings(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}
