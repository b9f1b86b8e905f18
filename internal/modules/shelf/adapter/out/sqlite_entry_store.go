package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pageturn/internal/modules/shelf/domain"
	shelfout "pageturn/internal/modules/shelf/port/out"
	apperrors "pageturn/internal/platform/errors"
	"pageturn/internal/platform/tx"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteEntryStore struct {
	db *sql.DB
}

func NewSQLiteEntryStore(db *sql.DB) (shelfout.EntryStore, error) {
	store := &SQLiteEntryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteEntryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS shelf_entries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  book_id TEXT NOT NULL,
  status TEXT NOT NULL,
  start_page INTEGER NOT NULL,
  current_page INTEGER NOT NULL,
  end_page INTEGER NOT NULL,
  started_at TEXT,
  completed_at TEXT,
  updated_at TEXT NOT NULL,
  UNIQUE(user_id, book_id)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create shelf_entries table: %w", err)
	}
	return nil
}

func (s *SQLiteEntryStore) Create(ctx context.Context, entry domain.Entry) error {
	const stmt = `
INSERT INTO shelf_entries (id, user_id, book_id, status, start_page, current_page, end_page, started_at, completed_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		entry.ID,
		entry.UserID,
		entry.BookID,
		string(entry.Status),
		entry.StartPage,
		entry.CurrentPage,
		entry.EndPage,
		encodeTime(entry.StartedAt),
		encodeTime(entry.CompletedAt),
		entry.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert shelf entry: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

const entrySelect = `
SELECT id, user_id, book_id, status, start_page, current_page, end_page, started_at, completed_at, updated_at
FROM shelf_entries
`

func (s *SQLiteEntryStore) FindByID(ctx context.Context, userID, entryID string) (domain.Entry, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, entrySelect+`WHERE id = ? AND user_id = ?`, entryID, userID)
	return scanEntry(row)
}

func (s *SQLiteEntryStore) FindByUserBook(ctx context.Context, userID, bookID string) (domain.Entry, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, entrySelect+`WHERE user_id = ? AND book_id = ?`, userID, bookID)
	return scanEntry(row)
}

func (s *SQLiteEntryStore) ListByUser(ctx context.Context, userID string) ([]domain.Entry, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, entrySelect+`WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list shelf entries: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shelf entries: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return entries, nil
}

func (s *SQLiteEntryStore) Update(ctx context.Context, entry domain.Entry) error {
	const stmt = `
UPDATE shelf_entries
SET status = ?, start_page = ?, current_page = ?, end_page = ?, started_at = ?, completed_at = ?, updated_at = ?
WHERE id = ? AND user_id = ?;
`
	res, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		string(entry.Status),
		entry.StartPage,
		entry.CurrentPage,
		entry.EndPage,
		encodeTime(entry.StartedAt),
		encodeTime(entry.CompletedAt),
		entry.UpdatedAt.Format(timeLayout),
		entry.ID,
		entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("update shelf entry: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update shelf entry: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var (
		entry                            domain.Entry
		status                           string
		startedAt, completedAt, updatedAt sql.NullString
	)
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.BookID,
		&status,
		&entry.StartPage,
		&entry.CurrentPage,
		&entry.EndPage,
		&startedAt,
		&completedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entry{}, apperrors.ErrNotFound
		}
		return domain.Entry{}, fmt.Errorf("scan shelf entry: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	entry.Status = domain.Status(status)
	entry.StartedAt = decodeTime(startedAt)
	entry.CompletedAt = decodeTime(completedAt)
	entry.UpdatedAt = decodeTime(updatedAt)
	return entry, nil
}

func encodeTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}

func decodeTime(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, v.String)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
