package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pageturn/internal/modules/session/domain"
	sessionout "pageturn/internal/modules/session/port/out"
	apperrors "pageturn/internal/platform/errors"
	"pageturn/internal/platform/tx"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(db *sql.DB) (sessionout.SessionStore, error) {
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

// The partial unique index backs the one-open-session rule at the storage
// layer so a racing insert fails even outside a guarding transaction.
func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reading_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  book_id TEXT NOT NULL,
  shelf_entry_id TEXT NOT NULL,
  session_type TEXT NOT NULL,
  planned_start_page INTEGER NOT NULL,
  planned_end_page INTEGER NOT NULL,
  planned_pages INTEGER NOT NULL,
  actual_start_page INTEGER,
  actual_end_page INTEGER,
  actual_pages INTEGER,
  effective_minutes REAL NOT NULL DEFAULT 0,
  started_at TEXT NOT NULL,
  ended_at TEXT,
  updated_at TEXT NOT NULL,
  commute_context TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_open
  ON reading_sessions(user_id, shelf_entry_id) WHERE ended_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_sessions_user_started
  ON reading_sessions(user_id, started_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create reading_sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Create(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO reading_sessions (id, user_id, book_id, shelf_entry_id, session_type,
  planned_start_page, planned_end_page, planned_pages,
  actual_start_page, actual_end_page, actual_pages,
  effective_minutes, started_at, ended_at, updated_at, commute_context)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		session.ID,
		session.UserID,
		session.BookID,
		session.ShelfEntryID,
		string(session.Type),
		session.PlannedStartPage,
		session.PlannedEndPage,
		session.PlannedPages,
		encodeIntPtr(session.ActualStartPage),
		encodeIntPtr(session.ActualEndPage),
		encodeIntPtr(session.ActualPages),
		session.EffectiveMinutes,
		session.StartedAt.Format(timeLayout),
		encodeTime(session.EndedAt),
		session.UpdatedAt.Format(timeLayout),
		encodeContext(session.CommuteContext),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrOpenSessionExists
		}
		return fmt.Errorf("insert session: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

const sessionSelect = `
SELECT id, user_id, book_id, shelf_entry_id, session_type,
  planned_start_page, planned_end_page, planned_pages,
  actual_start_page, actual_end_page, actual_pages,
  effective_minutes, started_at, ended_at, updated_at, commute_context
FROM reading_sessions
`

func (s *SQLiteSessionStore) Get(ctx context.Context, sessionID, userID string) (domain.Session, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, sessionSelect+`WHERE id = ? AND user_id = ?`, sessionID, userID)
	return scanSession(row)
}

func (s *SQLiteSessionStore) Update(ctx context.Context, session domain.Session) error {
	const stmt = `
UPDATE reading_sessions
SET actual_start_page = ?, actual_end_page = ?, actual_pages = ?,
    effective_minutes = ?, ended_at = ?, updated_at = ?
WHERE id = ? AND user_id = ?;
`
	res, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		encodeIntPtr(session.ActualStartPage),
		encodeIntPtr(session.ActualEndPage),
		encodeIntPtr(session.ActualPages),
		session.EffectiveMinutes,
		encodeTime(session.EndedAt),
		session.UpdatedAt.Format(timeLayout),
		session.ID,
		session.UserID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *SQLiteSessionStore) FindOpenByShelfEntry(ctx context.Context, userID, shelfEntryID string) (domain.Session, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx,
		sessionSelect+`WHERE user_id = ? AND shelf_entry_id = ? AND ended_at IS NULL`,
		userID, shelfEntryID)
	return scanSession(row)
}

func (s *SQLiteSessionStore) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.Session, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx,
		sessionSelect+`WHERE user_id = ? AND started_at >= ? ORDER BY started_at DESC`,
		userID, since.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session                             domain.Session
		sessionType                         string
		actualStart, actualEnd, actualPages sql.NullInt64
		startedAt, endedAt, updatedAt       sql.NullString
		commuteContext                      sql.NullString
	)
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.BookID,
		&session.ShelfEntryID,
		&sessionType,
		&session.PlannedStartPage,
		&session.PlannedEndPage,
		&session.PlannedPages,
		&actualStart,
		&actualEnd,
		&actualPages,
		&session.EffectiveMinutes,
		&startedAt,
		&endedAt,
		&updatedAt,
		&commuteContext,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, apperrors.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("scan session: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	session.Type = domain.Type(sessionType)
	session.ActualStartPage = decodeIntPtr(actualStart)
	session.ActualEndPage = decodeIntPtr(actualEnd)
	session.ActualPages = decodeIntPtr(actualPages)
	session.StartedAt = decodeTime(startedAt)
	session.EndedAt = decodeTime(endedAt)
	session.UpdatedAt = decodeTime(updatedAt)
	if commuteContext.Valid && commuteContext.String != "" {
		session.CommuteContext = json.RawMessage(commuteContext.String)
	}
	return session, nil
}

func encodeIntPtr(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func decodeIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func encodeContext(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
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

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed")
}
