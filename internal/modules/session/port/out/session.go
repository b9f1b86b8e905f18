package out

import (
	"context"
	"time"

	"pageturn/internal/modules/session/domain"
)

// SessionStore persists reading sessions. Get returns
// apperrors.ErrNotFound when no session matches (sessionID, userID);
// FindOpenByShelfEntry likewise when the entry has no open session.
type SessionStore interface {
	Create(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, sessionID, userID string) (domain.Session, error)
	Update(ctx context.Context, session domain.Session) error
	FindOpenByShelfEntry(ctx context.Context, userID, shelfEntryID string) (domain.Session, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]domain.Session, error)
}
