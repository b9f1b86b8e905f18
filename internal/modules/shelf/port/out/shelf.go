package out

import (
	"context"

	"pageturn/internal/modules/shelf/domain"
)

// EntryStore persists shelf entries. Lookups scoped by user return
// apperrors.ErrNotFound when no row matches.
type EntryStore interface {
	Create(ctx context.Context, entry domain.Entry) error
	FindByID(ctx context.Context, userID, entryID string) (domain.Entry, error)
	FindByUserBook(ctx context.Context, userID, bookID string) (domain.Entry, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Entry, error)
	Update(ctx context.Context, entry domain.Entry) error
}
