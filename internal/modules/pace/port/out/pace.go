package out

import (
	"context"
	"time"

	"pageturn/internal/modules/pace/domain"
)

// ShelfSnapshot is the slice of a shelf entry the recommender needs.
type ShelfSnapshot struct {
	EntryID     string
	BookID      string
	CurrentPage int
	EndPage     int
}

// BookInfo is the slice of catalog metadata the recommender needs.
type BookInfo struct {
	Title      string
	Authors    []string
	CoverURL   string
	PageCount  int
	Categories []string
}

// ShelfReader loads the user's shelf entry for a book;
// apperrors.ErrNotFound when the book is not shelved.
type ShelfReader interface {
	EntryByBook(ctx context.Context, userID, bookID string) (ShelfSnapshot, error)
}

// SessionHistory yields planned-versus-actual samples for sessions started
// at or after since.
type SessionHistory interface {
	Samples(ctx context.Context, userID string, since time.Time) ([]domain.Sample, error)
}

// ProfileSource reads the user's base reading speed;
// apperrors.ErrNotFound when the user never set one.
type ProfileSource interface {
	BasePPM(ctx context.Context, userID string) (float64, error)
}

// BookMetaSource reads cached book metadata;
// apperrors.ErrNotFound when the book is unknown.
type BookMetaSource interface {
	Meta(ctx context.Context, bookID string) (BookInfo, error)
}
