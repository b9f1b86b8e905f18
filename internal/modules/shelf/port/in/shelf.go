package in

import (
	"context"

	"pageturn/internal/modules/shelf/domain"
	"pageturn/internal/modules/shelf/dto"
)

type Usecase interface {
	AddBook(ctx context.Context, input dto.AddBookInput) (dto.AddBookOutput, error)
	Bookshelf(ctx context.Context, userID string) (dto.GroupedOutput, error)
	CurrentReading(ctx context.Context, userID string) ([]dto.EntryOutput, error)
	EntryByID(ctx context.Context, userID, entryID string) (domain.Entry, error)
	EntryByUserBook(ctx context.Context, userID, bookID string) (domain.Entry, error)
	MergeProgress(ctx context.Context, input dto.MergeProgressInput) (dto.MergeProgressOutput, error)
}
