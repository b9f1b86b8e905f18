package in

import (
	"context"

	"pageturn/internal/modules/shelf/dto"
	shelfin "pageturn/internal/modules/shelf/port/in"
)

type CLIHandler struct {
	usecase shelfin.Usecase
}

func NewCLIHandler(usecase shelfin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AddBook(ctx context.Context, userID, bookID string) (dto.AddBookOutput, error) {
	return h.usecase.AddBook(ctx, dto.AddBookInput{UserID: userID, BookID: bookID})
}

func (h CLIHandler) Bookshelf(ctx context.Context, userID string) (dto.GroupedOutput, error) {
	return h.usecase.Bookshelf(ctx, userID)
}

func (h CLIHandler) CurrentReading(ctx context.Context, userID string) ([]dto.EntryOutput, error) {
	return h.usecase.CurrentReading(ctx, userID)
}
