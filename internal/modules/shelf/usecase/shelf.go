package usecase

import (
	"context"
	"errors"
	"fmt"

	catalogdto "pageturn/internal/modules/catalog/dto"
	catalogin "pageturn/internal/modules/catalog/port/in"
	"pageturn/internal/modules/shelf/domain"
	"pageturn/internal/modules/shelf/dto"
	shelfin "pageturn/internal/modules/shelf/port/in"
	"pageturn/internal/modules/shelf/service"
	apperrors "pageturn/internal/platform/errors"
)

type Interactor struct {
	svc     *service.ShelfService
	catalog catalogin.Usecase
}

func NewInteractor(svc *service.ShelfService, catalog catalogin.Usecase) shelfin.Usecase {
	return &Interactor{svc: svc, catalog: catalog}
}

// AddBook puts a book on the user's shelf. Adding a book that is already
// shelved is not an error; the existing entry is reported instead.
func (i *Interactor) AddBook(ctx context.Context, input dto.AddBookInput) (dto.AddBookOutput, error) {
	if input.UserID == "" || input.BookID == "" {
		return dto.AddBookOutput{}, fmt.Errorf("user id and book id are required: %w", apperrors.ErrInvalidInput)
	}

	existing, err := i.svc.ByUserBook(ctx, input.UserID, input.BookID)
	if err == nil {
		return dto.AddBookOutput{Item: i.entryOutput(ctx, existing), AlreadyExists: true}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return dto.AddBookOutput{}, err
	}

	book, err := i.catalog.GetBook(ctx, input.BookID)
	if err != nil {
		return dto.AddBookOutput{}, fmt.Errorf("look up book %s: %w", input.BookID, err)
	}

	entry, err := i.svc.Add(ctx, input.UserID, input.BookID, book.PageCount)
	if err != nil {
		return dto.AddBookOutput{}, err
	}
	return dto.AddBookOutput{Item: toEntryOutput(entry, book), AlreadyExists: false}, nil
}

func (i *Interactor) Bookshelf(ctx context.Context, userID string) (dto.GroupedOutput, error) {
	entries, err := i.svc.ListByUser(ctx, userID)
	if err != nil {
		return dto.GroupedOutput{}, err
	}

	grouped := dto.GroupedOutput{}
	for _, entry := range entries {
		item := i.entryOutput(ctx, entry)
		switch entry.Status {
		case domain.StatusReading:
			grouped.Reading = append(grouped.Reading, item)
		case domain.StatusPlanned:
			grouped.Planned = append(grouped.Planned, item)
		case domain.StatusCompleted:
			grouped.Completed = append(grouped.Completed, item)
		case domain.StatusDropped:
			grouped.Dropped = append(grouped.Dropped, item)
		}
	}
	return grouped, nil
}

func (i *Interactor) CurrentReading(ctx context.Context, userID string) ([]dto.EntryOutput, error) {
	entries, err := i.svc.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		if entry.Status != domain.StatusReading {
			continue
		}
		items = append(items, i.entryOutput(ctx, entry))
	}
	return items, nil
}

func (i *Interactor) EntryByID(ctx context.Context, userID, entryID string) (domain.Entry, error) {
	return i.svc.ByID(ctx, userID, entryID)
}

func (i *Interactor) EntryByUserBook(ctx context.Context, userID, bookID string) (domain.Entry, error) {
	return i.svc.ByUserBook(ctx, userID, bookID)
}

func (i *Interactor) MergeProgress(ctx context.Context, input dto.MergeProgressInput) (dto.MergeProgressOutput, error) {
	entry, err := i.svc.ByID(ctx, input.UserID, input.EntryID)
	if err != nil {
		return dto.MergeProgressOutput{}, err
	}
	merged, err := i.svc.Merge(ctx, entry, input.ReachedPage)
	if err != nil {
		return dto.MergeProgressOutput{}, err
	}
	return dto.MergeProgressOutput{
		EntryID:     merged.ID,
		CurrentPage: merged.CurrentPage,
		Status:      string(merged.Status),
		Completed:   merged.Status == domain.StatusCompleted,
	}, nil
}

// entryOutput joins the entry with cached book metadata, tolerating a
// missing book row (the entry still renders with what it has).
func (i *Interactor) entryOutput(ctx context.Context, entry domain.Entry) dto.EntryOutput {
	book, err := i.catalog.GetBook(ctx, entry.BookID)
	if err != nil {
		book = catalogdto.BookOutput{ID: entry.BookID}
	}
	return toEntryOutput(entry, book)
}

func toEntryOutput(entry domain.Entry, book catalogdto.BookOutput) dto.EntryOutput {
	pageCount := entry.EndPage
	if pageCount <= 0 {
		pageCount = book.PageCount
	}
	return dto.EntryOutput{
		EntryID:     entry.ID,
		BookID:      entry.BookID,
		Title:       book.Title,
		Authors:     book.Authors,
		CoverURL:    book.CoverURL,
		Status:      string(entry.Status),
		StartPage:   entry.StartPage,
		CurrentPage: entry.CurrentPage,
		EndPage:     entry.EndPage,
		PageCount:   pageCount,
		Progress:    entry.ProgressPercent(pageCount),
		StartedAt:   entry.StartedAt,
		CompletedAt: entry.CompletedAt,
	}
}
