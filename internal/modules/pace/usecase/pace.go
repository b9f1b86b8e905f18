package usecase

import (
	"context"
	"errors"
	"fmt"

	"pageturn/internal/modules/pace/domain"
	"pageturn/internal/modules/pace/dto"
	pacein "pageturn/internal/modules/pace/port/in"
	paceout "pageturn/internal/modules/pace/port/out"
	"pageturn/internal/modules/pace/service"
	apperrors "pageturn/internal/platform/errors"
)

type Interactor struct {
	shelf   paceout.ShelfReader
	books   paceout.BookMetaSource
	profile paceout.ProfileSource
	slack   *service.SlackEstimator
	tuning  domain.Tuning
}

func NewInteractor(shelf paceout.ShelfReader, books paceout.BookMetaSource, profile paceout.ProfileSource, slack *service.SlackEstimator, tuning domain.Tuning) pacein.Usecase {
	return &Interactor{
		shelf:   shelf,
		books:   books,
		profile: profile,
		slack:   slack,
		tuning:  tuning.Normalize(),
	}
}

func (i *Interactor) Recommend(ctx context.Context, input dto.RecommendInput) (dto.RecommendationOutput, error) {
	if input.AvailableMinutes <= 0 {
		return dto.RecommendationOutput{}, fmt.Errorf("available minutes must be positive: %w", apperrors.ErrInvalidInput)
	}

	entry, err := i.shelf.EntryByBook(ctx, input.UserID, input.BookID)
	if err != nil {
		return dto.RecommendationOutput{}, fmt.Errorf("load shelf entry for book %s: %w", input.BookID, err)
	}

	book, err := i.books.Meta(ctx, entry.BookID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return dto.RecommendationOutput{}, fmt.Errorf("load book %s: %w", entry.BookID, err)
	}

	pageCount := resolvePageCount(entry, book)
	if pageCount <= 0 {
		return dto.RecommendationOutput{}, fmt.Errorf("book %s: %w", input.BookID, apperrors.ErrPageCountUnavailable)
	}

	ppm := i.resolvePPM(ctx, input.UserID)
	difficulty := domain.DifficultyFactor(book.Categories)
	slack := i.slack.Estimate(ctx, input.UserID)

	plan := domain.BuildPlan(domain.PlanParams{
		AvailableMinutes: input.AvailableMinutes,
		PPM:              ppm,
		DifficultyFactor: difficulty,
		SlackFactor:      slack,
		CurrentPage:      entry.CurrentPage,
		PageCount:        pageCount,
	})

	return dto.RecommendationOutput{
		EntryID:            entry.EntryID,
		BookID:             entry.BookID,
		Title:              book.Title,
		Authors:            book.Authors,
		CoverURL:           book.CoverURL,
		StartPage:          plan.StartPage,
		EndPage:            plan.EndPage,
		PagesToRead:        plan.PagesToRead,
		CurrentPage:        entry.CurrentPage,
		PageCount:          pageCount,
		RemainingPages:     plan.RemainingPages,
		IsAlreadyCompleted: plan.IsAlreadyCompleted,
		UsedPPM:            ppm,
		DifficultyFactor:   difficulty,
		SlackFactor:        slack,
	}, nil
}

// resolvePageCount prefers the page count pinned on the shelf entry, then
// the cached catalog row.
func resolvePageCount(entry paceout.ShelfSnapshot, book paceout.BookInfo) int {
	if entry.EndPage > 0 {
		return entry.EndPage
	}
	return book.PageCount
}

// resolvePPM falls back to the tuning default for users without a profile.
func (i *Interactor) resolvePPM(ctx context.Context, userID string) float64 {
	ppm, err := i.profile.BasePPM(ctx, userID)
	if err != nil || ppm <= 0 {
		return i.tuning.DefaultPPM
	}
	return ppm
}
