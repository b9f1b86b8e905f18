package service

import (
	"context"
	"fmt"

	"pageturn/internal/modules/shelf/domain"
	shelfout "pageturn/internal/modules/shelf/port/out"
	"pageturn/internal/platform/clock"
	"pageturn/internal/platform/id"
)

type ShelfService struct {
	clock clock.Clock
	idGen id.Generator
	store shelfout.EntryStore
}

func NewShelfService(clock clock.Clock, idGen id.Generator, store shelfout.EntryStore) *ShelfService {
	return &ShelfService{clock: clock, idGen: idGen, store: store}
}

// Add creates a planned entry for userID x bookID. endPage comes from the
// book's page count when known, 0 otherwise.
func (s *ShelfService) Add(ctx context.Context, userID, bookID string, endPage int) (domain.Entry, error) {
	entry := domain.Entry{
		ID:        s.idGen.New(),
		UserID:    userID,
		BookID:    bookID,
		Status:    domain.StatusPlanned,
		StartPage: 1,
		EndPage:   endPage,
		UpdatedAt: s.clock.Now(),
	}
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, err
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return domain.Entry{}, fmt.Errorf("create shelf entry: %w", err)
	}
	return entry, nil
}

func (s *ShelfService) ByID(ctx context.Context, userID, entryID string) (domain.Entry, error) {
	return s.store.FindByID(ctx, userID, entryID)
}

func (s *ShelfService) ByUserBook(ctx context.Context, userID, bookID string) (domain.Entry, error) {
	return s.store.FindByUserBook(ctx, userID, bookID)
}

func (s *ShelfService) ListByUser(ctx context.Context, userID string) ([]domain.Entry, error) {
	return s.store.ListByUser(ctx, userID)
}

// Merge applies the monotonic progress merge and persists the result.
func (s *ShelfService) Merge(ctx context.Context, entry domain.Entry, reachedPage int) (domain.Entry, error) {
	merged := entry.MergeProgress(reachedPage, s.clock.Now())
	if err := s.store.Update(ctx, merged); err != nil {
		return domain.Entry{}, fmt.Errorf("update shelf entry: %w", err)
	}
	return merged, nil
}
