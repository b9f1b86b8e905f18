package service

import (
	"context"
	"fmt"

	"pageturn/internal/modules/catalog/domain"
	catalogout "pageturn/internal/modules/catalog/port/out"
	"pageturn/internal/platform/clock"
	apperrors "pageturn/internal/platform/errors"
	"pageturn/internal/platform/id"
)

type CatalogService struct {
	clock clock.Clock
	idGen id.Generator
	store catalogout.BookStore
}

func NewCatalogService(clock clock.Clock, idGen id.Generator, store catalogout.BookStore) *CatalogService {
	return &CatalogService{clock: clock, idGen: idGen, store: store}
}

func (s *CatalogService) Get(ctx context.Context, bookID string) (domain.BookMeta, error) {
	return s.store.FindByID(ctx, bookID)
}

// Register validates and upserts a metadata row. A missing ID is assigned
// so callers can register books discovered outside any catalog.
func (s *CatalogService) Register(ctx context.Context, meta domain.BookMeta) (domain.BookMeta, error) {
	if meta.ID == "" {
		meta.ID = s.idGen.New()
	}
	meta.UpdatedAt = s.clock.Now()
	if err := meta.Validate(); err != nil {
		return domain.BookMeta{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.store.Upsert(ctx, meta); err != nil {
		return domain.BookMeta{}, fmt.Errorf("save book: %w", err)
	}
	return meta, nil
}

// SavePageCount merges a provider hit back into the cached row.
func (s *CatalogService) SavePageCount(ctx context.Context, meta domain.BookMeta, pageCount int) (domain.BookMeta, error) {
	meta.PageCount = pageCount
	meta.UpdatedAt = s.clock.Now()
	if err := s.store.Upsert(ctx, meta); err != nil {
		return domain.BookMeta{}, fmt.Errorf("save page count: %w", err)
	}
	return meta, nil
}
