package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pageturn/internal/modules/catalog/domain"
	"pageturn/internal/modules/catalog/dto"
	catalogin "pageturn/internal/modules/catalog/port/in"
	catalogout "pageturn/internal/modules/catalog/port/out"
	"pageturn/internal/modules/catalog/service"
	apperrors "pageturn/internal/platform/errors"
)

type Interactor struct {
	svc       *service.CatalogService
	providers []catalogout.MetaProvider
	manifests catalogout.ManifestStore
	host      catalogout.PluginHost
}

// NewInteractor wires the catalog. Providers are consulted in slice order
// when the cache lacks a page count; manifests and host may be nil when no
// plugin directory is configured.
func NewInteractor(svc *service.CatalogService, providers []catalogout.MetaProvider, manifests catalogout.ManifestStore, host catalogout.PluginHost) catalogin.Usecase {
	return &Interactor{svc: svc, providers: providers, manifests: manifests, host: host}
}

func (i *Interactor) GetBook(ctx context.Context, bookID string) (dto.BookOutput, error) {
	meta, err := i.svc.Get(ctx, bookID)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toBookOutput(meta), nil
}

func (i *Interactor) RegisterBook(ctx context.Context, input dto.RegisterBookInput) (dto.BookOutput, error) {
	meta, err := i.svc.Register(ctx, domain.BookMeta{
		ID:            input.ID,
		ISBN13:        input.ISBN13,
		Title:         input.Title,
		Authors:       input.Authors,
		Publisher:     input.Publisher,
		PublishedDate: input.PublishedDate,
		PageCount:     input.PageCount,
		Categories:    input.Categories,
		ThumbnailURL:  input.CoverURL,
		Language:      input.Language,
	})
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toBookOutput(meta), nil
}

// EnsurePageCount walks the resolution chain: cached row first, then each
// provider in order. The first positive count is persisted so later reads
// stay on the cache tier.
func (i *Interactor) EnsurePageCount(ctx context.Context, bookID string) (dto.EnsurePageCountOutput, error) {
	meta, err := i.svc.Get(ctx, bookID)
	if err != nil {
		return dto.EnsurePageCountOutput{}, fmt.Errorf("load book %s: %w", bookID, err)
	}
	if meta.PageCount > 0 {
		return dto.EnsurePageCountOutput{BookID: bookID, PageCount: meta.PageCount, Source: "cache"}, nil
	}

	ref := domain.LookupRef{ISBN13: meta.ISBN13, Title: meta.Title, Authors: meta.Authors}
	if ref.Empty() {
		return dto.EnsurePageCountOutput{}, fmt.Errorf("book %s has no isbn or title to look up: %w", bookID, apperrors.ErrPageCountUnavailable)
	}

	for _, provider := range i.providers {
		found, err := provider.Lookup(ctx, ref)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				slog.Warn("metadata provider lookup failed", "provider", provider.Name(), "book_id", bookID, "error", err)
			}
			continue
		}
		if found.PageCount <= 0 {
			continue
		}
		if _, err := i.svc.SavePageCount(ctx, mergeMeta(meta, found), found.PageCount); err != nil {
			return dto.EnsurePageCountOutput{}, err
		}
		return dto.EnsurePageCountOutput{BookID: bookID, PageCount: found.PageCount, Source: provider.Name()}, nil
	}
	return dto.EnsurePageCountOutput{}, fmt.Errorf("no provider resolved a page count for %s: %w", bookID, apperrors.ErrPageCountUnavailable)
}

func (i *Interactor) ListProviderPlugins(ctx context.Context) ([]dto.ProviderPluginInfo, error) {
	if i.manifests == nil {
		return []dto.ProviderPluginInfo{}, nil
	}
	manifests, err := i.manifests.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProviderPluginInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.ProviderPluginInfo{
			Name:    m.Name,
			Version: m.Version,
			Enabled: m.Enabled,
			Binary:  m.Binary,
		})
	}
	return out, nil
}

// Doctor checks each installed plugin: manifest shape, binary checksum,
// and a live info round-trip.
func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	if i.manifests == nil || i.host == nil {
		return []dto.DoctorResult{}, nil
	}
	manifests, err := i.manifests.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		if err := i.host.Verify(ctx, m); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.ChecksumValid = true
		if _, err := i.host.Info(ctx, m); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.BinaryReachable = true
		results = append(results, result)
	}
	return results, nil
}

func mergeMeta(cached, found domain.BookMeta) domain.BookMeta {
	merged := cached
	if merged.ISBN13 == "" {
		merged.ISBN13 = found.ISBN13
	}
	if merged.Publisher == "" {
		merged.Publisher = found.Publisher
	}
	if merged.PublishedDate == "" {
		merged.PublishedDate = found.PublishedDate
	}
	if len(merged.Categories) == 0 {
		merged.Categories = found.Categories
	}
	if merged.ThumbnailURL == "" {
		merged.ThumbnailURL = found.ThumbnailURL
	}
	if merged.Language == "" {
		merged.Language = found.Language
	}
	return merged
}

func toBookOutput(meta domain.BookMeta) dto.BookOutput {
	return dto.BookOutput{
		ID:            meta.ID,
		ISBN13:        meta.ISBN13,
		Title:         meta.Title,
		Authors:       meta.Authors,
		Publisher:     meta.Publisher,
		PublishedDate: meta.PublishedDate,
		PageCount:     meta.PageCount,
		Categories:    meta.Categories,
		CoverURL:      meta.ThumbnailURL,
		Language:      meta.Language,
	}
}
