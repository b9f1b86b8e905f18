package in

import (
	"context"

	"pageturn/internal/modules/catalog/dto"
)

type Usecase interface {
	// GetBook reads the cached metadata row. Pure read, no provider calls.
	GetBook(ctx context.Context, bookID string) (dto.BookOutput, error)
	// RegisterBook upserts a metadata row supplied by the caller.
	RegisterBook(ctx context.Context, input dto.RegisterBookInput) (dto.BookOutput, error)
	// EnsurePageCount resolves a positive page count, consulting providers
	// and persisting the first hit when the cache lacks one.
	EnsurePageCount(ctx context.Context, bookID string) (dto.EnsurePageCountOutput, error)
	ListProviderPlugins(ctx context.Context) ([]dto.ProviderPluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}
