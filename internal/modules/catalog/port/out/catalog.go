package out

import (
	"context"

	"pageturn/internal/modules/catalog/domain"
)

// BookStore caches book metadata rows. FindByID returns
// apperrors.ErrNotFound when the book is unknown.
type BookStore interface {
	FindByID(ctx context.Context, bookID string) (domain.BookMeta, error)
	Upsert(ctx context.Context, meta domain.BookMeta) error
}

// MetaProvider looks up book metadata in one external catalog. Lookup
// returns apperrors.ErrNotFound when the catalog has no match.
type MetaProvider interface {
	Name() string
	Lookup(ctx context.Context, ref domain.LookupRef) (domain.BookMeta, error)
}

// ManifestStore loads installed provider plugin manifests.
type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// PluginHost runs provider plugin binaries.
type PluginHost interface {
	Verify(ctx context.Context, manifest domain.Manifest) error
	Info(ctx context.Context, manifest domain.Manifest) (domain.ProviderInfo, error)
	Lookup(ctx context.Context, manifest domain.Manifest, ref domain.LookupRef) (domain.BookMeta, error)
}
