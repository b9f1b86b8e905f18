package out

import (
	"context"

	"pageturn/internal/modules/catalog/domain"
	catalogout "pageturn/internal/modules/catalog/port/out"
)

// PluginProvider presents one installed plugin as a MetaProvider so the
// resolution chain treats built-in and plugin catalogs uniformly.
type PluginProvider struct {
	host     catalogout.PluginHost
	manifest domain.Manifest
}

var _ catalogout.MetaProvider = (*PluginProvider)(nil)

func NewPluginProvider(host catalogout.PluginHost, manifest domain.Manifest) *PluginProvider {
	return &PluginProvider{host: host, manifest: manifest}
}

func (p *PluginProvider) Name() string { return p.manifest.Name }

func (p *PluginProvider) Lookup(ctx context.Context, ref domain.LookupRef) (domain.BookMeta, error) {
	return p.host.Lookup(ctx, p.manifest, ref)
}
