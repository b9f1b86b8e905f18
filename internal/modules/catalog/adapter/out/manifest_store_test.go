package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	catalogout "pageturn/internal/modules/catalog/adapter/out"
)

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := catalogout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	raw := `[
  {
    "name": "openlibrary",
    "version": "1.0.0",
    "binary": "openlibrary/openlibrary-provider",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true
  }
]`
	if err := os.WriteFile(filepath.Join(base, "providers.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write providers.json: %v", err)
	}
	store := catalogout.NewFileManifestStore(base)
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if !filepath.IsAbs(manifests[0].Binary) {
		t.Fatalf("expected absolute binary path, got %s", manifests[0].Binary)
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	raw := `[{"name": "x", "version": "1", "binary": "b", "sha256": "ff", "enabled": true, "bogus": 1}]`
	if err := os.WriteFile(filepath.Join(base, "providers.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write providers.json: %v", err)
	}
	store := catalogout.NewFileManifestStore(base)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected decode error for unknown manifest field")
	}
}
