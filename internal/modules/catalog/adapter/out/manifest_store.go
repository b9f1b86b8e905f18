package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pageturn/internal/modules/catalog/domain"
	catalogout "pageturn/internal/modules/catalog/port/out"
)

// FileManifestStore reads provider manifests from providers.json inside the
// plugin directory. A missing file means no plugins are installed.
type FileManifestStore struct {
	basePath string
	path     string
}

func NewFileManifestStore(basePath string) catalogout.ManifestStore {
	return &FileManifestStore{basePath: basePath, path: filepath.Join(basePath, "providers.json")}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read provider manifests: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode provider manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.basePath, manifests[i].Binary))
		}
	}
	return manifests, nil
}
