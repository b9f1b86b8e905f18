package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrProviderDisabled = errors.New("provider plugin is disabled")
	ErrChecksumMismatch = errors.New("provider plugin checksum mismatch")
	ErrProviderTimeout  = errors.New("provider plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one installed metadata provider plugin.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("provider version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("provider binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("provider sha256 must be lowercase 64-char hex")
	}
	return nil
}

// ProviderInfo is what a running plugin reports about itself.
type ProviderInfo struct {
	Name    string
	Version string
}
