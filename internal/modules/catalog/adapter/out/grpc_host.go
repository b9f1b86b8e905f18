package out

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"pageturn/internal/modules/catalog/adapter/out/rpc"
	"pageturn/internal/modules/catalog/domain"
	catalogout "pageturn/internal/modules/catalog/port/out"
	apperrors "pageturn/internal/platform/errors"
)

const (
	pluginStartTimeout = 3 * time.Second
	pluginCallTimeout  = 5 * time.Second
)

type GRPCHost struct{}

func NewGRPCHost() catalogout.PluginHost {
	return &GRPCHost{}
}

// Verify checks the plugin binary against the manifest checksum without
// launching it.
func (h *GRPCHost) Verify(_ context.Context, manifest domain.Manifest) error {
	if err := manifest.Validate(); err != nil {
		return err
	}
	f, err := os.Open(manifest.Binary)
	if err != nil {
		return fmt.Errorf("open plugin binary: %w", err)
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return fmt.Errorf("hash plugin binary: %w", err)
	}
	if hex.EncodeToString(hash.Sum(nil)) != manifest.SHA256 {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, manifest.Name)
	}
	return nil
}

func (h *GRPCHost) Info(ctx context.Context, manifest domain.Manifest) (domain.ProviderInfo, error) {
	client, closeFn, err := h.connect(ctx, manifest)
	if err != nil {
		return domain.ProviderInfo{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	info, err := client.GetInfo(callCtx)
	if err != nil {
		return domain.ProviderInfo{}, fmt.Errorf("get provider info: %w", err)
	}
	return domain.ProviderInfo{Name: info.Name, Version: info.Version}, nil
}

func (h *GRPCHost) Lookup(ctx context.Context, manifest domain.Manifest, ref domain.LookupRef) (domain.BookMeta, error) {
	client, closeFn, err := h.connect(ctx, manifest)
	if err != nil {
		return domain.BookMeta{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.Lookup(callCtx, &rpc.LookupRequest{
		ISBN13:  ref.ISBN13,
		Title:   ref.Title,
		Authors: ref.Authors,
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.BookMeta{}, fmt.Errorf("%w: %s", domain.ErrProviderTimeout, manifest.Name)
		}
		return domain.BookMeta{}, fmt.Errorf("provider lookup: %w", err)
	}
	if !response.Found {
		return domain.BookMeta{}, apperrors.ErrNotFound
	}
	return domain.BookMeta{
		ISBN13:        response.ISBN13,
		Title:         response.Title,
		Authors:       response.Authors,
		Publisher:     response.Publisher,
		PublishedDate: response.PublishedDate,
		PageCount:     int(response.PageCount),
		Categories:    response.Categories,
		ThumbnailURL:  response.ThumbnailURL,
		Language:      response.Language,
	}, nil
}

func (h *GRPCHost) connect(ctx context.Context, manifest domain.Manifest) (rpc.MetaProviderClient, func(), error) {
	if !manifest.Enabled {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrProviderDisabled, manifest.Name)
	}
	checksum, err := hex.DecodeString(manifest.SHA256)
	if err != nil {
		return nil, nil, fmt.Errorf("decode manifest checksum: %w", err)
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		SecureConfig:     &plugin.SecureConfig{Checksum: checksum, Hash: sha256.New()},
		Managed:          true,
		StartTimeout:     pluginStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider plugin: %w", err)
	}
	typed, ok := raw.(rpc.MetaProviderClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, pluginCallTimeout)
}
