package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-plugin"

	"pageturn/internal/modules/catalog/adapter/out/rpc"
)

// Open Library metadata provider. Answers ISBN lookups through the
// public books API; no key required.

const booksEndpoint = "https://openlibrary.org/api/books"

type server struct {
	client *http.Client
}

func (s *server) GetInfo(_ context.Context, _ *rpc.Empty) (*rpc.Info, error) {
	return &rpc.Info{Name: "openlibrary", Version: "1.0.0"}, nil
}

func (s *server) Lookup(ctx context.Context, in *rpc.LookupRequest) (*rpc.LookupResponse, error) {
	if strings.TrimSpace(in.ISBN13) == "" {
		return &rpc.LookupResponse{Found: false}, nil
	}

	query := url.Values{}
	query.Set("bibkeys", "ISBN:"+in.ISBN13)
	query.Set("format", "json")
	query.Set("jscmd", "data")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, booksEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open library request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open library responded %d", resp.StatusCode)
	}

	var payload map[string]struct {
		Title         string `json:"title"`
		NumberOfPages int    `json:"number_of_pages"`
		PublishDate   string `json:"publish_date"`
		Authors       []struct {
			Name string `json:"name"`
		} `json:"authors"`
		Publishers []struct {
			Name string `json:"name"`
		} `json:"publishers"`
		Subjects []struct {
			Name string `json:"name"`
		} `json:"subjects"`
		Cover struct {
			Medium string `json:"medium"`
		} `json:"cover"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	book, ok := payload["ISBN:"+in.ISBN13]
	if !ok {
		return &rpc.LookupResponse{Found: false}, nil
	}

	out := &rpc.LookupResponse{
		Found:        true,
		ISBN13:       in.ISBN13,
		Title:        book.Title,
		PageCount:    int32(book.NumberOfPages),
		ThumbnailURL: book.Cover.Medium,
	}
	if book.PublishDate != "" {
		out.PublishedDate = book.PublishDate
	}
	for _, author := range book.Authors {
		out.Authors = append(out.Authors, author.Name)
	}
	if len(book.Publishers) > 0 {
		out.Publisher = book.Publishers[0].Name
	}
	for _, subject := range book.Subjects {
		out.Categories = append(out.Categories, subject.Name)
	}
	return out, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: rpc.HandshakeConfig,
		Plugins:         rpc.PluginMap(&server{client: &http.Client{Timeout: 10 * time.Second}}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
