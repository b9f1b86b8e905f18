package out

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pageturn/internal/modules/catalog/domain"
	catalogout "pageturn/internal/modules/catalog/port/out"
	apperrors "pageturn/internal/platform/errors"
)

const googleBooksBaseURL = "https://www.googleapis.com/books/v1/volumes"

var _ catalogout.MetaProvider = (*GoogleBooksProvider)(nil)

// GoogleBooksProvider resolves book metadata from the Google Books volumes
// API. The API key is optional; anonymous requests work at a lower quota.
type GoogleBooksProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewGoogleBooksProvider(apiKey string) *GoogleBooksProvider {
	return &GoogleBooksProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: googleBooksBaseURL,
		apiKey:  apiKey,
	}
}

func (p *GoogleBooksProvider) Name() string { return "google-books" }

func (p *GoogleBooksProvider) Lookup(ctx context.Context, ref domain.LookupRef) (domain.BookMeta, error) {
	if ref.Empty() {
		return domain.BookMeta{}, apperrors.ErrNotFound
	}

	query := url.Values{}
	query.Set("q", buildGoogleQuery(ref))
	query.Set("maxResults", "1")
	if p.apiKey != "" {
		query.Set("key", p.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return domain.BookMeta{}, fmt.Errorf("build google books request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return domain.BookMeta{}, fmt.Errorf("google books request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.BookMeta{}, fmt.Errorf("google books responded %d", resp.StatusCode)
	}

	var payload struct {
		TotalItems int `json:"totalItems"`
		Items      []struct {
			VolumeInfo struct {
				Title               string   `json:"title"`
				Authors             []string `json:"authors"`
				Publisher           string   `json:"publisher"`
				PublishedDate       string   `json:"publishedDate"`
				PageCount           int      `json:"pageCount"`
				Categories          []string `json:"categories"`
				Language            string   `json:"language"`
				IndustryIdentifiers []struct {
					Type       string `json:"type"`
					Identifier string `json:"identifier"`
				} `json:"industryIdentifiers"`
				ImageLinks struct {
					Thumbnail string `json:"thumbnail"`
				} `json:"imageLinks"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.BookMeta{}, fmt.Errorf("decode google books response: %w", err)
	}
	if payload.TotalItems == 0 || len(payload.Items) == 0 {
		return domain.BookMeta{}, apperrors.ErrNotFound
	}

	info := payload.Items[0].VolumeInfo
	meta := domain.BookMeta{
		ISBN13:        ref.ISBN13,
		Title:         info.Title,
		Authors:       info.Authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		ThumbnailURL:  info.ImageLinks.Thumbnail,
		Language:      info.Language,
	}
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			meta.ISBN13 = id.Identifier
			break
		}
	}
	return meta, nil
}

// buildGoogleQuery prefers an isbn: term and falls back to intitle/inauthor.
func buildGoogleQuery(ref domain.LookupRef) string {
	if ref.ISBN13 != "" {
		return "isbn:" + ref.ISBN13
	}
	terms := []string{"intitle:" + ref.Title}
	if len(ref.Authors) > 0 {
		terms = append(terms, "inauthor:"+ref.Authors[0])
	}
	return strings.Join(terms, "+")
}
