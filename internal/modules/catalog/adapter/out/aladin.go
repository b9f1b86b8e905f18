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

const aladinBaseURL = "http://www.aladin.co.kr/ttb/api/ItemLookUp.aspx"

var _ catalogout.MetaProvider = (*AladinProvider)(nil)

// AladinProvider resolves Korean catalog metadata through the Aladin TTB
// ItemLookUp API. It only answers ISBN13 lookups; title search on Aladin is
// too noisy to trust unattended.
type AladinProvider struct {
	client  *http.Client
	baseURL string
	ttbKey  string
}

func NewAladinProvider(ttbKey string) *AladinProvider {
	return &AladinProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: aladinBaseURL,
		ttbKey:  ttbKey,
	}
}

func (p *AladinProvider) Name() string { return "aladin" }

func (p *AladinProvider) Lookup(ctx context.Context, ref domain.LookupRef) (domain.BookMeta, error) {
	if p.ttbKey == "" || strings.TrimSpace(ref.ISBN13) == "" {
		return domain.BookMeta{}, apperrors.ErrNotFound
	}

	query := url.Values{}
	query.Set("ttbkey", p.ttbKey)
	query.Set("itemIdType", "ISBN13")
	query.Set("ItemId", ref.ISBN13)
	query.Set("output", "js")
	query.Set("Version", "20131101")
	query.Set("OptResult", "packing")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return domain.BookMeta{}, fmt.Errorf("build aladin request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return domain.BookMeta{}, fmt.Errorf("aladin request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.BookMeta{}, fmt.Errorf("aladin responded %d", resp.StatusCode)
	}

	var payload struct {
		Item []struct {
			Title        string `json:"title"`
			Author       string `json:"author"`
			Publisher    string `json:"publisher"`
			PubDate      string `json:"pubDate"`
			Cover        string `json:"cover"`
			CategoryName string `json:"categoryName"`
			SubInfo      struct {
				ItemPage int `json:"itemPage"`
			} `json:"subInfo"`
		} `json:"item"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.BookMeta{}, fmt.Errorf("decode aladin response: %w", err)
	}
	if len(payload.Item) == 0 {
		return domain.BookMeta{}, apperrors.ErrNotFound
	}

	item := payload.Item[0]
	return domain.BookMeta{
		ISBN13:        ref.ISBN13,
		Title:         item.Title,
		Authors:       splitAladinAuthors(item.Author),
		Publisher:     item.Publisher,
		PublishedDate: item.PubDate,
		PageCount:     item.SubInfo.ItemPage,
		Categories:    splitAladinCategory(item.CategoryName),
		ThumbnailURL:  item.Cover,
		Language:      "ko",
	}, nil
}

// splitAladinAuthors parses Aladin's "name (role), name (role)" author string.
func splitAladinAuthors(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	authors := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if idx := strings.Index(name, "("); idx > 0 {
			name = strings.TrimSpace(name[:idx])
		}
		if name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// splitAladinCategory turns "국내도서>인문학>교양 인문학" into its segments.
func splitAladinCategory(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ">")
	categories := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			categories = append(categories, segment)
		}
	}
	return categories
}
