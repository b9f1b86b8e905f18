package domain

import (
	"fmt"
	"strings"
	"time"
)

// BookMeta is a cached projection of externally-sourced book metadata.
// PageCount 0 means unknown; Categories are free-text catalog labels in
// source order.
type BookMeta struct {
	ID            string
	ISBN13        string
	Title         string
	Authors       []string
	Publisher     string
	PublishedDate string
	PageCount     int
	Categories    []string
	ThumbnailURL  string
	Language      string
	UpdatedAt     time.Time
}

func (b BookMeta) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("book id is required")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if b.PageCount < 0 {
		return fmt.Errorf("page count must not be negative")
	}
	return nil
}

// LookupRef identifies a book for a provider lookup. ISBN13 wins when set;
// providers may fall back to title+author matching.
type LookupRef struct {
	ISBN13  string
	Title   string
	Authors []string
}

func (r LookupRef) Empty() bool {
	return strings.TrimSpace(r.ISBN13) == "" && strings.TrimSpace(r.Title) == ""
}
