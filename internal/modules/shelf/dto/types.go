package dto

import "time"

type AddBookInput struct {
	UserID string
	BookID string
}

type AddBookOutput struct {
	Item          EntryOutput
	AlreadyExists bool
}

type EntryOutput struct {
	EntryID     string
	BookID      string
	Title       string
	Authors     []string
	CoverURL    string
	Status      string
	StartPage   int
	CurrentPage int
	EndPage     int
	PageCount   int
	Progress    float64
	StartedAt   time.Time
	CompletedAt time.Time
}

// GroupedOutput is the full bookshelf keyed by status.
type GroupedOutput struct {
	Reading   []EntryOutput
	Planned   []EntryOutput
	Completed []EntryOutput
	Dropped   []EntryOutput
}

type MergeProgressInput struct {
	UserID      string
	EntryID     string
	ReachedPage int
}

type MergeProgressOutput struct {
	EntryID     string
	CurrentPage int
	Status      string
	Completed   bool
}
