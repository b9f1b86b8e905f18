package domain

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPlanned   Status = "planned"
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
	StatusDropped   Status = "dropped"
)

func (s Status) Validate() error {
	switch s {
	case StatusPlanned, StatusReading, StatusCompleted, StatusDropped:
		return nil
	default:
		return fmt.Errorf("unsupported shelf status %q", string(s))
	}
}

// Entry is a user's tracked relationship to one book. CurrentPage is a
// monotonic high-water mark; it never regresses. EndPage is the target last
// page, 0 when unknown. Zero timestamps mean unset.
type Entry struct {
	ID          string
	UserID      string
	BookID      string
	Status      Status
	StartPage   int
	CurrentPage int
	EndPage     int
	StartedAt   time.Time
	CompletedAt time.Time
	UpdatedAt   time.Time
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(e.BookID) == "" {
		return fmt.Errorf("book id is required")
	}
	if err := e.Status.Validate(); err != nil {
		return err
	}
	if e.CurrentPage < 0 {
		return fmt.Errorf("current page must not be negative")
	}
	return nil
}

// MergeProgress folds a finished session's last page into the entry.
// Progress only ever moves forward: the new current page is the max of the
// existing one and reachedPage. Status advances planned -> reading ->
// completed, and CompletedAt is written once and never overwritten.
func (e Entry) MergeProgress(reachedPage int, now time.Time) Entry {
	merged := e
	if reachedPage > merged.CurrentPage {
		merged.CurrentPage = reachedPage
	}

	switch {
	case merged.EndPage > 0 && merged.CurrentPage >= merged.EndPage:
		merged.Status = StatusCompleted
		if merged.CompletedAt.IsZero() {
			merged.CompletedAt = now
		}
	case merged.CurrentPage > 0 && merged.Status == StatusPlanned:
		merged.Status = StatusReading
		if merged.StartedAt.IsZero() {
			merged.StartedAt = now
		}
	}

	merged.UpdatedAt = now
	return merged
}

// ProgressPercent reports 0-100 completion against pageCount, or 0 when the
// page count is unknown.
func (e Entry) ProgressPercent(pageCount int) float64 {
	if pageCount <= 0 {
		return 0
	}
	return float64(e.CurrentPage) / float64(pageCount) * 100
}
