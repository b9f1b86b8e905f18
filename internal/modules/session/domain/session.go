package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeCommute Type = "commute"
	TypeTimer   Type = "timer"
)

func (t Type) Validate() error {
	switch t {
	case TypeCommute, TypeTimer:
		return nil
	default:
		return fmt.Errorf("unsupported session type %q", string(t))
	}
}

// Session is one timed reading interval. It is open while EndedAt is zero
// and the Actual* fields are nil; Close sets them exactly once.
// CommuteContext is opaque caller data persisted and returned untouched.
type Session struct {
	ID           string
	UserID       string
	BookID       string
	ShelfEntryID string
	Type         Type

	PlannedStartPage int
	PlannedEndPage   int
	PlannedPages     int

	ActualStartPage *int
	ActualEndPage   *int
	ActualPages     *int

	EffectiveMinutes float64
	StartedAt        time.Time
	EndedAt          time.Time
	UpdatedAt        time.Time

	CommuteContext json.RawMessage
}

func (s Session) Open() bool {
	return s.EndedAt.IsZero()
}

type CreateInput struct {
	UserID         string
	ShelfEntryID   string
	BookID         string
	StartPage      int
	EndPage        int
	PlannedPages   int // 0 means derive from the page range
	Type           Type
	CommuteContext json.RawMessage
}

// Create builds a new open session. PlannedPages defaults to the page range
// size, floored at 1.
func Create(input CreateInput, now time.Time, newID func() string) (Session, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return Session{}, fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(input.ShelfEntryID) == "" {
		return Session{}, fmt.Errorf("shelf entry id is required")
	}
	if strings.TrimSpace(input.BookID) == "" {
		return Session{}, fmt.Errorf("book id is required")
	}

	sessionType := input.Type
	if sessionType == "" {
		sessionType = TypeCommute
	}
	if err := sessionType.Validate(); err != nil {
		return Session{}, err
	}

	plannedPages := input.PlannedPages
	if plannedPages == 0 {
		plannedPages = input.EndPage - input.StartPage + 1
		if plannedPages < 1 {
			plannedPages = 1
		}
	}
	if plannedPages < 1 {
		return Session{}, fmt.Errorf("planned pages must be at least 1")
	}

	return Session{
		ID:               newID(),
		UserID:           input.UserID,
		BookID:           input.BookID,
		ShelfEntryID:     input.ShelfEntryID,
		Type:             sessionType,
		PlannedStartPage: input.StartPage,
		PlannedEndPage:   input.EndPage,
		PlannedPages:     plannedPages,
		StartedAt:        now,
		UpdatedAt:        now,
		CommuteContext:   input.CommuteContext,
	}, nil
}

// Close resolves the actual page range and marks the session ended.
// The reported end page is clamped up to the resolved start page, so
// ActualPages is never negative even for reversed input.
func (s Session) Close(actualEndPage int, durationMinutes float64, now time.Time) (Session, error) {
	if durationMinutes <= 0 {
		return Session{}, fmt.Errorf("duration minutes must be positive")
	}

	startPage := s.resolveActualStart()
	safeEndPage := actualEndPage
	if safeEndPage < startPage {
		safeEndPage = startPage
	}
	actualPages := safeEndPage - startPage + 1
	if actualPages < 0 {
		actualPages = 0
	}

	closed := s
	closed.ActualStartPage = &startPage
	closed.ActualEndPage = &safeEndPage
	closed.ActualPages = &actualPages
	closed.EffectiveMinutes = durationMinutes
	closed.EndedAt = now
	closed.UpdatedAt = now
	return closed, nil
}

// resolveActualStart picks the first known start page: a previously set
// actual start, then the planned start, then page 1.
func (s Session) resolveActualStart() int {
	if s.ActualStartPage != nil {
		return *s.ActualStartPage
	}
	if s.PlannedStartPage > 0 {
		return s.PlannedStartPage
	}
	return 1
}
