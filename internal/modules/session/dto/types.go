package dto

import (
	"encoding/json"
	"time"
)

type StartInput struct {
	UserID         string
	ShelfEntryID   string
	BookID         string
	StartPage      int
	EndPage        int
	PlannedPages   int // 0 derives max(1, endPage-startPage+1)
	SessionType    string
	CommuteContext json.RawMessage
}

type FinishInput struct {
	UserID          string
	SessionID       string
	ActualEndPage   int
	DurationMinutes float64
}

type SessionOutput struct {
	SessionID        string
	ShelfEntryID     string
	BookID           string
	SessionType      string
	PlannedStartPage int
	PlannedEndPage   int
	PlannedPages     int
	ActualStartPage  *int
	ActualEndPage    *int
	ActualPages      *int
	EffectiveMinutes float64
	StartedAt        time.Time
	EndedAt          time.Time
	CommuteContext   json.RawMessage
}

// FinishOutput reports the closed session plus whether the best-effort
// shelf progress merge landed. ProgressMerged false with a nil error means
// the merge is pending and may be retried by re-finishing.
type FinishOutput struct {
	Session        SessionOutput
	ProgressMerged bool
}

type RecentSessionOutput struct {
	SessionID    string
	BookID       string
	SessionType  string
	PlannedPages int
	ActualPages  *int
	StartedAt    time.Time
	EndedAt      time.Time
}
