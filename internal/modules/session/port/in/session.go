package in

import (
	"context"
	"time"

	"pageturn/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Finish(ctx context.Context, input dto.FinishInput) (dto.FinishOutput, error)
	RecentSessions(ctx context.Context, userID string, since time.Time) ([]dto.RecentSessionOutput, error)
}
