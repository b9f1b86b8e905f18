package in

import (
	"context"
	"time"

	"pageturn/internal/modules/session/dto"
	sessionin "pageturn/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	return h.usecase.Start(ctx, input)
}

func (h CLIHandler) Finish(ctx context.Context, input dto.FinishInput) (dto.FinishOutput, error) {
	return h.usecase.Finish(ctx, input)
}

func (h CLIHandler) RecentSessions(ctx context.Context, userID string, since time.Time) ([]dto.RecentSessionOutput, error) {
	return h.usecase.RecentSessions(ctx, userID, since)
}
