package in

import (
	"context"

	"pageturn/internal/modules/pace/dto"
	pacein "pageturn/internal/modules/pace/port/in"
)

type CLIHandler struct {
	usecase pacein.Usecase
}

func NewCLIHandler(usecase pacein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Recommend(ctx context.Context, userID, bookID string, availableMinutes float64) (dto.RecommendationOutput, error) {
	return h.usecase.Recommend(ctx, dto.RecommendInput{
		UserID:           userID,
		BookID:           bookID,
		AvailableMinutes: availableMinutes,
	})
}
