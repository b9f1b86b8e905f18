package in

import (
	"context"

	"pageturn/internal/modules/pace/dto"
)

type Usecase interface {
	// Recommend is a pure read: it never writes to any store.
	Recommend(ctx context.Context, input dto.RecommendInput) (dto.RecommendationOutput, error)
}
