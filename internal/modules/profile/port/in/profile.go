package in

import (
	"context"

	"pageturn/internal/modules/profile/dto"
)

type Usecase interface {
	SetBasePPM(ctx context.Context, input dto.SetBasePPMInput) (dto.ProfileOutput, error)
	// Profile returns apperrors.ErrNotFound when the user never set one.
	Profile(ctx context.Context, userID string) (dto.ProfileOutput, error)
}
