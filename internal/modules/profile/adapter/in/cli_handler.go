package in

import (
	"context"

	"pageturn/internal/modules/profile/dto"
	profilein "pageturn/internal/modules/profile/port/in"
)

type CLIHandler struct {
	usecase profilein.Usecase
}

func NewCLIHandler(usecase profilein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SetBasePPM(ctx context.Context, userID string, basePPM float64) (dto.ProfileOutput, error) {
	return h.usecase.SetBasePPM(ctx, dto.SetBasePPMInput{UserID: userID, BasePPM: basePPM})
}

func (h CLIHandler) Profile(ctx context.Context, userID string) (dto.ProfileOutput, error) {
	return h.usecase.Profile(ctx, userID)
}
