package usecase

import (
	"context"
	"fmt"

	"pageturn/internal/modules/profile/domain"
	"pageturn/internal/modules/profile/dto"
	profilein "pageturn/internal/modules/profile/port/in"
	profileout "pageturn/internal/modules/profile/port/out"
	"pageturn/internal/platform/clock"
	apperrors "pageturn/internal/platform/errors"
)

type Interactor struct {
	clock clock.Clock
	store profileout.ProfileStore
}

func NewInteractor(clock clock.Clock, store profileout.ProfileStore) profilein.Usecase {
	return &Interactor{clock: clock, store: store}
}

func (i *Interactor) SetBasePPM(ctx context.Context, input dto.SetBasePPMInput) (dto.ProfileOutput, error) {
	profile := domain.Profile{
		UserID:    input.UserID,
		BasePPM:   input.BasePPM,
		UpdatedAt: i.clock.Now(),
	}
	if err := profile.Validate(); err != nil {
		return dto.ProfileOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := i.store.Upsert(ctx, profile); err != nil {
		return dto.ProfileOutput{}, fmt.Errorf("save profile: %w", err)
	}
	return toOutput(profile), nil
}

func (i *Interactor) Profile(ctx context.Context, userID string) (dto.ProfileOutput, error) {
	profile, err := i.store.Find(ctx, userID)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(profile), nil
}

func toOutput(profile domain.Profile) dto.ProfileOutput {
	return dto.ProfileOutput{
		UserID:    profile.UserID,
		BasePPM:   profile.BasePPM,
		UpdatedAt: profile.UpdatedAt,
	}
}
