package out

import (
	"context"

	"pageturn/internal/modules/profile/domain"
)

// ProfileStore persists user profiles. Find returns apperrors.ErrNotFound
// for users without a stored profile.
type ProfileStore interface {
	Find(ctx context.Context, userID string) (domain.Profile, error)
	Upsert(ctx context.Context, profile domain.Profile) error
}
