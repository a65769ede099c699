package usecase

import (
	"context"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
)

type profileUsecase struct {
	repo domain.ProfileRepository
}

func NewProfileUsecase(repo domain.ProfileRepository) domain.ProfileUsecase {
	return &profileUsecase{repo: repo}
}

// requireOwner enforces that the operation targets the authenticated user
func requireOwner(ctx context.Context, userID string) error {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return apperror.Forbidden("You can only access your own profile")
	}
	return nil
}

func (u *profileUsecase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if err := requireOwner(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NotFound("Profile not found")
	}
	return profile, nil
}

// UpdateProfile merges the patch onto the stored document. The profile row is
// created lazily on the first write; omitted fields retain stored values.
func (u *profileUsecase) UpdateProfile(ctx context.Context, userID string, patch *domain.ProfilePatch) (*domain.Profile, error) {
	if err := requireOwner(ctx, userID); err != nil {
		return nil, err
	}
	return u.repo.Upsert(ctx, userID, patch)
}

func (u *profileUsecase) DeleteProfile(ctx context.Context, userID string) error {
	if err := requireOwner(ctx, userID); err != nil {
		return err
	}
	// Stored files are orphaned on purpose; their lifecycle belongs to the
	// storage collaborator
	return u.repo.Delete(ctx, userID)
}
