package usecase

import (
	"context"

	"taskboard-backend/internal/profile/domain"
	"taskboard-backend/internal/profile/repository"
)

type profileUsecase struct {
	profileRepo repository.ProfileRepository
}

func NewProfileUsecase(profileRepo repository.ProfileRepository) ProfileUsecase {
	return &profileUsecase{profileRepo: profileRepo}
}

func (u *profileUsecase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := u.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (u *profileUsecase) UpdateProfile(ctx context.Context, userID, name, surname string) (*domain.Profile, error) {
	if err := u.profileRepo.Update(ctx, userID, name, surname); err != nil {
		return nil, err
	}
	return u.GetProfile(ctx, userID)
}
