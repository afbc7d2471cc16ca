package usecase

import (
	"context"
	"errors"

	"taskboard-backend/internal/profile/domain"
)

// ErrNotFound is returned when no profile document exists for the user.
var ErrNotFound = errors.New("profile not found")

// ProfileUsecase defines the interface for profile business logic.
type ProfileUsecase interface {
	// GetProfile returns the user's profile document.
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)

	// UpdateProfile overwrites the editable fields and returns the result.
	UpdateProfile(ctx context.Context, userID, name, surname string) (*domain.Profile, error)
}
