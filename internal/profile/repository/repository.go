package repository

import (
	"context"

	"taskboard-backend/internal/profile/domain"
)

// ProfileRepository defines the interface for profile document access.
type ProfileRepository interface {
	// Get returns the profile for a user, or (nil, nil) when absent.
	Get(ctx context.Context, userID string) (*domain.Profile, error)

	// CreateIfAbsent writes a default profile only when none exists yet, so
	// user-edited fields are never clobbered on repeat sign-ins.
	CreateIfAbsent(ctx context.Context, profile *domain.Profile) error

	// Update overwrites the editable fields (name, surname).
	Update(ctx context.Context, userID string, name, surname string) error
}
