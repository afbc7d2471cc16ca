package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskboard-backend/internal/profile/domain"
)

const usersCollection = "users"

// firestoreProfileRepository implements ProfileRepository on Cloud Firestore.
// Profiles are keyed by user id, matching the identity record.
type firestoreProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreProfileRepository(client *firestore.Client) ProfileRepository {
	return &firestoreProfileRepository{client: client}
}

func (r *firestoreProfileRepository) doc(userID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID)
}

func (r *firestoreProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	snap, err := r.doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	var profile domain.Profile
	if err := snap.DataTo(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *firestoreProfileRepository) CreateIfAbsent(ctx context.Context, profile *domain.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	// Create fails with AlreadyExists when a profile document is present,
	// which is the desired upsert-if-absent behavior.
	_, err := r.doc(profile.UserID).Create(ctx, profile)
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	return err
}

func (r *firestoreProfileRepository) Update(ctx context.Context, userID string, name, surname string) error {
	_, err := r.doc(userID).Update(ctx, []firestore.Update{
		{Path: "name", Value: name},
		{Path: "surname", Value: surname},
	})
	return err
}
