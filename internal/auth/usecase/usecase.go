package usecase

import (
	"context"
	"errors"

	authdomain "taskboard-backend/internal/auth/domain"
	authdto "taskboard-backend/internal/auth/dto"
	"taskboard-backend/pkg/github"
)

// ErrCredentialInUse is returned when linking a GitHub account that is
// already attached to a different user. Distinguished so the client can say
// why linking failed instead of showing a generic error.
var ErrCredentialInUse = errors.New("github account already linked to another user")

// GithubProfileFetcher is the slice of the GitHub client the auth flow
// needs.
type GithubProfileFetcher interface {
	GetUser(ctx context.Context, accessToken string) (*github.User, error)
}

// AuthUsecase defines the interface for identity business logic.
type AuthUsecase interface {
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error)

	// GithubSignIn links or signs in with a GitHub access token. When
	// currentUserID is non-empty the credential is linked to that account
	// (ErrCredentialInUse when it belongs to someone else); otherwise the
	// user is signed in, implicitly registering on first contact.
	GithubSignIn(ctx context.Context, currentUserID, accessToken string) (*authdto.TokenResponse, error)

	// RefreshToken rotates the token pair. It re-establishes the server-side
	// session: a refresh token can outlive the process, and a principal the
	// session manager does not know about would have its subscriptions
	// flushed as stale.
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)

	// Logout revokes the refresh token and signs the user out, flushing all
	// live subscriptions before the session disappears.
	Logout(refreshToken string) error

	// ValidateToken resolves the bearer token to a user and re-activates the
	// principal's session when absent (tokens survive restarts, the in-memory
	// session registry does not).
	ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, error)

	RegisterFCMToken(userID, token string) error
	UnregisterFCMToken(token string) error
}
