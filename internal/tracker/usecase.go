// Package tracker bridges the app to the external issue tracker: OAuth
// linking, repository/issue pass-through calls, and importing issues as
// local tasks.
package tracker

import (
	"context"
	"errors"

	"taskboard-backend/pkg/github"
)

// LinkState is the per-user linking session state.
type LinkState string

const (
	StateUnauthenticated LinkState = "unauthenticated"
	StateAwaitingCode    LinkState = "awaiting_code"
	StateExchangingToken LinkState = "exchanging_token"
	StateAuthenticated   LinkState = "authenticated"
)

var (
	// ErrNotLinked is returned when an operation requires a GitHub token
	// and the user has not completed authorization. Checked before any
	// network call.
	ErrNotLinked = errors.New("no github token present; authorize first")
	// ErrAuthNotStarted is returned when a code arrives without a
	// preceding BeginAuth.
	ErrAuthNotStarted = errors.New("authorization flow not started")
)

// GithubAPI is the slice of the GitHub client the bridge consumes.
type GithubAPI interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	ListRepositories(ctx context.Context, accessToken string) ([]*github.Repository, error)
	ListIssues(ctx context.Context, accessToken, owner, repo, state string) ([]*github.Issue, error)
	CreateIssue(ctx context.Context, accessToken, owner, repo, title, body string) (*github.Issue, error)
	CloseIssue(ctx context.Context, accessToken, owner, repo string, number int) (*github.Issue, error)
}

// TrackerUsecase defines the interface for the external tracker bridge.
type TrackerUsecase interface {
	// BeginAuth starts the interactive flow and returns the authorization
	// URL the device should open.
	BeginAuth(userID string) string

	// CompleteAuth exchanges the authorization code for an access token.
	// On failure the linking session returns to Unauthenticated.
	CompleteAuth(ctx context.Context, userID, code string) (string, error)

	// State reports the current linking session state for a user.
	State(userID string) LinkState

	// Token returns the stored access token, or ErrNotLinked.
	Token(userID string) (string, error)

	ListRepositories(ctx context.Context, userID string) ([]*github.Repository, error)
	ListIssues(ctx context.Context, userID, owner, repo, state string) ([]*github.Issue, error)
	CreateIssue(ctx context.Context, userID, owner, repo, title, body string) (*github.Issue, error)
	CloseIssue(ctx context.Context, userID, owner, repo string, number int) (*github.Issue, error)

	// ImportIssues imports the repository's issues as tasks, skipping
	// issues already imported for this user. Returns the number of tasks
	// created.
	ImportIssues(ctx context.Context, userID, owner, repo string) (int, error)
}
