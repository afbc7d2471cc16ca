package tracker

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	taskdomain "taskboard-backend/internal/task/domain"
	taskrepo "taskboard-backend/internal/task/repository"
	"taskboard-backend/pkg/github"

	"github.com/google/uuid"
)

// trackerUsecase implements TrackerUsecase. Linking sessions are held in
// memory; the access token lives only as long as the process, like the
// original per-screen session.
type trackerUsecase struct {
	github   GithubAPI
	taskRepo taskrepo.TaskRepository

	mu       sync.Mutex
	sessions map[string]*linkSession

	// importMu serializes check-then-insert within this process. A second
	// backend instance importing concurrently can still race; see DESIGN.md.
	importMu sync.Mutex
}

type linkSession struct {
	state LinkState
	token string
}

func NewTrackerUsecase(githubClient GithubAPI, taskRepo taskrepo.TaskRepository) TrackerUsecase {
	return &trackerUsecase{
		github:   githubClient,
		taskRepo: taskRepo,
		sessions: make(map[string]*linkSession),
	}
}

func (u *trackerUsecase) session(userID string) *linkSession {
	if s, ok := u.sessions[userID]; ok {
		return s
	}
	s := &linkSession{state: StateUnauthenticated}
	u.sessions[userID] = s
	return s
}

func (u *trackerUsecase) BeginAuth(userID string) string {
	u.mu.Lock()
	s := u.session(userID)
	s.state = StateAwaitingCode
	u.mu.Unlock()

	return u.github.AuthorizeURL(uuid.New().String())
}

func (u *trackerUsecase) CompleteAuth(ctx context.Context, userID, code string) (string, error) {
	u.mu.Lock()
	s := u.session(userID)
	if s.state != StateAwaitingCode {
		u.mu.Unlock()
		return "", ErrAuthNotStarted
	}
	s.state = StateExchangingToken
	u.mu.Unlock()

	token, err := u.github.ExchangeCode(ctx, code)

	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		s.state = StateUnauthenticated
		return "", err
	}
	s.state = StateAuthenticated
	s.token = token
	return token, nil
}

func (u *trackerUsecase) State(userID string) LinkState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.session(userID).state
}

func (u *trackerUsecase) Token(userID string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.session(userID)
	if s.state != StateAuthenticated || s.token == "" {
		return "", ErrNotLinked
	}
	return s.token, nil
}

func (u *trackerUsecase) ListRepositories(ctx context.Context, userID string) ([]*github.Repository, error) {
	token, err := u.Token(userID)
	if err != nil {
		return nil, err
	}
	return u.github.ListRepositories(ctx, token)
}

func (u *trackerUsecase) ListIssues(ctx context.Context, userID, owner, repo, state string) ([]*github.Issue, error) {
	token, err := u.Token(userID)
	if err != nil {
		return nil, err
	}
	return u.github.ListIssues(ctx, token, owner, repo, state)
}

func (u *trackerUsecase) CreateIssue(ctx context.Context, userID, owner, repo, title, body string) (*github.Issue, error) {
	token, err := u.Token(userID)
	if err != nil {
		return nil, err
	}
	return u.github.CreateIssue(ctx, token, owner, repo, title, body)
}

func (u *trackerUsecase) CloseIssue(ctx context.Context, userID, owner, repo string, number int) (*github.Issue, error) {
	token, err := u.Token(userID)
	if err != nil {
		return nil, err
	}
	return u.github.CloseIssue(ctx, token, owner, repo, number)
}

func (u *trackerUsecase) ImportIssues(ctx context.Context, userID, owner, repo string) (int, error) {
	token, err := u.Token(userID)
	if err != nil {
		return 0, err
	}

	issues, err := u.github.ListIssues(ctx, token, owner, repo, "all")
	if err != nil {
		return 0, err
	}

	u.importMu.Lock()
	defer u.importMu.Unlock()

	imported := 0
	for _, issue := range issues {
		candidate := IssueToTask(issue, userID)

		existing, err := u.taskRepo.FindByGithubID(ctx, userID, candidate.GithubID)
		if err != nil {
			log.Printf("[Tracker] Failed to check for existing import of issue %s: %v", candidate.GithubID, err)
			continue
		}
		if existing != nil {
			// Already imported once for this user; a closed-then-reopened
			// issue keeps its mapping and is never imported twice.
			continue
		}

		if _, err := u.taskRepo.Create(ctx, candidate); err != nil {
			log.Printf("[Tracker] Failed to import issue %s as task: %v", candidate.GithubID, err)
			continue
		}
		imported++
	}

	log.Printf("[Tracker] Imported %d issue(s) from %s/%s for user %s", imported, owner, repo, userID)
	return imported, nil
}

// IssueToTask maps a remote issue to a candidate local task: title becomes
// the text, a closed issue arrives completed, and the remote numeric id is
// stringified as the external id.
func IssueToTask(issue *github.Issue, userID string) *taskdomain.Task {
	return &taskdomain.Task{
		Text:        issue.Title,
		UserID:      userID,
		IsCompleted: issue.State == "closed",
		GithubID:    strconv.FormatInt(issue.ID, 10),
		CreatedAt:   time.Now(),
	}
}
