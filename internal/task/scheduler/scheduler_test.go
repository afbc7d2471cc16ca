package scheduler

import (
	"context"
	"testing"
	"time"

	authdomain "taskboard-backend/internal/auth/domain"
	"taskboard-backend/internal/task/domain"
)

// sweepTaskRepo serves a fixed due set and records which reminders were
// marked sent.
type sweepTaskRepo struct {
	due    []*domain.Task
	marked []string
}

func (r *sweepTaskRepo) Create(ctx context.Context, task *domain.Task) (string, error) {
	return "", nil
}

func (r *sweepTaskRepo) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	return nil, nil
}

func (r *sweepTaskRepo) FindByUser(ctx context.Context, userID, boardID string) ([]*domain.Task, error) {
	return nil, nil
}

func (r *sweepTaskRepo) FindByGithubID(ctx context.Context, userID, githubID string) (*domain.Task, error) {
	return nil, nil
}

func (r *sweepTaskRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}

func (r *sweepTaskRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *sweepTaskRepo) FindDueReminders(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	return r.due, nil
}

func (r *sweepTaskRepo) MarkReminderSent(ctx context.Context, id string) error {
	r.marked = append(r.marked, id)
	return nil
}

func (r *sweepTaskRepo) Watch(ctx context.Context, userID, boardID string, onSnapshot func([]*domain.Task), onError func(error)) (func(), error) {
	return func() {}, nil
}

type sweepTokenRepo struct {
	lookups int
}

func (r *sweepTokenRepo) Save(token *authdomain.FCMToken) error { return nil }

func (r *sweepTokenRepo) GetTokensByUserID(userID string) ([]*authdomain.FCMToken, error) {
	r.lookups++
	return nil, nil
}

func (r *sweepTokenRepo) DeleteToken(token string) error { return nil }

func TestSweep(t *testing.T) {
	t.Run("marks every due reminder sent", func(t *testing.T) {
		taskRepo := &sweepTaskRepo{due: []*domain.Task{
			{ID: "t1", Text: "one", UserID: "u1"},
			{ID: "t2", Text: "two", UserID: "u2"},
		}}
		tokenRepo := &sweepTokenRepo{}

		// nil FCM client: reminders are still marked so they never refire
		// once messaging comes back.
		s := NewReminderScheduler(taskRepo, tokenRepo, nil)
		s.Sweep()

		if len(taskRepo.marked) != 2 {
			t.Fatalf("marked = %v, want both due tasks", taskRepo.marked)
		}
		if tokenRepo.lookups != 2 {
			t.Fatalf("token lookups = %d, want 2", tokenRepo.lookups)
		}
	})

	t.Run("quiet when nothing is due", func(t *testing.T) {
		taskRepo := &sweepTaskRepo{}
		s := NewReminderScheduler(taskRepo, &sweepTokenRepo{}, nil)
		s.Sweep()

		if len(taskRepo.marked) != 0 {
			t.Fatalf("marked = %v, want none", taskRepo.marked)
		}
	})
}
