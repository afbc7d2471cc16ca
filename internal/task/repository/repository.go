package repository

import (
	"context"
	"time"

	"taskboard-backend/internal/task/domain"
)

// TaskRepository defines the interface for task document access.
type TaskRepository interface {
	// Create stores a new task and returns its generated id.
	Create(ctx context.Context, task *domain.Task) (string, error)

	// FindByID finds a task by its id. Returns (nil, nil) when absent.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindByUser finds all tasks for a user, optionally restricted to one
	// board, newest first.
	FindByUser(ctx context.Context, userID, boardID string) ([]*domain.Task, error)

	// FindByGithubID finds the task imported from the given remote issue id
	// for a user. Returns (nil, nil) when no such import exists.
	FindByGithubID(ctx context.Context, userID, githubID string) (*domain.Task, error)

	// UpdateFields applies a field-level partial update to a task document.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	// Delete removes a task by id.
	Delete(ctx context.Context, id string) error

	// FindDueReminders returns incomplete tasks whose reminder is due and
	// has not been sent yet.
	FindDueReminders(ctx context.Context, now time.Time) ([]*domain.Task, error)

	// MarkReminderSent marks a task's reminder as delivered.
	MarkReminderSent(ctx context.Context, id string) error

	// Watch opens a live query scoped to the user (and optionally a board).
	// Every delivery to onSnapshot is the full current matching set, never a
	// diff. Errors are terminal for the subscription: onError fires once and
	// no further snapshots are delivered. The returned cancel is idempotent.
	Watch(ctx context.Context, userID, boardID string, onSnapshot func([]*domain.Task), onError func(error)) (func(), error)
}
