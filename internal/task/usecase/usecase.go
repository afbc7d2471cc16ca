package usecase

import (
	"context"
	"errors"

	"taskboard-backend/internal/task/domain"
)

var (
	// ErrNotFound is returned when the task does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrForbidden is returned when the task belongs to another user.
	ErrForbidden = errors.New("unauthorized")
	// ErrForbiddenBoard is returned when a task would be created on or moved
	// to a board the user does not own. The write is rejected before it
	// reaches the store.
	ErrForbiddenBoard = errors.New("board does not belong to user")
	// ErrEmptyText is returned when a task is created or renamed with an
	// empty title.
	ErrEmptyText = errors.New("task text must not be empty")
)

// TaskUsecase defines the interface for task business logic. All mutations
// are discrete field-level writes: re-applying the same value produces no
// observable change, and nothing is retried.
type TaskUsecase interface {
	// CreateTask creates a new task. Text is required; boardID may be empty
	// ("unfiled") but when present must reference a board the user owns.
	CreateTask(ctx context.Context, userID, text, description, boardID string, deadline, reminderAt *string) (*domain.Task, error)

	// GetTask retrieves a task by id (with ownership check).
	GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error)

	// GetUserTasks retrieves all tasks for a user, optionally scoped to a
	// board, newest first.
	GetUserTasks(ctx context.Context, userID, boardID string) ([]*domain.Task, error)

	// SetCompletion sets the completion flag.
	SetCompletion(ctx context.Context, userID, taskID string, completed bool) error

	// SetPriority sets the priority flag.
	SetPriority(ctx context.Context, userID, taskID string, prioritized bool) error

	// MoveToBoard reassigns the task to another board owned by the same
	// user. An empty newBoardID unfiles the task.
	MoveToBoard(ctx context.Context, userID, taskID, newBoardID string) error

	// UpdateTask applies a partial update.
	UpdateTask(ctx context.Context, userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// TaskUpdateRequest represents the fields that can be updated. Nil means
// "leave unchanged"; an empty string clears optional fields.
type TaskUpdateRequest struct {
	Text        *string `json:"text,omitempty"`
	Description *string `json:"description,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	BoardID     *string `json:"board_id,omitempty"`
	ReminderAt  *string `json:"reminder_at,omitempty"`
}
