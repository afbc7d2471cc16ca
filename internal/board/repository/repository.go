package repository

import (
	"context"

	"taskboard-backend/internal/board/domain"
)

// BoardRepository defines the interface for board document access.
type BoardRepository interface {
	// Create stores a new board and returns its generated id.
	Create(ctx context.Context, board *domain.Board) (string, error)

	// FindByID finds a board by its id. Returns (nil, nil) when absent.
	FindByID(ctx context.Context, id string) (*domain.Board, error)

	// FindByUser finds all boards owned by the user.
	FindByUser(ctx context.Context, userID string) ([]*domain.Board, error)

	// UpdateFields applies a field-level partial update to a board document.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	// DeleteWithTasks removes the board and every task referencing it for the
	// same owner in one atomic batch, and returns the number of tasks
	// deleted. Either everything is deleted or nothing is.
	DeleteWithTasks(ctx context.Context, boardID, userID string) (int, error)

	// Watch opens a live query over the user's boards. Same contract as
	// TaskRepository.Watch: full snapshots, terminal errors, idempotent
	// cancel.
	Watch(ctx context.Context, userID string, onSnapshot func([]*domain.Board), onError func(error)) (func(), error)
}
