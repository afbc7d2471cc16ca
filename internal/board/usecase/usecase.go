package usecase

import (
	"context"
	"errors"

	"taskboard-backend/internal/board/domain"
)

var (
	// ErrNotFound is returned when the board does not exist.
	ErrNotFound = errors.New("board not found")
	// ErrForbidden is returned when the board belongs to another user.
	ErrForbidden = errors.New("unauthorized")
	// ErrEmptyName is returned when a board is created or renamed with an
	// empty name.
	ErrEmptyName = errors.New("board name must not be empty")
	// ErrInvalidColor is returned when the color is not part of the palette.
	ErrInvalidColor = errors.New("color is not in the board palette")
)

// BoardUsecase defines the interface for board business logic.
type BoardUsecase interface {
	// CreateBoard creates a board. Name is required; an empty color defaults
	// to the first palette entry; coverImage is an optional URL.
	CreateBoard(ctx context.Context, userID, name, color, coverImage string) (*domain.Board, error)

	// GetBoard retrieves a board by id (with ownership check).
	GetBoard(ctx context.Context, userID, boardID string) (*domain.Board, error)

	// GetUserBoards retrieves all boards owned by the user.
	GetUserBoards(ctx context.Context, userID string) ([]*domain.Board, error)

	// Rename changes the board name.
	Rename(ctx context.Context, userID, boardID, name string) error

	// Recolor changes the board color (palette-checked).
	Recolor(ctx context.Context, userID, boardID, color string) error

	// SetCover changes the cover image reference.
	SetCover(ctx context.Context, userID, boardID, coverImage string) error

	// DeleteBoardCascade deletes the board together with all tasks that
	// reference it, atomically, and returns the number of tasks removed.
	DeleteBoardCascade(ctx context.Context, userID, boardID string) (int, error)
}
