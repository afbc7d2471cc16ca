package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"taskboard-backend/internal/board/domain"
	"taskboard-backend/internal/board/repository"
)

// boardUsecase implements BoardUsecase.
type boardUsecase struct {
	boardRepo repository.BoardRepository
}

func NewBoardUsecase(boardRepo repository.BoardRepository) BoardUsecase {
	return &boardUsecase{boardRepo: boardRepo}
}

func (u *boardUsecase) CreateBoard(ctx context.Context, userID, name, color, coverImage string) (*domain.Board, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if color == "" {
		color = domain.Palette[0]
	}
	if !domain.ValidColor(color) {
		return nil, ErrInvalidColor
	}

	board := &domain.Board{
		Name:       name,
		Color:      color,
		CoverImage: coverImage,
		UserID:     userID,
		CreatedAt:  time.Now(),
	}
	if _, err := u.boardRepo.Create(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (u *boardUsecase) GetBoard(ctx context.Context, userID, boardID string) (*domain.Board, error) {
	board, err := u.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, ErrNotFound
	}
	if board.UserID != userID {
		return nil, ErrForbidden
	}
	return board, nil
}

func (u *boardUsecase) GetUserBoards(ctx context.Context, userID string) ([]*domain.Board, error) {
	return u.boardRepo.FindByUser(ctx, userID)
}

func (u *boardUsecase) Rename(ctx context.Context, userID, boardID, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if _, err := u.GetBoard(ctx, userID, boardID); err != nil {
		return err
	}
	return u.boardRepo.UpdateFields(ctx, boardID, map[string]interface{}{
		"name": name,
	})
}

func (u *boardUsecase) Recolor(ctx context.Context, userID, boardID, color string) error {
	if !domain.ValidColor(color) {
		return ErrInvalidColor
	}
	if _, err := u.GetBoard(ctx, userID, boardID); err != nil {
		return err
	}
	return u.boardRepo.UpdateFields(ctx, boardID, map[string]interface{}{
		"color": color,
	})
}

func (u *boardUsecase) SetCover(ctx context.Context, userID, boardID, coverImage string) error {
	if _, err := u.GetBoard(ctx, userID, boardID); err != nil {
		return err
	}
	return u.boardRepo.UpdateFields(ctx, boardID, map[string]interface{}{
		"coverImage": coverImage,
	})
}

func (u *boardUsecase) DeleteBoardCascade(ctx context.Context, userID, boardID string) (int, error) {
	if _, err := u.GetBoard(ctx, userID, boardID); err != nil {
		return 0, err
	}
	deleted, err := u.boardRepo.DeleteWithTasks(ctx, boardID, userID)
	if err != nil {
		return 0, err
	}
	log.Printf("[BoardUsecase] Deleted board %s with %d task(s)", boardID, deleted)
	return deleted, nil
}
