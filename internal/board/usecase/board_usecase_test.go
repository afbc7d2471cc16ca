package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"taskboard-backend/internal/board/domain"
)

// fakeBoardRepo is an in-memory BoardRepository that also tracks how many
// tasks each board carries, so cascade deletes can be asserted.
type fakeBoardRepo struct {
	boards    map[string]*domain.Board
	taskCount map[string]int
	nextID    int
	updates   []map[string]interface{}
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{
		boards:    make(map[string]*domain.Board),
		taskCount: make(map[string]int),
	}
}

func (r *fakeBoardRepo) Create(ctx context.Context, board *domain.Board) (string, error) {
	r.nextID++
	board.ID = fmt.Sprintf("board-%d", r.nextID)
	copied := *board
	r.boards[board.ID] = &copied
	return board.ID, nil
}

func (r *fakeBoardRepo) FindByID(ctx context.Context, id string) (*domain.Board, error) {
	if b, ok := r.boards[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeBoardRepo) FindByUser(ctx context.Context, userID string) ([]*domain.Board, error) {
	var out []*domain.Board
	for _, b := range r.boards {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeBoardRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	b, ok := r.boards[id]
	if !ok {
		return errors.New("no such board")
	}
	r.updates = append(r.updates, fields)
	if v, ok := fields["name"]; ok {
		b.Name = v.(string)
	}
	if v, ok := fields["color"]; ok {
		b.Color = v.(string)
	}
	if v, ok := fields["coverImage"]; ok {
		b.CoverImage = v.(string)
	}
	return nil
}

func (r *fakeBoardRepo) DeleteWithTasks(ctx context.Context, boardID, userID string) (int, error) {
	if _, ok := r.boards[boardID]; !ok {
		return 0, errors.New("no such board")
	}
	deleted := r.taskCount[boardID]
	delete(r.taskCount, boardID)
	delete(r.boards, boardID)
	return deleted, nil
}

func (r *fakeBoardRepo) Watch(ctx context.Context, userID string, onSnapshot func([]*domain.Board), onError func(error)) (func(), error) {
	return func() {}, nil
}

func TestCreateBoard(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty name", func(t *testing.T) {
		uc := NewBoardUsecase(newFakeBoardRepo())
		if _, err := uc.CreateBoard(ctx, "u1", "  ", "", ""); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("err = %v, want ErrEmptyName", err)
		}
	})

	t.Run("empty color defaults to first palette entry", func(t *testing.T) {
		uc := NewBoardUsecase(newFakeBoardRepo())
		board, err := uc.CreateBoard(ctx, "u1", "Groceries", "", "")
		if err != nil {
			t.Fatalf("CreateBoard: %v", err)
		}
		if board.Color != domain.Palette[0] {
			t.Fatalf("color = %q, want %q", board.Color, domain.Palette[0])
		}
	})

	t.Run("rejects colors outside the palette", func(t *testing.T) {
		uc := NewBoardUsecase(newFakeBoardRepo())
		if _, err := uc.CreateBoard(ctx, "u1", "Groceries", "#bada55", ""); !errors.Is(err, ErrInvalidColor) {
			t.Fatalf("err = %v, want ErrInvalidColor", err)
		}
	})
}

func TestRenameAndRecolor(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBoardRepo()
	uc := NewBoardUsecase(repo)
	board, _ := uc.CreateBoard(ctx, "u1", "Groceries", "", "")

	t.Run("rename", func(t *testing.T) {
		if err := uc.Rename(ctx, "u1", board.ID, "Errands"); err != nil {
			t.Fatalf("Rename: %v", err)
		}
		if repo.boards[board.ID].Name != "Errands" {
			t.Fatalf("name = %q", repo.boards[board.ID].Name)
		}
	})

	t.Run("recolor with palette color", func(t *testing.T) {
		next := domain.Palette[1]
		if err := uc.Recolor(ctx, "u1", board.ID, next); err != nil {
			t.Fatalf("Recolor: %v", err)
		}
		if repo.boards[board.ID].Color != next {
			t.Fatalf("color = %q", repo.boards[board.ID].Color)
		}
	})

	t.Run("another user cannot rename", func(t *testing.T) {
		if err := uc.Rename(ctx, "u2", board.ID, "Hijacked"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})
}

func TestDeleteBoardCascade(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes board and its tasks", func(t *testing.T) {
		repo := newFakeBoardRepo()
		uc := NewBoardUsecase(repo)
		board, _ := uc.CreateBoard(ctx, "u1", "Groceries", "", "")
		repo.taskCount[board.ID] = 3

		deleted, err := uc.DeleteBoardCascade(ctx, "u1", board.ID)
		if err != nil {
			t.Fatalf("DeleteBoardCascade: %v", err)
		}
		if deleted != 3 {
			t.Fatalf("deleted = %d, want 3", deleted)
		}
		if _, ok := repo.boards[board.ID]; ok {
			t.Fatal("board still stored")
		}
		if repo.taskCount[board.ID] != 0 {
			t.Fatal("tasks still reference the board")
		}
	})

	t.Run("empty board is a clean no-op cascade", func(t *testing.T) {
		repo := newFakeBoardRepo()
		uc := NewBoardUsecase(repo)
		board, _ := uc.CreateBoard(ctx, "u1", "Empty", "", "")

		deleted, err := uc.DeleteBoardCascade(ctx, "u1", board.ID)
		if err != nil {
			t.Fatalf("DeleteBoardCascade: %v", err)
		}
		if deleted != 0 {
			t.Fatalf("deleted = %d, want 0", deleted)
		}
	})

	t.Run("unknown board", func(t *testing.T) {
		uc := NewBoardUsecase(newFakeBoardRepo())
		if _, err := uc.DeleteBoardCascade(ctx, "u1", "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("another user's board", func(t *testing.T) {
		repo := newFakeBoardRepo()
		uc := NewBoardUsecase(repo)
		board, _ := uc.CreateBoard(ctx, "u1", "Private", "", "")

		if _, err := uc.DeleteBoardCascade(ctx, "u2", board.ID); !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
		if _, ok := repo.boards[board.ID]; !ok {
			t.Fatal("board deleted despite ownership failure")
		}
	})
}
