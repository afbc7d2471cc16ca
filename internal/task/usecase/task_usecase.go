package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	boardrepo "taskboard-backend/internal/board/repository"
	"taskboard-backend/internal/task/domain"
	"taskboard-backend/internal/task/repository"
)

// taskUsecase implements TaskUsecase.
type taskUsecase struct {
	taskRepo  repository.TaskRepository
	boardRepo boardrepo.BoardRepository
}

func NewTaskUsecase(taskRepo repository.TaskRepository, boardRepo boardrepo.BoardRepository) TaskUsecase {
	return &taskUsecase{
		taskRepo:  taskRepo,
		boardRepo: boardRepo,
	}
}

func (u *taskUsecase) CreateTask(ctx context.Context, userID, text, description, boardID string, deadline, reminderAt *string) (*domain.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if boardID != "" {
		if err := u.checkBoardOwnership(ctx, userID, boardID); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		Text:        text,
		Description: description,
		UserID:      userID,
		BoardID:     boardID,
		CreatedAt:   time.Now(),
	}

	if deadline != nil && *deadline != "" {
		t, err := domain.ParseDeadline(*deadline)
		if err != nil {
			return nil, err
		}
		task.Deadline = t
	}
	if reminderAt != nil && *reminderAt != "" {
		if t, err := time.Parse(time.RFC3339, *reminderAt); err == nil {
			task.ReminderAt = &t
		}
	}

	if _, err := u.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	if task.UserID != userID {
		return nil, ErrForbidden
	}
	return task, nil
}

func (u *taskUsecase) GetUserTasks(ctx context.Context, userID, boardID string) ([]*domain.Task, error) {
	return u.taskRepo.FindByUser(ctx, userID, boardID)
}

func (u *taskUsecase) SetCompletion(ctx context.Context, userID, taskID string, completed bool) error {
	if _, err := u.GetTask(ctx, userID, taskID); err != nil {
		return err
	}
	return u.taskRepo.UpdateFields(ctx, taskID, map[string]interface{}{
		"isCompleted": completed,
	})
}

func (u *taskUsecase) SetPriority(ctx context.Context, userID, taskID string, prioritized bool) error {
	if _, err := u.GetTask(ctx, userID, taskID); err != nil {
		return err
	}
	return u.taskRepo.UpdateFields(ctx, taskID, map[string]interface{}{
		"isPrioritized": prioritized,
	})
}

func (u *taskUsecase) MoveToBoard(ctx context.Context, userID, taskID, newBoardID string) error {
	if _, err := u.GetTask(ctx, userID, taskID); err != nil {
		return err
	}
	if newBoardID != "" {
		if err := u.checkBoardOwnership(ctx, userID, newBoardID); err != nil {
			return err
		}
	}
	return u.taskRepo.UpdateFields(ctx, taskID, map[string]interface{}{
		"boardId": newBoardID,
	})
}

func (u *taskUsecase) UpdateTask(ctx context.Context, userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})

	if updates.Text != nil {
		if strings.TrimSpace(*updates.Text) == "" {
			return nil, ErrEmptyText
		}
		fields["text"] = *updates.Text
		task.Text = *updates.Text
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
		task.Description = *updates.Description
	}
	if updates.BoardID != nil {
		if *updates.BoardID != "" {
			if err := u.checkBoardOwnership(ctx, userID, *updates.BoardID); err != nil {
				return nil, err
			}
		}
		fields["boardId"] = *updates.BoardID
		task.BoardID = *updates.BoardID
	}
	if updates.Deadline != nil {
		if *updates.Deadline == "" {
			fields["deadline"] = nil
			task.Deadline = nil
		} else {
			t, err := domain.ParseDeadline(*updates.Deadline)
			if err != nil {
				return nil, err
			}
			fields["deadline"] = *t
			task.Deadline = t
		}
	}
	if updates.ReminderAt != nil {
		if *updates.ReminderAt == "" {
			fields["reminderAt"] = nil
			fields["reminderSent"] = false
			task.ReminderAt = nil
			task.ReminderSent = false
		} else if t, err := time.Parse(time.RFC3339, *updates.ReminderAt); err == nil {
			// Reset delivery state when the reminder time changes.
			fields["reminderAt"] = t
			fields["reminderSent"] = false
			task.ReminderAt = &t
			task.ReminderSent = false
		}
	}

	if len(fields) == 0 {
		return task, nil
	}
	if err := u.taskRepo.UpdateFields(ctx, taskID, fields); err != nil {
		log.Printf("[TaskUsecase] Failed to update task %s: %v", taskID, err)
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) DeleteTask(ctx context.Context, userID, taskID string) error {
	if _, err := u.GetTask(ctx, userID, taskID); err != nil {
		return err
	}
	return u.taskRepo.Delete(ctx, taskID)
}

func (u *taskUsecase) checkBoardOwnership(ctx context.Context, userID, boardID string) error {
	board, err := u.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return err
	}
	if board == nil || board.UserID != userID {
		return ErrForbiddenBoard
	}
	return nil
}
