// Package scheduler runs the periodic reminder sweep: due reminders become
// push notifications, once each.
package scheduler

import (
	"context"
	"log"
	"time"

	authrepo "taskboard-backend/internal/auth/repository"
	taskrepo "taskboard-backend/internal/task/repository"
	"taskboard-backend/pkg/fcm"

	"github.com/robfig/cron/v3"
)

type ReminderScheduler struct {
	taskRepo  taskrepo.TaskRepository
	tokenRepo authrepo.FCMTokenRepository
	fcmClient *fcm.Client
	cron      *cron.Cron
}

func NewReminderScheduler(taskRepo taskrepo.TaskRepository, tokenRepo authrepo.FCMTokenRepository, fcmClient *fcm.Client) *ReminderScheduler {
	return &ReminderScheduler{
		taskRepo:  taskRepo,
		tokenRepo: tokenRepo,
		fcmClient: fcmClient,
		cron:      cron.New(),
	}
}

// Start schedules the sweep every minute.
func (s *ReminderScheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("[Scheduler] Reminder sweep started")
	return nil
}

func (s *ReminderScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep sends notifications for every due, unsent reminder. The reminder is
// marked sent whether or not delivery succeeded, so a broken token can never
// cause the same reminder to fire twice.
func (s *ReminderScheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()

	tasks, err := s.taskRepo.FindDueReminders(ctx, time.Now())
	if err != nil {
		log.Printf("[Scheduler] Failed to query due reminders: %v", err)
		return
	}
	if len(tasks) == 0 {
		return
	}

	for _, task := range tasks {
		tokens, err := s.tokenRepo.GetTokensByUserID(task.UserID)
		if err != nil {
			log.Printf("[Scheduler] Failed to load device tokens for user %s: %v", task.UserID, err)
			continue
		}

		deviceTokens := make([]string, 0, len(tokens))
		for _, t := range tokens {
			deviceTokens = append(deviceTokens, t.Token)
		}

		if s.fcmClient != nil && len(deviceTokens) > 0 {
			failed, err := s.fcmClient.SendToDevices(ctx, deviceTokens, fcm.NotificationData{
				Title: "Task reminder",
				Body:  task.Text,
				Data:  map[string]string{"task_id": task.ID, "board_id": task.BoardID},
			})
			if err != nil {
				log.Printf("[Scheduler] Failed to send reminder for task %s: %v", task.ID, err)
			}
			for _, token := range failed {
				if err := s.tokenRepo.DeleteToken(token); err != nil {
					log.Printf("[Scheduler] Failed to prune dead token: %v", err)
				}
			}
		}

		if err := s.taskRepo.MarkReminderSent(ctx, task.ID); err != nil {
			log.Printf("[Scheduler] Failed to mark reminder sent for task %s: %v", task.ID, err)
		}
	}

	log.Printf("[Scheduler] Processed %d due reminder(s)", len(tasks))
}
