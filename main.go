package main

import (
	"context"
	"log"

	api "taskboard-backend/cmd/api"
	authdomain "taskboard-backend/internal/auth/domain"
	authRepo "taskboard-backend/internal/auth/repository"
	authUsecase "taskboard-backend/internal/auth/usecase"
	boarddomain "taskboard-backend/internal/board/domain"
	boardRepo "taskboard-backend/internal/board/repository"
	boardUsecase "taskboard-backend/internal/board/usecase"
	profileRepo "taskboard-backend/internal/profile/repository"
	profileUsecase "taskboard-backend/internal/profile/usecase"
	"taskboard-backend/internal/session"
	"taskboard-backend/internal/stream"
	taskRepo "taskboard-backend/internal/task/repository"
	"taskboard-backend/internal/task/scheduler"
	taskUsecase "taskboard-backend/internal/task/usecase"
	"taskboard-backend/internal/tracker"
	"taskboard-backend/pkg/config"
	"taskboard-backend/pkg/database"
	"taskboard-backend/pkg/fcm"
	"taskboard-backend/pkg/firebase"
	"taskboard-backend/pkg/github"
	"taskboard-backend/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize identity database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate identity schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.FCMToken{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Firebase (Firestore documents + optional messaging)
	ctx := context.Background()
	fbApp, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize Firebase:", err)
	}
	defer fbApp.Close()

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	fcmTokenRepository := authRepo.NewFCMTokenRepository(db)
	taskRepository := taskRepo.NewFirestoreTaskRepository(fbApp.Firestore)
	boardRepository := boardRepo.NewFirestoreBoardRepository(fbApp.Firestore)
	profileRepository := profileRepo.NewFirestoreProfileRepository(fbApp.Firestore)

	// Session manager owns the subscription cancellation registry
	sessions := session.NewManager(profileRepository)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Live subscription hub
	hub := stream.NewHub(taskRepository, boardRepository, sessions, sseManager, boarddomain.Palette[0])

	// GitHub OAuth client
	githubClient := github.NewClient(cfg.GithubClientID, cfg.GithubClientSecret, cfg.GithubRedirectURI)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, fcmTokenRepository, sessions, githubClient, cfg)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskRepository, boardRepository)
	boardUsecaseInstance := boardUsecase.NewBoardUsecase(boardRepository)
	profileUsecaseInstance := profileUsecase.NewProfileUsecase(profileRepository)
	trackerUsecaseInstance := tracker.NewTrackerUsecase(githubClient, taskRepository)

	// Reminder sweep (FCM optional: without messaging credentials reminders
	// are still marked, just not pushed)
	var fcmClient *fcm.Client
	if fbApp.Messaging != nil {
		fcmClient = fcm.NewClient(fbApp.Messaging)
	} else {
		log.Println("[WARN] Firebase messaging unavailable, push reminders disabled")
	}
	reminderScheduler := scheduler.NewReminderScheduler(taskRepository, fcmTokenRepository, fcmClient)
	if err := reminderScheduler.Start(); err != nil {
		log.Fatal("Failed to start reminder scheduler:", err)
	}
	defer reminderScheduler.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, taskUsecaseInstance, boardUsecaseInstance, profileUsecaseInstance, trackerUsecaseInstance, sseManager, hub, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
