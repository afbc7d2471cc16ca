package firebase

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"taskboard-backend/pkg/config"
)

// App bundles the Firebase clients the backend depends on: Firestore for
// board/task/profile documents and Messaging for push reminders.
type App struct {
	Firestore *firestore.Client
	Messaging *messaging.Client
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentials))
	}

	var fbCfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	msg, err := app.Messaging(ctx)
	if err != nil {
		// Messaging is optional; reminders are disabled without it.
		log.Printf("[Firebase] Messaging client unavailable (push reminders disabled): %v", err)
		msg = nil
	}

	log.Println("[Firebase] Clients initialized successfully")
	return &App{Firestore: fs, Messaging: msg}, nil
}

func (a *App) Close() error {
	if a.Firestore != nil {
		return a.Firestore.Close()
	}
	return nil
}
