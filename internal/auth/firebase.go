package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/imageanchor/artaday-backend/config"
)

// InitializeFirebase initializes the Firebase Admin SDK app used for both ID-token
// verification and the Realtime Database entry store.
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	var appCfg *firebase.Config
	if cfg.DatabaseURL != "" {
		appCfg = &firebase.Config{DatabaseURL: cfg.DatabaseURL}
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, appCfg, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

// AuthClient returns the Auth client of app.
func AuthClient(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}
	return authClient, nil
}

// DatabaseClient returns the Realtime Database client of app.
func DatabaseClient(ctx context.Context, app *firebase.App, url string) (*db.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("FIREBASE_DATABASE_URL is required")
	}
	client, err := app.DatabaseWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get Database client: %w", err)
	}
	return client, nil
}
