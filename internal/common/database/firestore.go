// internal/common/database/firestore.go
// Firestore connection via the Firebase Admin SDK

package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FirebaseConfig holds the credentials used to initialize the Firebase app
type FirebaseConfig struct {
	ProjectID       string
	CredentialsPath string
	CredentialsJSON string
}

// NewFirebaseApp initializes the Firebase app from a credentials file or inline JSON.
// Falls back to application-default credentials when neither is set.
func NewFirebaseApp(ctx context.Context, cfg *FirebaseConfig) (*firebase.App, error) {
	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

// NewFirestoreClient opens the Firestore client for the initialized app
func NewFirestoreClient(ctx context.Context, app *firebase.App) (*firestore.Client, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}
