package connection

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"taskboard/config"
)

// Firebase bundles the clients used for the collaborator mirror and push
// notifications.
type Firebase struct {
	Firestore *firestore.Client
	Messaging *messaging.Client
}

// FBConnection returns nil when no service account is configured.
func FBConnection(ctx context.Context, cfg config.Config) (*Firebase, error) {
	if cfg.FirebaseCredentials == "" {
		return nil, nil
	}
	opt := option.WithCredentialsFile(cfg.FirebaseCredentials)
	var fbConfig *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebase.NewApp(ctx, fbConfig, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	msg, err := app.Messaging(ctx)
	if err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("messaging client: %w", err)
	}
	return &Firebase{Firestore: fs, Messaging: msg}, nil
}

func (f *Firebase) Close() error {
	if f == nil {
		return nil
	}
	return f.Firestore.Close()
}
