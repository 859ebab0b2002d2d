package services

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNoDeviceToken is returned when the recipient never registered a device.
var ErrNoDeviceToken = errors.New("no device token registered for user")

// MessageSender is satisfied by *messaging.Client.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// TokenLookup finds the FCM device token of a user by email.
type TokenLookup interface {
	DeviceToken(ctx context.Context, email string) (string, error)
}

// FirestoreTokenLookup reads usersLogin/{email}.FMCToken, the document the
// mobile client writes on sign-in.
type FirestoreTokenLookup struct {
	client *firestore.Client
}

func NewFirestoreTokenLookup(client *firestore.Client) *FirestoreTokenLookup {
	return &FirestoreTokenLookup{client: client}
}

func (l *FirestoreTokenLookup) DeviceToken(ctx context.Context, email string) (string, error) {
	doc, err := l.client.Collection("usersLogin").Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", ErrNoDeviceToken
		}
		return "", fmt.Errorf("get login document: %w", err)
	}
	token, ok := doc.Data()["FMCToken"].(string)
	if !ok || token == "" {
		return "", ErrNoDeviceToken
	}
	return token, nil
}

// PushNotifier delivers the subject line as an FCM notification.
type PushNotifier struct {
	tokens TokenLookup
	sender MessageSender
}

func NewPushNotifier(tokens TokenLookup, sender MessageSender) *PushNotifier {
	return &PushNotifier{tokens: tokens, sender: sender}
}

func (n *PushNotifier) Send(ctx context.Context, toEmail, subject, _ string) error {
	token, err := n.tokens.DeviceToken(ctx, toEmail)
	if err != nil {
		return err
	}
	message := &messaging.Message{
		Data: map[string]string{"payload": "invitation"},
		Notification: &messaging.Notification{
			Title: "Board invitation",
			Body:  subject,
		},
		Token: token,
	}
	if _, err := n.sender.Send(ctx, message); err != nil {
		return fmt.Errorf("send push notification: %w", err)
	}
	return nil
}
