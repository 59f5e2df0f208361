package push

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// ErrTokenNotRegistered marks a token the provider reports as gone for good.
// Callers should remove such tokens from the token store; every other send
// error is an opaque transient failure.
var ErrTokenNotRegistered = errors.New("push: token not registered")

// Sender delivers a push notification to a single device token.
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// Disabled is the Sender used when no push credentials are configured.
// Every send fails, so deliveries still land in the in-app inbox but no
// notification goes out.
type Disabled struct{}

func (Disabled) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	return errors.New("push: not configured")
}

// FCMSender sends web push notifications through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender initializes the Firebase app from a service account file.
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init messaging client: %v", err)
	}

	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: title,
				Body:  body,
				Icon:  "/favicon.ico",
			},
		},
	}

	_, err := s.client.Send(ctx, msg)
	if err != nil && messaging.IsRegistrationTokenNotRegistered(err) {
		return fmt.Errorf("%w: %v", ErrTokenNotRegistered, err)
	}
	return err
}
