// internal/notification/push.go

package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
)

const (
	notificationsCollection = "notifications"
	deviceTokensCollection  = "device_tokens"
)

type deviceTokensDoc struct {
	Netid  string   `firestore:"netid"`
	Tokens []string `firestore:"tokens"`
}

// FCMService delivers pushes through Firebase Cloud Messaging and records
// each dispatch in the notifications collection.
type FCMService struct {
	client *messaging.Client
	store  *firestore.Client
}

func NewFCMService(ctx context.Context, app *firebase.App, store *firestore.Client) (*FCMService, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}
	return &FCMService{client: client, store: store}, nil
}

func (s *FCMService) NotifyMutualNudge(ctx context.Context, netid, partner, promptID string) error {
	record := &Notification{
		ID:        uuid.NewString(),
		Netid:     netid,
		Type:      TypeMutualNudge,
		Title:     "It's mutual!",
		Body:      "You nudged each other. Chat is now open.",
		PromptID:  promptID,
		Partner:   partner,
		CreatedAt: time.Now(),
	}
	if _, err := s.store.Collection(notificationsCollection).Doc(record.ID).Create(ctx, record); err != nil {
		return fmt.Errorf("failed to record notification for %s: %w", netid, err)
	}

	tokens, err := s.deviceTokens(ctx, netid)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		log.Printf("No device tokens registered for %s, skipping push", netid)
		return nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: record.Title,
			Body:  record.Body,
		},
		Data: map[string]string{
			"type":      TypeMutualNudge,
			"prompt_id": promptID,
			"partner":   partner,
		},
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send push to %s: %w", netid, err)
	}
	if response.FailureCount > 0 {
		log.Printf("Push to %s: %d of %d tokens failed", netid, response.FailureCount, len(tokens))
	}
	return nil
}

func (s *FCMService) deviceTokens(ctx context.Context, netid string) ([]string, error) {
	snap, err := s.store.Collection(deviceTokensCollection).Doc(netid).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch device tokens for %s: %w", netid, err)
	}

	var doc deviceTokensDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("malformed device token document %s: %w", netid, err)
	}
	return doc.Tokens, nil
}
