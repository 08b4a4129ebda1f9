package nudge

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

const nudgesCollection = "nudges"

type firestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) Repository {
	return &firestoreRepository{client: client}
}

func (r *firestoreRepository) CreateNudge(ctx context.Context, nudge *Nudge) (bool, error) {
	forwardRef := r.client.Collection(nudgesCollection).Doc(NudgeDocID(nudge.From, nudge.PromptID, nudge.To))
	reverseRef := r.client.Collection(nudgesCollection).Doc(NudgeDocID(nudge.To, nudge.PromptID, nudge.From))

	becameMutual := false
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		becameMutual = false

		forwardSnap, err := tx.Get(forwardRef)
		if err == nil && forwardSnap.Exists() {
			return ErrNudgeExists
		}
		if err != nil && (forwardSnap == nil || forwardSnap.Exists()) {
			return err
		}

		reverseSnap, err := tx.Get(reverseRef)
		reverseExists := err == nil && reverseSnap.Exists()
		if err != nil && (reverseSnap == nil || reverseSnap.Exists()) {
			return err
		}

		record := *nudge
		record.Mutual = reverseExists
		if err := tx.Create(forwardRef, &record); err != nil {
			return err
		}

		if reverseExists {
			if err := tx.Update(reverseRef, []firestore.Update{{Path: "mutual", Value: true}}); err != nil {
				return err
			}
			becameMutual = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	nudge.Mutual = becameMutual
	return becameMutual, nil
}

func (r *firestoreRepository) GetNudge(ctx context.Context, from, to, promptID string) (*Nudge, error) {
	snap, err := r.client.Collection(nudgesCollection).Doc(NudgeDocID(from, promptID, to)).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch nudge: %w", err)
	}

	var nudge Nudge
	if err := snap.DataTo(&nudge); err != nil {
		return nil, fmt.Errorf("malformed nudge document %s: %w", snap.Ref.ID, err)
	}
	return &nudge, nil
}
