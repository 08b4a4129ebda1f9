package profile

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const (
	profilesCollection    = "profiles"
	preferencesCollection = "preferences"
	blocksCollection      = "blocks"
)

type firestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository creates a Firestore-backed profile repository.
// Documents are keyed by netid (profiles, preferences) or "blocker_blocked" (blocks).
func NewFirestoreRepository(client *firestore.Client) Repository {
	return &firestoreRepository{client: client}
}

func (r *firestoreRepository) GetProfiles(ctx context.Context, netids []string) (map[string]*Profile, error) {
	refs := make([]*firestore.DocumentRef, 0, len(netids))
	for _, netid := range netids {
		refs = append(refs, r.client.Collection(profilesCollection).Doc(netid))
	}

	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}

	profiles := make(map[string]*Profile, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var p Profile
		if err := snap.DataTo(&p); err != nil {
			log.Printf("Skipping malformed profile document %s: %v", snap.Ref.ID, err)
			continue
		}
		if p.Netid == "" {
			log.Printf("Skipping profile document %s: missing netid field", snap.Ref.ID)
			continue
		}
		profiles[p.Netid] = &p
	}

	return profiles, nil
}

func (r *firestoreRepository) GetPreferences(ctx context.Context, netids []string) (map[string]*Preferences, error) {
	refs := make([]*firestore.DocumentRef, 0, len(netids))
	for _, netid := range netids {
		refs = append(refs, r.client.Collection(preferencesCollection).Doc(netid))
	}

	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}

	prefs := make(map[string]*Preferences, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var p Preferences
		if err := snap.DataTo(&p); err != nil {
			log.Printf("Skipping malformed preferences document %s: %v", snap.Ref.ID, err)
			continue
		}
		if p.Netid == "" {
			p.Netid = snap.Ref.ID
		}
		prefs[p.Netid] = &p
	}

	return prefs, nil
}

func (r *firestoreRepository) GetBlockedNetids(ctx context.Context, netid string) (map[string]bool, error) {
	iter := r.client.Collection(blocksCollection).Where("blocker", "==", netid).Documents(ctx)
	defer iter.Stop()

	blocked := make(map[string]bool)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch blocks for %s: %w", netid, err)
		}
		var b Block
		if err := snap.DataTo(&b); err != nil {
			log.Printf("Skipping malformed block document %s: %v", snap.Ref.ID, err)
			continue
		}
		if b.Blocked != "" {
			blocked[b.Blocked] = true
		}
	}

	return blocked, nil
}
