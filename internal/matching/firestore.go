package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-redis/redis/v8"
	"google.golang.org/api/iterator"
)

const (
	matchesCollection = "matches"
	rosterCollection  = "prompt_answers"
)

type rosterDoc struct {
	PromptID string   `firestore:"promptId"`
	Netids   []string `firestore:"netids"`
}

type firestoreRepository struct {
	client   *firestore.Client
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewFirestoreRepository creates a Firestore-backed match repository. The
// Redis client is optional; when present, GetMatch reads through a JSON cache
// that every mutation invalidates.
func NewFirestoreRepository(client *firestore.Client, cache *redis.Client, cacheTTL time.Duration) Repository {
	return &firestoreRepository{client: client, cache: cache, cacheTTL: cacheTTL}
}

func matchCacheKey(netid, promptID string) string {
	return "match:" + MatchDocID(netid, promptID)
}

func (r *firestoreRepository) GetMatch(ctx context.Context, netid, promptID string) (*MatchRecord, error) {
	if r.cache != nil {
		if data, err := r.cache.Get(ctx, matchCacheKey(netid, promptID)).Bytes(); err == nil {
			var record MatchRecord
			if err := json.Unmarshal(data, &record); err == nil {
				return &record, nil
			}
		}
	}

	snap, err := r.client.Collection(matchesCollection).Doc(MatchDocID(netid, promptID)).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch match record: %w", err)
	}

	record, err := decodeMatch(snap)
	if err != nil {
		return nil, err
	}

	r.cacheSet(ctx, record)
	return record, nil
}

func (r *firestoreRepository) CreateMatch(ctx context.Context, record *MatchRecord) error {
	ref := r.client.Collection(matchesCollection).Doc(MatchDocID(record.Netid, record.PromptID))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err == nil && snap.Exists() {
			return ErrRecordExists
		}
		if err != nil && (snap == nil || snap.Exists()) {
			return err
		}
		return tx.Create(ref, record)
	})
	if err != nil {
		return err
	}

	r.cacheInvalidate(ctx, record.Netid, record.PromptID)
	return nil
}

func (r *firestoreRepository) UpdateMatch(ctx context.Context, netid, promptID string, mutate func(*MatchRecord) error) (*MatchRecord, error) {
	ref := r.client.Collection(matchesCollection).Doc(MatchDocID(netid, promptID))

	var updated *MatchRecord
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if snap != nil && !snap.Exists() {
				return ErrRecordMissing
			}
			return err
		}

		record, err := decodeMatch(snap)
		if err != nil {
			return err
		}
		if err := mutate(record); err != nil {
			return err
		}

		updated = record
		return tx.Set(ref, record)
	})
	if err != nil {
		return nil, err
	}

	r.cacheInvalidate(ctx, netid, promptID)
	return updated, nil
}

func (r *firestoreRepository) GetMatchesForPrompt(ctx context.Context, promptID string) ([]*MatchRecord, error) {
	iter := r.client.Collection(matchesCollection).Where("promptId", "==", promptID).Documents(ctx)
	return collectMatches(iter)
}

func (r *firestoreRepository) HasMatchesForPrompt(ctx context.Context, promptID string) (bool, error) {
	iter := r.client.Collection(matchesCollection).Where("promptId", "==", promptID).Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to probe match records: %w", err)
	}
	return true, nil
}

func (r *firestoreRepository) GetMatchesForUser(ctx context.Context, netid string) ([]*MatchRecord, error) {
	iter := r.client.Collection(matchesCollection).Where("netid", "==", netid).Documents(ctx)
	return collectMatches(iter)
}

func (r *firestoreRepository) GetAnswerRoster(ctx context.Context, promptID string) ([]string, error) {
	snap, err := r.client.Collection(rosterCollection).Doc(promptID).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch answer roster: %w", err)
	}

	var doc rosterDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("malformed roster document %s: %w", promptID, err)
	}
	return doc.Netids, nil
}

func collectMatches(iter *firestore.DocumentIterator) ([]*MatchRecord, error) {
	defer iter.Stop()

	var records []*MatchRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate match records: %w", err)
		}
		record, err := decodeMatch(snap)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func decodeMatch(snap *firestore.DocumentSnapshot) (*MatchRecord, error) {
	var record MatchRecord
	if err := snap.DataTo(&record); err != nil {
		return nil, fmt.Errorf("malformed match document %s: %w", snap.Ref.ID, err)
	}
	if record.Netid == "" || record.PromptID == "" {
		return nil, fmt.Errorf("malformed match document %s: missing netid or promptId", snap.Ref.ID)
	}
	return &record, nil
}

func (r *firestoreRepository) cacheSet(ctx context.Context, record *MatchRecord) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, matchCacheKey(record.Netid, record.PromptID), data, r.cacheTTL).Err(); err != nil {
		log.Printf("Match cache set failed for %s: %v", MatchDocID(record.Netid, record.PromptID), err)
	}
}

func (r *firestoreRepository) cacheInvalidate(ctx context.Context, netid, promptID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, matchCacheKey(netid, promptID)).Err(); err != nil {
		log.Printf("Match cache invalidation failed for %s: %v", MatchDocID(netid, promptID), err)
	}
}
