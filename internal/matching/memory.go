package matching

import (
	"context"
	"sync"
)

// MemoryRepository is the in-process driver used by tests and local
// development. The single mutex gives the same per-document atomicity the
// Firestore driver gets from transactions.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string]*MatchRecord
	rosters map[string][]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]*MatchRecord),
		rosters: make(map[string][]string),
	}
}

// PutAnswerRoster seeds the roster of netids that answered a prompt.
func (r *MemoryRepository) PutAnswerRoster(promptID string, netids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rosters[promptID] = append([]string(nil), netids...)
}

func (r *MemoryRepository) GetMatch(ctx context.Context, netid, promptID string) (*MatchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[MatchDocID(netid, promptID)]
	if !ok {
		return nil, nil
	}
	return record.Clone(), nil
}

func (r *MemoryRepository) CreateMatch(ctx context.Context, record *MatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := MatchDocID(record.Netid, record.PromptID)
	if _, ok := r.records[id]; ok {
		return ErrRecordExists
	}
	r.records[id] = record.Clone()
	return nil
}

func (r *MemoryRepository) UpdateMatch(ctx context.Context, netid, promptID string, mutate func(*MatchRecord) error) (*MatchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := MatchDocID(netid, promptID)
	record, ok := r.records[id]
	if !ok {
		return nil, ErrRecordMissing
	}

	working := record.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	r.records[id] = working
	return working.Clone(), nil
}

func (r *MemoryRepository) GetMatchesForPrompt(ctx context.Context, promptID string) ([]*MatchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []*MatchRecord
	for _, record := range r.records {
		if record.PromptID == promptID {
			records = append(records, record.Clone())
		}
	}
	return records, nil
}

func (r *MemoryRepository) HasMatchesForPrompt(ctx context.Context, promptID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.PromptID == promptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) GetMatchesForUser(ctx context.Context, netid string) ([]*MatchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []*MatchRecord
	for _, record := range r.records {
		if record.Netid == netid {
			records = append(records, record.Clone())
		}
	}
	return records, nil
}

func (r *MemoryRepository) GetAnswerRoster(ctx context.Context, promptID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.rosters[promptID]...), nil
}
