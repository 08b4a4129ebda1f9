package nudge

import (
	"context"
	"sync"
)

// MemoryRepository is the in-process driver used by tests and local
// development. The mutex makes CreateNudge atomic across both directions,
// matching the Firestore transaction.
type MemoryRepository struct {
	mu     sync.Mutex
	nudges map[string]*Nudge
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nudges: make(map[string]*Nudge)}
}

func (r *MemoryRepository) CreateNudge(ctx context.Context, nudge *Nudge) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	forwardID := NudgeDocID(nudge.From, nudge.PromptID, nudge.To)
	if _, ok := r.nudges[forwardID]; ok {
		return false, ErrNudgeExists
	}

	reverseID := NudgeDocID(nudge.To, nudge.PromptID, nudge.From)
	reverse, reverseExists := r.nudges[reverseID]

	record := *nudge
	record.Mutual = reverseExists
	r.nudges[forwardID] = &record

	if reverseExists {
		reverse.Mutual = true
	}

	nudge.Mutual = reverseExists
	return reverseExists, nil
}

func (r *MemoryRepository) GetNudge(ctx context.Context, from, to, promptID string) (*Nudge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nudge, ok := r.nudges[NudgeDocID(from, promptID, to)]
	if !ok {
		return nil, nil
	}
	cp := *nudge
	return &cp, nil
}
