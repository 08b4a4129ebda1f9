package profile

import (
	"context"
	"sync"
)

// MemoryRepository is the in-process driver used by tests and local development
// (STORE_DRIVER=memory). Seed it through PutProfile/PutPreferences/PutBlock.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	prefs    map[string]*Preferences
	blocks   map[string]map[string]bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		profiles: make(map[string]*Profile),
		prefs:    make(map[string]*Preferences),
		blocks:   make(map[string]map[string]bool),
	}
}

func (r *MemoryRepository) PutProfile(p *Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.Netid] = &cp
}

func (r *MemoryRepository) PutPreferences(p *Preferences) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.prefs[p.Netid] = &cp
}

func (r *MemoryRepository) PutBlock(blocker, blocked string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blocks[blocker] == nil {
		r.blocks[blocker] = make(map[string]bool)
	}
	r.blocks[blocker][blocked] = true
}

func (r *MemoryRepository) GetProfiles(ctx context.Context, netids []string) (map[string]*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Profile)
	for _, netid := range netids {
		if p, ok := r.profiles[netid]; ok {
			cp := *p
			out[netid] = &cp
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetPreferences(ctx context.Context, netids []string) (map[string]*Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Preferences)
	for _, netid := range netids {
		if p, ok := r.prefs[netid]; ok {
			cp := *p
			out[netid] = &cp
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetBlockedNetids(ctx context.Context, netid string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.blocks[netid]))
	for blocked := range r.blocks[netid] {
		out[blocked] = true
	}
	return out, nil
}
