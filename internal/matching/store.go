package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Caller-facing error taxonomy. Message text is load-bearing: clients match
// on these substrings.
var (
	ErrAlreadyMatched   = errors.New("already matched for this prompt")
	ErrMatchNotFound    = errors.New("Match not found")
	ErrIndexOutOfRange  = fmt.Errorf("Match index must be between 0 and %d", MaxMatches-1)
	ErrIndexOutOfBounds = errors.New("Match index out of bounds")
)

// Store owns match record lifecycle: create-once with a defensive capacity
// cap, idempotent per-index reveal, and per-partner chat unlock. All
// mutations go through the repository's per-document transaction.
type Store struct {
	repo     Repository
	capacity int
}

func NewStore(repo Repository, capacity int) *Store {
	return &Store{repo: repo, capacity: capacity}
}

// CreateMatch writes a new record with all indices unrevealed. When a record
// already exists for (netid, promptID) the call appends the new partners
// instead, capped at capacity; appending to an at-capacity record is a
// successful no-op.
func (s *Store) CreateMatch(ctx context.Context, netid, promptID string, matches []string, now, expiresAt time.Time) (*MatchRecord, error) {
	clean := s.sanitize(netid, matches)

	record := &MatchRecord{
		Netid:     netid,
		PromptID:  promptID,
		Matches:   clean,
		Revealed:  make([]bool, len(clean)),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	err := s.repo.CreateMatch(ctx, record)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, ErrRecordExists) {
		return nil, err
	}

	return s.repo.UpdateMatch(ctx, netid, promptID, func(existing *MatchRecord) error {
		for _, m := range clean {
			if len(existing.Matches) >= s.capacity {
				break
			}
			if existing.IndexOf(m) >= 0 {
				continue
			}
			existing.Matches = append(existing.Matches, m)
			existing.Revealed = append(existing.Revealed, false)
			if existing.ChatUnlocked != nil {
				existing.ChatUnlocked = append(existing.ChatUnlocked, false)
			}
		}
		return nil
	})
}

// GetMatch returns the record for (netid, promptID). Fails with
// ErrMatchNotFound when absent.
func (s *Store) GetMatch(ctx context.Context, netid, promptID string) (*MatchRecord, error) {
	record, err := s.repo.GetMatch(ctx, netid, promptID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrMatchNotFound
	}
	return record, nil
}

// RevealMatch sets revealed[index] true. Idempotent: revealing an already
// revealed index succeeds unchanged. Other indices and chat-unlock state are
// never touched.
func (s *Store) RevealMatch(ctx context.Context, netid, promptID string, index int) (*MatchRecord, error) {
	if index < 0 || index >= s.capacity {
		return nil, ErrIndexOutOfRange
	}

	record, err := s.repo.UpdateMatch(ctx, netid, promptID, func(record *MatchRecord) error {
		if index >= len(record.Matches) {
			return ErrIndexOutOfBounds
		}
		record.Revealed[index] = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRecordMissing) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	RecordReveal()
	return record, nil
}

// SetChatUnlocked marks chat open toward partner. A missing partner entry is
// a no-op; a previously unlocked index stays unlocked. The chatUnlocked list
// is created on first use for records written before chat existed.
func (s *Store) SetChatUnlocked(ctx context.Context, netid, promptID, partner string) error {
	_, err := s.repo.UpdateMatch(ctx, netid, promptID, func(record *MatchRecord) error {
		i := record.IndexOf(partner)
		if i < 0 {
			return nil
		}
		if record.ChatUnlocked == nil {
			record.ChatUnlocked = make([]bool, len(record.Matches))
		}
		record.ChatUnlocked[i] = true
		return nil
	})
	if errors.Is(err, ErrRecordMissing) {
		return ErrMatchNotFound
	}
	return err
}

// sanitize drops blank, self and duplicate entries, then truncates to the
// capacity cap.
func (s *Store) sanitize(netid string, matches []string) []string {
	seen := make(map[string]bool, len(matches))
	clean := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.TrimSpace(m) == "" || m == netid || seen[m] {
			continue
		}
		seen[m] = true
		clean = append(clean, m)
		if len(clean) == s.capacity {
			break
		}
	}
	return clean
}
