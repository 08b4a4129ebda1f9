package nudge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bigredmatch/bigredmatch-backend/internal/matching"
	"github.com/bigredmatch/bigredmatch-backend/internal/notification"
)

var (
	// ErrAlreadyNudged message text is load-bearing: clients match on the
	// "already nudged" substring.
	ErrAlreadyNudged = errors.New("already nudged this user for this prompt")
	ErrSelfNudge     = errors.New("cannot nudge yourself")
)

// Service runs the nudge state machine: NoNudge -> Nudged -> Mutual. The
// mutual transition unlocks chat on both users' match records and dispatches
// a push to each side; push delivery is fire-and-forget.
type Service interface {
	CreateNudge(ctx context.Context, from, to, promptID string) (*Nudge, error)
	GetNudgeStatus(ctx context.Context, from, to, promptID string) (*Status, error)
}

type service struct {
	repo    Repository
	matches *matching.Store
	notify  notification.Service
	now     func() time.Time
}

func NewService(repo Repository, matches *matching.Store, notify notification.Service) Service {
	return &service{
		repo:    repo,
		matches: matches,
		notify:  notify,
		now:     time.Now,
	}
}

func (s *service) CreateNudge(ctx context.Context, from, to, promptID string) (*Nudge, error) {
	if from == to {
		return nil, ErrSelfNudge
	}

	nudge := &Nudge{
		From:      from,
		To:        to,
		PromptID:  promptID,
		CreatedAt: s.now(),
	}

	becameMutual, err := s.repo.CreateNudge(ctx, nudge)
	if err != nil {
		if errors.Is(err, ErrNudgeExists) {
			return nil, ErrAlreadyNudged
		}
		return nil, err
	}
	RecordNudge()

	if becameMutual {
		RecordMutualNudge()
		if err := s.unlockChat(ctx, from, to, promptID); err != nil {
			return nil, err
		}

		// Fire-and-forget: a failed push never rolls back nudge or unlock state.
		if err := s.notify.NotifyMutualNudge(ctx, from, to, promptID); err != nil {
			log.Printf("Mutual nudge notification to %s failed: %v", from, err)
		}
		if err := s.notify.NotifyMutualNudge(ctx, to, from, promptID); err != nil {
			log.Printf("Mutual nudge notification to %s failed: %v", to, err)
		}
	}

	return nudge, nil
}

// unlockChat opens chat at the partner's index on both users' match records.
func (s *service) unlockChat(ctx context.Context, from, to, promptID string) error {
	if err := s.matches.SetChatUnlocked(ctx, from, promptID, to); err != nil {
		return fmt.Errorf("failed to unlock chat for %s: %w", from, err)
	}
	if err := s.matches.SetChatUnlocked(ctx, to, promptID, from); err != nil {
		return fmt.Errorf("failed to unlock chat for %s: %w", to, err)
	}
	return nil
}

func (s *service) GetNudgeStatus(ctx context.Context, from, to, promptID string) (*Status, error) {
	sent, err := s.repo.GetNudge(ctx, from, to, promptID)
	if err != nil {
		return nil, err
	}
	received, err := s.repo.GetNudge(ctx, to, from, promptID)
	if err != nil {
		return nil, err
	}

	return &Status{
		Sent:     sent != nil,
		Received: received != nil,
		Mutual:   sent != nil && received != nil && sent.Mutual,
	}, nil
}
