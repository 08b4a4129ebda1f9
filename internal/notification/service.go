package notification

import (
	"context"
)

// Service dispatches pushes to users. Callers treat delivery as
// fire-and-forget: a dispatch failure must never roll back the state change
// that triggered it.
type Service interface {
	// NotifyMutualNudge tells netid that the nudge exchange with partner for
	// the given prompt became mutual and chat is open.
	NotifyMutualNudge(ctx context.Context, netid, partner, promptID string) error
}

// NoopService is used when push is disabled and by tests that only need to
// observe dispatch calls.
type NoopService struct{}

func NewNoopService() *NoopService {
	return &NoopService{}
}

func (s *NoopService) NotifyMutualNudge(ctx context.Context, netid, partner, promptID string) error {
	return nil
}
