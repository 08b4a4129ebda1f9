package matching

import (
	"context"
	"time"
)

// Service is the matching surface consumed by the HTTP layer and scheduler.
type Service interface {
	GenerateMatchesForPrompt(ctx context.Context, promptID string) (int, error)
	GenerateMatchesForCurrentPrompt(ctx context.Context) (string, int, error)
	GetMatch(ctx context.Context, netid, promptID string) (*MatchRecord, error)
	RevealMatch(ctx context.Context, netid, promptID string, index int) (*MatchRecord, error)
	ValidateMatchMutuality(ctx context.Context, promptID string) (*ValidationReport, error)
}

type service struct {
	engine    *Engine
	store     *Store
	validator *Validator
	loc       *time.Location
	now       func() time.Time
}

func NewService(engine *Engine, store *Store, validator *Validator, loc *time.Location) Service {
	return &service{
		engine:    engine,
		store:     store,
		validator: validator,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *service) GenerateMatchesForPrompt(ctx context.Context, promptID string) (int, error) {
	return s.engine.GenerateMatchesForPrompt(ctx, promptID)
}

func (s *service) GenerateMatchesForCurrentPrompt(ctx context.Context) (string, int, error) {
	promptID := CurrentPromptID(s.now(), s.loc)
	count, err := s.engine.GenerateMatchesForPrompt(ctx, promptID)
	return promptID, count, err
}

func (s *service) GetMatch(ctx context.Context, netid, promptID string) (*MatchRecord, error) {
	return s.store.GetMatch(ctx, netid, promptID)
}

func (s *service) RevealMatch(ctx context.Context, netid, promptID string, index int) (*MatchRecord, error) {
	return s.store.RevealMatch(ctx, netid, promptID, index)
}

func (s *service) ValidateMatchMutuality(ctx context.Context, promptID string) (*ValidationReport, error) {
	return s.validator.Validate(ctx, promptID)
}
