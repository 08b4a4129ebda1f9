package matching

import (
	"context"
	"errors"
)

// Storage-level sentinels. The store layer translates these into the
// caller-facing error taxonomy.
var (
	ErrRecordExists  = errors.New("match record already exists")
	ErrRecordMissing = errors.New("match record does not exist")
)

// Repository persists match records and reads the weekly answer roster.
// Implementations must provide per-document atomicity for UpdateMatch:
// concurrent mutations of the same record may interleave but never lose
// an individual field write.
type Repository interface {
	// GetMatch returns the record for (netid, promptID), or (nil, nil) when absent.
	GetMatch(ctx context.Context, netid, promptID string) (*MatchRecord, error)

	// CreateMatch writes a new record. Fails with ErrRecordExists when a
	// record for (netid, promptID) is already present.
	CreateMatch(ctx context.Context, record *MatchRecord) error

	// UpdateMatch applies mutate to the current record inside a per-document
	// transaction and returns the updated record. Fails with ErrRecordMissing
	// when absent; a non-nil error from mutate aborts the update unchanged.
	UpdateMatch(ctx context.Context, netid, promptID string, mutate func(*MatchRecord) error) (*MatchRecord, error)

	// GetMatchesForPrompt returns every record created for one prompt.
	GetMatchesForPrompt(ctx context.Context, promptID string) ([]*MatchRecord, error)

	// HasMatchesForPrompt reports whether any record exists for the prompt.
	HasMatchesForPrompt(ctx context.Context, promptID string) (bool, error)

	// GetMatchesForUser returns all of one user's records across prompts.
	GetMatchesForUser(ctx context.Context, netid string) ([]*MatchRecord, error)

	// GetAnswerRoster returns the netids that answered the prompt, or an
	// empty roster when nobody has.
	GetAnswerRoster(ctx context.Context, promptID string) ([]string, error)
}
