package nudge

import (
	"context"
	"errors"
)

// ErrNudgeExists is the storage-level duplicate signal; the service maps it
// to the caller-facing ErrAlreadyNudged.
var ErrNudgeExists = errors.New("nudge already exists")

// Repository persists nudge documents. CreateNudge must be atomic across the
// forward and reverse documents: two users nudging each other concurrently
// must still converge to both records flagged mutual.
type Repository interface {
	// CreateNudge writes the nudge. Fails with ErrNudgeExists when the exact
	// (from, promptID, to) triple was already created. When the reverse
	// triple exists, both documents are marked mutual inside the same atomic
	// update and becameMutual is true.
	CreateNudge(ctx context.Context, nudge *Nudge) (becameMutual bool, err error)

	// GetNudge returns the nudge for the ordered triple, or (nil, nil) when absent.
	GetNudge(ctx context.Context, from, to, promptID string) (*Nudge, error)
}
