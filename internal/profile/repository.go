package profile

import (
	"context"
)

// Repository is the read-only view of profile data the matching core consumes.
// Profile and preference mutation belongs to the profile-management surface and
// is deliberately absent here.
type Repository interface {
	// GetProfiles fetches profiles for the given netids. Missing users are
	// simply absent from the result map. Callers are responsible for batching
	// netids below the store's per-query ID cap.
	GetProfiles(ctx context.Context, netids []string) (map[string]*Profile, error)

	// GetPreferences fetches preference documents for the given netids.
	// Missing users are absent from the result map.
	GetPreferences(ctx context.Context, netids []string) (map[string]*Preferences, error)

	// GetBlockedNetids returns the set of netids the given user has blocked.
	GetBlockedNetids(ctx context.Context, netid string) (map[string]bool, error)
}
