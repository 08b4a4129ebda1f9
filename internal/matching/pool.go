package matching

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bigredmatch/bigredmatch-backend/internal/profile"
)

// Candidate is one roster member's assembled matching data.
type Candidate struct {
	Netid       string
	Profile     *profile.Profile
	Preferences *profile.Preferences
	Blocked     map[string]bool // netids this user has blocked
	History     map[string]bool // netids matched within the lookback window
}

// PoolBuilder assembles per-user candidate data for one prompt's roster.
// Profile and preference fetches are batched below the store's per-query ID
// cap and run concurrently; block and history lookups fan out per user.
type PoolBuilder struct {
	profiles  profile.Repository
	matches   Repository
	batchSize int
	lookback  int
	loc       *time.Location
}

func NewPoolBuilder(profiles profile.Repository, matches Repository, batchSize, lookback int, loc *time.Location) *PoolBuilder {
	return &PoolBuilder{
		profiles:  profiles,
		matches:   matches,
		batchSize: batchSize,
		lookback:  lookback,
		loc:       loc,
	}
}

// Build returns the candidate pool for the roster. Users missing a profile or
// preferences are logged and excluded, never an error.
func (b *PoolBuilder) Build(ctx context.Context, roster []string, promptID string) (map[string]*Candidate, error) {
	netids := dedupe(roster)
	if len(netids) == 0 {
		return map[string]*Candidate{}, nil
	}

	profiles, prefs, err := b.fetchBatched(ctx, netids)
	if err != nil {
		return nil, err
	}

	pool := make(map[string]*Candidate, len(netids))
	for _, netid := range netids {
		p, hasProfile := profiles[netid]
		pr, hasPrefs := prefs[netid]
		if !hasProfile || !hasPrefs {
			log.Printf("Excluding %s from prompt %s: missing %s", netid, promptID, missingLabel(hasProfile, hasPrefs))
			continue
		}
		pool[netid] = &Candidate{Netid: netid, Profile: p, Preferences: pr}
	}

	if err := b.attachBlocksAndHistory(ctx, pool, promptID); err != nil {
		return nil, err
	}

	return pool, nil
}

// fetchBatched splits the roster into store-sized batches and fetches profile
// and preference documents concurrently, merging into single maps.
func (b *PoolBuilder) fetchBatched(ctx context.Context, netids []string) (map[string]*profile.Profile, map[string]*profile.Preferences, error) {
	profiles := make(map[string]*profile.Profile, len(netids))
	prefs := make(map[string]*profile.Preferences, len(netids))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for start := 0; start < len(netids); start += b.batchSize {
		end := start + b.batchSize
		if end > len(netids) {
			end = len(netids)
		}
		batch := netids[start:end]

		g.Go(func() error {
			batchProfiles, err := b.profiles.GetProfiles(gctx, batch)
			if err != nil {
				return fmt.Errorf("profile batch fetch: %w", err)
			}
			batchPrefs, err := b.profiles.GetPreferences(gctx, batch)
			if err != nil {
				return fmt.Errorf("preferences batch fetch: %w", err)
			}

			mu.Lock()
			for netid, p := range batchProfiles {
				profiles[netid] = p
			}
			for netid, p := range batchPrefs {
				prefs[netid] = p
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profiles, prefs, nil
}

func (b *PoolBuilder) attachBlocksAndHistory(ctx context.Context, pool map[string]*Candidate, promptID string) error {
	lookbackSet := make(map[string]bool, b.lookback)
	for _, id := range PreviousPromptIDs(promptID, b.lookback, b.loc) {
		lookbackSet[id] = true
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, candidate := range pool {
		g.Go(func() error {
			blocked, err := b.profiles.GetBlockedNetids(gctx, candidate.Netid)
			if err != nil {
				return fmt.Errorf("block fetch for %s: %w", candidate.Netid, err)
			}

			history := make(map[string]bool)
			if b.lookback > 0 {
				records, err := b.matches.GetMatchesForUser(gctx, candidate.Netid)
				if err != nil {
					return fmt.Errorf("history fetch for %s: %w", candidate.Netid, err)
				}
				for _, record := range records {
					if !lookbackSet[record.PromptID] {
						continue
					}
					for _, m := range record.Matches {
						history[m] = true
					}
				}
			}

			candidate.Blocked = blocked
			candidate.History = history
			return nil
		})
	}

	return g.Wait()
}

func dedupe(netids []string) []string {
	seen := make(map[string]bool, len(netids))
	out := make([]string, 0, len(netids))
	for _, netid := range netids {
		if netid == "" || seen[netid] {
			continue
		}
		seen[netid] = true
		out = append(out, netid)
	}
	return out
}

func missingLabel(hasProfile, hasPrefs bool) string {
	switch {
	case !hasProfile && !hasPrefs:
		return "profile and preferences"
	case !hasProfile:
		return "profile"
	default:
		return "preferences"
	}
}
