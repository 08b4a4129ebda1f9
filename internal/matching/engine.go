package matching

import (
	"context"
	"log"
	"sort"
	"time"
)

// Engine computes mutual, capacity-bounded pairings for one prompt.
//
// Selection is two-phase. Phase 1 ranks every eligible candidate for each
// user, uncapped. Phase 2 walks users in netid order and commits a pair only
// when both sides shortlist each other and neither is at capacity, so the
// persisted lists are always symmetric: A listing B implies B listing A.
type Engine struct {
	pool     *PoolBuilder
	store    *Store
	repo     Repository
	capacity int
	loc      *time.Location
	now      func() time.Time
}

func NewEngine(pool *PoolBuilder, store *Store, repo Repository, capacity int, loc *time.Location) *Engine {
	return &Engine{
		pool:     pool,
		store:    store,
		repo:     repo,
		capacity: capacity,
		loc:      loc,
		now:      time.Now,
	}
}

type shortlist struct {
	ranked []string
	listed map[string]bool
}

// GenerateMatchesForPrompt runs one generation pass. Returns the number of
// users that received a match record. Fails with ErrAlreadyMatched when any
// record already exists for the prompt; per-user persistence failures are
// logged and skipped without aborting the batch.
func (e *Engine) GenerateMatchesForPrompt(ctx context.Context, promptID string) (int, error) {
	exists, err := e.repo.HasMatchesForPrompt(ctx, promptID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrAlreadyMatched
	}

	roster, err := e.repo.GetAnswerRoster(ctx, promptID)
	if err != nil {
		return 0, err
	}
	if len(roster) == 0 {
		return 0, nil
	}

	pool, err := e.pool.Build(ctx, roster, promptID)
	if err != nil {
		return 0, err
	}

	now := e.now()
	shortlists := e.buildShortlists(pool, now)
	final := e.commitPairs(pool, shortlists)

	expiry := MatchExpiry(now, e.loc)
	matched := 0
	for _, netid := range sortedKeys(final) {
		matches := final[netid]
		if len(matches) == 0 {
			continue
		}
		if _, err := e.store.CreateMatch(ctx, netid, promptID, matches, now, expiry); err != nil {
			log.Printf("Failed to persist matches for %s on prompt %s: %v", netid, promptID, err)
			continue
		}
		RecordUserMatched(len(matches))
		matched++
	}

	RecordGeneration(promptID, matched)
	return matched, nil
}

// buildShortlists is Phase 1: each user's eligible candidates ranked by score
// descending, netid ascending. No capacity cap yet.
func (e *Engine) buildShortlists(pool map[string]*Candidate, now time.Time) map[string]*shortlist {
	shortlists := make(map[string]*shortlist, len(pool))

	for _, netid := range sortedCandidateKeys(pool) {
		user := pool[netid]
		type scored struct {
			netid string
			score int
		}
		var survivors []scored

		for _, other := range sortedCandidateKeys(pool) {
			if other == netid {
				continue
			}
			candidate := pool[other]
			if user.Blocked[other] || candidate.Blocked[netid] {
				continue
			}
			if user.History[other] {
				continue
			}
			if !IsMutuallyCompatible(user, candidate, now) {
				continue
			}
			score := Score(user, candidate, now)
			RecordCompatibilityScore(float64(score))
			survivors = append(survivors, scored{netid: other, score: score})
		}

		sort.Slice(survivors, func(i, j int) bool {
			if survivors[i].score != survivors[j].score {
				return survivors[i].score > survivors[j].score
			}
			return survivors[i].netid < survivors[j].netid
		})

		list := &shortlist{listed: make(map[string]bool, len(survivors))}
		for _, s := range survivors {
			list.ranked = append(list.ranked, s.netid)
			list.listed[s.netid] = true
		}
		shortlists[netid] = list
	}

	return shortlists
}

// commitPairs is Phase 2: walk users in netid order and commit reciprocal
// pairs to both sides until either side reaches capacity. One-sided listings
// are discarded.
func (e *Engine) commitPairs(pool map[string]*Candidate, shortlists map[string]*shortlist) map[string][]string {
	final := make(map[string][]string, len(pool))
	committed := make(map[string]bool)

	for _, netid := range sortedCandidateKeys(pool) {
		list := shortlists[netid]
		for _, other := range list.ranked {
			if len(final[netid]) >= e.capacity {
				break
			}
			if len(final[other]) >= e.capacity {
				continue
			}
			if committed[pairKey(netid, other)] {
				continue
			}
			if !shortlists[other].listed[netid] {
				continue
			}
			final[netid] = append(final[netid], other)
			final[other] = append(final[other], netid)
			committed[pairKey(netid, other)] = true
			RecordPairCommitted()
		}
	}

	return final
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func sortedCandidateKeys(pool map[string]*Candidate) []string {
	keys := make([]string, 0, len(pool))
	for k := range pool {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
