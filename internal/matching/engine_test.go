package matching_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigredmatch/bigredmatch-backend/internal/matching"
	"github.com/bigredmatch/bigredmatch-backend/internal/profile"
)

type engineEnv struct {
	profiles *profile.MemoryRepository
	matches  *matching.MemoryRepository
	store    *matching.Store
	engine   *matching.Engine
}

func newEngineEnv(t *testing.T, capacity int) *engineEnv {
	t.Helper()
	loc := easternTime(t)

	profiles := profile.NewMemoryRepository()
	matches := matching.NewMemoryRepository()
	store := matching.NewStore(matches, capacity)
	pool := matching.NewPoolBuilder(profiles, matches, 10, 20, loc)
	engine := matching.NewEngine(pool, store, matches, capacity, loc)

	return &engineEnv{profiles: profiles, matches: matches, store: store, engine: engine}
}

// seedOpenUser adds a user whose profile matches the shared defaults and
// whose preferences accept anyone.
func (e *engineEnv) seedOpenUser(netid string) {
	e.profiles.PutProfile(testProfile(netid))
	e.profiles.PutPreferences(openPrefs(netid))
}

func (e *engineEnv) generate(t *testing.T, promptID string, roster ...string) int {
	t.Helper()
	e.matches.PutAnswerRoster(promptID, roster)
	count, err := e.engine.GenerateMatchesForPrompt(context.Background(), promptID)
	require.NoError(t, err)
	return count
}

func (e *engineEnv) record(t *testing.T, netid, promptID string) *matching.MatchRecord {
	t.Helper()
	record, err := e.matches.GetMatch(context.Background(), netid, promptID)
	require.NoError(t, err)
	return record
}

func TestGenerateTwoUsersMatchExactlyEachOther(t *testing.T) {
	env := newEngineEnv(t, matching.MaxMatches)
	env.seedOpenUser("abc1")
	env.seedOpenUser("def2")

	count := env.generate(t, testPrompt, "abc1", "def2")
	assert.Equal(t, 2, count)

	a := env.record(t, "abc1", testPrompt)
	b := env.record(t, "def2", testPrompt)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, []string{"def2"}, a.Matches)
	assert.Equal(t, []string{"abc1"}, b.Matches)
	assert.Equal(t, []bool{false}, a.Revealed)
	assert.Equal(t, []bool{false}, b.Revealed)
}

func TestGenerateSixUsersHoldsAllInvariants(t *testing.T) {
	env := newEngineEnv(t, matching.MaxMatches)
	roster := []string{"aaa1", "bbb2", "ccc3", "ddd4", "eee5", "fff6"}
	for _, netid := range roster {
		env.seedOpenUser(netid)
	}

	count := env.generate(t, testPrompt, roster...)
	assert.Equal(t, len(roster), count)

	for _, netid := range roster {
		record := env.record(t, netid, testPrompt)
		require.NotNil(t, record, "every user should have a record")

		// Capacity.
		assert.GreaterOrEqual(t, len(record.Matches), 1)
		assert.LessOrEqual(t, len(record.Matches), matching.MaxMatches)
		assert.Len(t, record.Revealed, len(record.Matches))

		// No self-match, no duplicates.
		seen := map[string]bool{}
		for _, m := range record.Matches {
			assert.NotEqual(t, netid, m)
			assert.False(t, seen[m], "duplicate entry %s", m)
			seen[m] = true
		}

		// Bidirectionality.
		for _, m := range record.Matches {
			reverse := env.record(t, m, testPrompt)
			require.NotNil(t, reverse)
			assert.GreaterOrEqual(t, reverse.IndexOf(netid), 0,
				"%s lists %s but not vice versa", netid, m)
		}
	}

	report, err := matching.NewValidator(env.matches).Validate(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.True(t, report.IsValid, "validator must accept generated records: %v", report.Errors)
}

func TestGenerateTwiceFailsWithAlreadyMatched(t *testing.T) {
	env := newEngineEnv(t, matching.MaxMatches)
	env.seedOpenUser("abc1")
	env.seedOpenUser("def2")

	env.generate(t, testPrompt, "abc1", "def2")

	_, err := env.engine.GenerateMatchesForPrompt(context.Background(), testPrompt)
	assert.ErrorIs(t, err, matching.ErrAlreadyMatched)
	assert.Contains(t, err.Error(), "already matched")
}

func TestGenerateEmptyRoster(t *testing.T) {
	env := newEngineEnv(t, matching.MaxMatches)

	count, err := env.engine.GenerateMatchesForPrompt(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGenerateExcludesUsersMissingProfileOrPreferences(t *testing.T) {
	env := newEngineEnv(t, matching.MaxMatches)
	env.seedOpenUser("abc1")
	env.seedOpenUser("def2")
	// ghi3 answered the prompt but never finished onboarding.
	env.profiles.PutProfile(testProfile("ghi3"))
	// jkl4 has preferences but no profile.
	env.profiles.PutPreferences(openPrefs("jkl4"))

	count := env.generate(t, testPrompt, "abc1", "def2", "ghi3", "jkl4")
	assert.Equal(t, 2, count)

	assert.Nil(t, env.record(t, "ghi3", testPrompt))
	assert.Nil(t, env.record(t, "jkl4", testPrompt))

	a := env.record(t, "abc1", testPrompt)
	require.NotNil(t, a)
	assert.Equal(t, []string{"def2"}, a.Matches)
}

func TestGenerateExcludesBlockedPairsEitherDirection(t *testing.T) {
	env := newEngineEnv(t, matching.MaxMatches)
	env.seedOpenUser("abc1")
	env.seedOpenUser("def2")
	env.profiles.PutBlock("def2", "abc1")

	count := env.generate(t, testPrompt, "abc1", "def2")
	assert.Zero(t, count)
	assert.Nil(t, env.record(t, "abc1", testPrompt))
	assert.Nil(t, env.record(t, "def2", testPrompt))
}

func TestGenerateExcludesRecentHistory(t *testing.T) {
	env := newEngineEnv(t, matching.MaxMatches)
	env.seedOpenUser("abc1")
	env.seedOpenUser("def2")
	env.seedOpenUser("ghi3")

	// abc1 and def2 matched two weeks ago, inside the 20-prompt lookback.
	seedPriorMatch := func(netid, partner string) {
		require.NoError(t, env.matches.CreateMatch(context.Background(), &matching.MatchRecord{
			Netid:     netid,
			PromptID:  "2026-W08",
			Matches:   []string{partner},
			Revealed:  []bool{false},
			CreatedAt: time.Now().AddDate(0, 0, -14),
			ExpiresAt: time.Now().AddDate(0, 0, -9),
		}))
	}
	seedPriorMatch("abc1", "def2")
	seedPriorMatch("def2", "abc1")

	env.generate(t, testPrompt, "abc1", "def2", "ghi3")

	a := env.record(t, "abc1", testPrompt)
	require.NotNil(t, a)
	assert.NotContains(t, a.Matches, "def2", "recently matched pair must not repeat")
	assert.Contains(t, a.Matches, "ghi3")
}

func TestGenerateExcludesIncompatiblePairs(t *testing.T) {
	env := newEngineEnv(t, matching.MaxMatches)

	// abc1 only accepts Hotel students; nobody qualifies.
	env.profiles.PutProfile(testProfile("abc1"))
	prefs := openPrefs("abc1")
	prefs.Schools = []string{"Hotel"}
	env.profiles.PutPreferences(prefs)
	env.seedOpenUser("def2")
	env.seedOpenUser("ghi3")

	env.generate(t, testPrompt, "abc1", "def2", "ghi3")

	assert.Nil(t, env.record(t, "abc1", testPrompt))
	b := env.record(t, "def2", testPrompt)
	require.NotNil(t, b)
	assert.Equal(t, []string{"ghi3"}, b.Matches)
}

func TestGenerateTieBreaksByNetidAscending(t *testing.T) {
	env := newEngineEnv(t, 1)
	env.seedOpenUser("aaa1")
	env.seedOpenUser("bbb2")
	env.seedOpenUser("ccc3")

	count := env.generate(t, testPrompt, "ccc3", "aaa1", "bbb2")
	assert.Equal(t, 2, count)

	// All scores tie, so aaa1 pairs with the lexicographically smallest
	// candidate and ccc3 is left over.
	a := env.record(t, "aaa1", testPrompt)
	require.NotNil(t, a)
	assert.Equal(t, []string{"bbb2"}, a.Matches)
	assert.Nil(t, env.record(t, "ccc3", testPrompt))
}

func TestGeneratedRecordsExpireOnUpcomingFriday(t *testing.T) {
	env := newEngineEnv(t, matching.MaxMatches)
	env.seedOpenUser("abc1")
	env.seedOpenUser("def2")

	before := time.Now()
	env.generate(t, testPrompt, "abc1", "def2")

	record := env.record(t, "abc1", testPrompt)
	require.NotNil(t, record)

	loc := easternTime(t)
	assert.Equal(t, time.Friday, record.ExpiresAt.In(loc).Weekday())
	assert.True(t, record.ExpiresAt.After(before))
	assert.LessOrEqual(t, record.ExpiresAt.Sub(before), 7*24*time.Hour)
}
