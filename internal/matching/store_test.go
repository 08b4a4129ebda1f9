package matching_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigredmatch/bigredmatch-backend/internal/matching"
)

const testPrompt = "2026-W10"

func newTestStore() (*matching.Store, *matching.MemoryRepository) {
	repo := matching.NewMemoryRepository()
	return matching.NewStore(repo, matching.MaxMatches), repo
}

func mustCreate(t *testing.T, store *matching.Store, netid string, partners ...string) *matching.MatchRecord {
	t.Helper()
	record, err := store.CreateMatch(context.Background(), netid, testPrompt, partners, time.Now(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	return record
}

func TestCreateMatchInitializesUnrevealed(t *testing.T) {
	store, _ := newTestStore()

	record := mustCreate(t, store, "abc1", "def2", "ghi3")

	assert.Equal(t, []string{"def2", "ghi3"}, record.Matches)
	assert.Equal(t, []bool{false, false}, record.Revealed)
	assert.Nil(t, record.ChatUnlocked)
}

func TestCreateMatchSanitizesEntries(t *testing.T) {
	store, _ := newTestStore()

	// Blank, self and duplicate entries are dropped; the rest truncates to 3.
	record := mustCreate(t, store, "abc1", "def2", "", "abc1", "def2", "  ", "ghi3", "jkl4", "mno5")

	assert.Equal(t, []string{"def2", "ghi3", "jkl4"}, record.Matches)
	assert.Len(t, record.Revealed, 3)
}

func TestCreateMatchAppendsUpToCapacity(t *testing.T) {
	store, _ := newTestStore()

	mustCreate(t, store, "abc1", "def2", "ghi3")
	record := mustCreate(t, store, "abc1", "jkl4", "mno5")

	// Only one slot was free: jkl4 fits, mno5 is dropped.
	assert.Equal(t, []string{"def2", "ghi3", "jkl4"}, record.Matches)
	assert.Equal(t, []bool{false, false, false}, record.Revealed)
}

func TestCreateMatchAtCapacityIsNoOp(t *testing.T) {
	store, _ := newTestStore()

	mustCreate(t, store, "abc1", "def2", "ghi3", "jkl4")
	record := mustCreate(t, store, "abc1", "mno5")

	assert.Equal(t, []string{"def2", "ghi3", "jkl4"}, record.Matches)
}

func TestGetMatchNotFound(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.GetMatch(context.Background(), "abc1", testPrompt)
	assert.ErrorIs(t, err, matching.ErrMatchNotFound)
	assert.Contains(t, err.Error(), "Match not found")
}

func TestRevealMatchFlipsOneIndex(t *testing.T) {
	store, _ := newTestStore()
	mustCreate(t, store, "abc1", "def2", "ghi3", "jkl4")

	record, err := store.RevealMatch(context.Background(), "abc1", testPrompt, 1)
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true, false}, record.Revealed)
	assert.Nil(t, record.ChatUnlocked)
}

func TestRevealMatchIsIdempotent(t *testing.T) {
	store, _ := newTestStore()
	mustCreate(t, store, "abc1", "def2", "ghi3")

	first, err := store.RevealMatch(context.Background(), "abc1", testPrompt, 0)
	require.NoError(t, err)
	second, err := store.RevealMatch(context.Background(), "abc1", testPrompt, 0)
	require.NoError(t, err)

	assert.Equal(t, first.Revealed, second.Revealed)
	assert.Equal(t, []bool{true, false}, second.Revealed)
}

func TestRevealMatchIndexErrors(t *testing.T) {
	store, _ := newTestStore()
	mustCreate(t, store, "abc1", "def2")

	// Outside the structural range [0, 2].
	_, err := store.RevealMatch(context.Background(), "abc1", testPrompt, -1)
	assert.ErrorIs(t, err, matching.ErrIndexOutOfRange)
	_, err = store.RevealMatch(context.Background(), "abc1", testPrompt, 3)
	assert.ErrorIs(t, err, matching.ErrIndexOutOfRange)
	assert.Contains(t, matching.ErrIndexOutOfRange.Error(), "Match index must be between 0 and 2")

	// Inside the range but beyond this record's single match.
	_, err = store.RevealMatch(context.Background(), "abc1", testPrompt, 1)
	assert.ErrorIs(t, err, matching.ErrIndexOutOfBounds)
	assert.Contains(t, err.Error(), "Match index out of bounds")

	// Missing record.
	_, err = store.RevealMatch(context.Background(), "zzz9", testPrompt, 0)
	assert.ErrorIs(t, err, matching.ErrMatchNotFound)
}

func TestConcurrentRevealsOnDifferentIndices(t *testing.T) {
	store, _ := newTestStore()
	mustCreate(t, store, "abc1", "def2", "ghi3", "jkl4")

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			_, err := store.RevealMatch(context.Background(), "abc1", testPrompt, index)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	record, err := store.GetMatch(context.Background(), "abc1", testPrompt)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, record.Revealed)
}

func TestSetChatUnlockedScopedToPartnerIndex(t *testing.T) {
	store, _ := newTestStore()
	mustCreate(t, store, "abc1", "def2", "ghi3", "jkl4")

	require.NoError(t, store.SetChatUnlocked(context.Background(), "abc1", testPrompt, "ghi3"))

	record, err := store.GetMatch(context.Background(), "abc1", testPrompt)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, record.ChatUnlocked)
	assert.Equal(t, []bool{false, false, false}, record.Revealed, "unlock must not touch reveal state")
}

func TestSetChatUnlockedUnknownPartnerIsNoOp(t *testing.T) {
	store, _ := newTestStore()
	mustCreate(t, store, "abc1", "def2")

	require.NoError(t, store.SetChatUnlocked(context.Background(), "abc1", testPrompt, "zzz9"))

	record, err := store.GetMatch(context.Background(), "abc1", testPrompt)
	require.NoError(t, err)
	assert.Nil(t, record.ChatUnlocked)
}

func TestSetChatUnlockedNeverClears(t *testing.T) {
	store, _ := newTestStore()
	mustCreate(t, store, "abc1", "def2", "ghi3")

	require.NoError(t, store.SetChatUnlocked(context.Background(), "abc1", testPrompt, "def2"))
	require.NoError(t, store.SetChatUnlocked(context.Background(), "abc1", testPrompt, "ghi3"))
	require.NoError(t, store.SetChatUnlocked(context.Background(), "abc1", testPrompt, "def2"))

	record, err := store.GetMatch(context.Background(), "abc1", testPrompt)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, record.ChatUnlocked)
}
