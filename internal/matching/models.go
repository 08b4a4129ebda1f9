package matching

import (
	"time"
)

// MaxMatches is the per-user match capacity for a single prompt.
const MaxMatches = 3

// MatchRecord is one user's persisted matches for one weekly prompt.
// Document ID is "netid_promptId". Matches, Revealed and ChatUnlocked are
// index-aligned; insertion order fixes the reveal-index order at creation.
type MatchRecord struct {
	Netid        string    `json:"netid" firestore:"netid"`
	PromptID     string    `json:"prompt_id" firestore:"promptId"`
	Matches      []string  `json:"matches" firestore:"matches"`
	Revealed     []bool    `json:"revealed" firestore:"revealed"`
	ChatUnlocked []bool    `json:"chat_unlocked,omitempty" firestore:"chatUnlocked"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	ExpiresAt    time.Time `json:"expires_at" firestore:"expiresAt"`
}

// MatchDocID builds the match record document ID for (netid, promptID).
func MatchDocID(netid, promptID string) string {
	return netid + "_" + promptID
}

// IndexOf returns the position of partner in the record's match list, or -1.
func (r *MatchRecord) IndexOf(partner string) int {
	for i, m := range r.Matches {
		if m == partner {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the record.
func (r *MatchRecord) Clone() *MatchRecord {
	cp := *r
	cp.Matches = append([]string(nil), r.Matches...)
	cp.Revealed = append([]bool(nil), r.Revealed...)
	if r.ChatUnlocked != nil {
		cp.ChatUnlocked = append([]bool(nil), r.ChatUnlocked...)
	}
	return &cp
}

// ValidationReport is the result of a mutuality audit over one prompt's records.
type ValidationReport struct {
	PromptID string   `json:"prompt_id"`
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
}
