package nudge

import "time"

// Nudge is a directional expression of interest for one prompt. Document ID
// is "from_promptId_to"; a nudge is created at most once per ordered triple
// and mutated at most once, when the reverse direction appears and both
// records flip mutual.
type Nudge struct {
	From      string    `json:"from" firestore:"from"`
	To        string    `json:"to" firestore:"to"`
	PromptID  string    `json:"prompt_id" firestore:"promptId"`
	Mutual    bool      `json:"mutual" firestore:"mutual"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// NudgeDocID builds the nudge document ID for the ordered triple.
func NudgeDocID(from, promptID, to string) string {
	return from + "_" + promptID + "_" + to
}

// Status is the caller's view of one directional pair: whether they nudged,
// were nudged back, and whether the exchange is mutual.
type Status struct {
	Sent     bool `json:"sent"`
	Received bool `json:"received"`
	Mutual   bool `json:"mutual"`
}
