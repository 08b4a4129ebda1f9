package notification

import "time"

// Notification is the write-only record of a dispatched push, kept for the
// client's in-app inbox. Document ID is a generated UUID.
type Notification struct {
	ID        string    `json:"id" firestore:"id"`
	Netid     string    `json:"netid" firestore:"netid"`
	Type      string    `json:"type" firestore:"type"`
	Title     string    `json:"title" firestore:"title"`
	Body      string    `json:"body" firestore:"body"`
	PromptID  string    `json:"prompt_id" firestore:"promptId"`
	Partner   string    `json:"partner" firestore:"partner"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

const TypeMutualNudge = "mutual_nudge"
