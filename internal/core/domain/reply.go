package domain

import "time"

// StyleSettings shape a generated reply. They are supplied by the caller per
// request (sourced from per-user configuration); there is no process-wide
// default.
type StyleSettings struct {
	Tone           string `json:"tone"`
	Length         string `json:"length"`
	Signature      string `json:"signature"`
	CustomTemplate string `json:"customTemplate"`
	BusinessName   string `json:"businessName"`
}

// ReplyDraft is an unpublished reply text keyed by review. Drafts are
// ephemeral: they are returned to the caller and discarded unless published.
type ReplyDraft struct {
	ReviewID    string    `json:"reviewID"`
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generatedAt"`
}
