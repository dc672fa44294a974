package domain

import "time"

// ReplySource records who authored a published reply.
type ReplySource string

const (
	ReplySourceAI     ReplySource = "ai"
	ReplySourceManual ReplySource = "manual"
)

// Review is a customer review attached to exactly one Location. The external
// identifier is the provider's review id (or a derived placeId_timestamp value
// for alternate ingestion sources) and is unique per location; re-ingesting
// the same review never creates a duplicate row and never clears the reply
// fields of an already-replied row.
type Review struct {
	ReviewID     string       `json:"reviewID"`   // Primary Key (UUID)
	LocationID   string       `json:"locationID"` // FK -> locations.location_id
	ExternalID   string       `json:"externalID"` // Dedup key, unique per location
	Author       string       `json:"author"`
	Rating       int          `json:"rating"` // 1..5; 0 when the provider value was unrecognised
	Comment      string       `json:"comment"`
	ReviewDate   time.Time    `json:"reviewDate"`
	Replied      bool         `json:"replied"`
	ReplyContent *string      `json:"replyContent,omitempty"`
	ReplySource  *ReplySource `json:"replySource,omitempty"`
	RepliedAt    *time.Time   `json:"repliedAt,omitempty"`
	AuditFields
}

// ReviewFilter narrows ListReviews queries. Zero values mean "no constraint".
type ReviewFilter struct {
	LocationID string
	Replied    *bool
	MinRating  int
	Limit      int
	PageToken  string // Opaque cursor from a previous page
}

// UpsertCounts reports what a batch upsert actually did.
type UpsertCounts struct {
	New     int `json:"newReviews"`
	Updated int `json:"updatedReviews"`
	Skipped int `json:"skippedReviews"`
}

// Add accumulates counts across per-location batches.
func (c *UpsertCounts) Add(other UpsertCounts) {
	c.New += other.New
	c.Updated += other.Updated
	c.Skipped += other.Skipped
}
