package models

import "time"

// Review represents a row in the reviews table. (location_id, external_id) is
// the upsert conflict key.
type Review struct {
	ReviewID     string     `db:"review_id"`
	LocationID   string     `db:"location_id"`
	ExternalID   string     `db:"external_id"`
	Author       string     `db:"author"`
	Rating       int        `db:"rating"`
	Comment      string     `db:"comment"`
	ReviewDate   time.Time  `db:"review_date"`
	Replied      bool       `db:"replied"`
	ReplyContent *string    `db:"reply_content"`
	ReplySource  *string    `db:"reply_source"`
	RepliedAt    *time.Time `db:"replied_at"`
	AuditFields
}
