package domain

import "time"

// UsagePeriodFormat is the layout of the usage counter period key.
const UsagePeriodFormat = "2006-01"

// UsageCounter counts replies published by one user in one calendar month.
// It is incremented exactly once per successful publish and never decremented
// by this pipeline.
type UsageCounter struct {
	UserID           string `json:"userID"`
	Period           string `json:"period"` // "YYYY-MM"
	RepliesPublished int    `json:"repliesPublished"`
}

// UsagePeriod returns the counter period key for the given instant, in UTC.
func UsagePeriod(t time.Time) string {
	return t.UTC().Format(UsagePeriodFormat)
}
