package domain

import "github.com/shopspring/decimal"

// LocationStats aggregates the stored reviews of one location. AverageRating
// is computed in SQL and kept as a decimal so the dashboard layer renders it
// without float drift.
type LocationStats struct {
	LocationID    string          `json:"locationID"`
	ReviewCount   int64           `json:"reviewCount"`
	RepliedCount  int64           `json:"repliedCount"`
	AverageRating decimal.Decimal `json:"averageRating"`
}
