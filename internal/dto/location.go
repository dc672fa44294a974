package dto

import (
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LocationResponse is the public shape of a synced location.
type LocationResponse struct {
	LocationID   string    `json:"locationID"`
	AccountID    string    `json:"accountID"`
	ResourceName string    `json:"resourceName"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LocationStatsResponse aggregates the stored reviews of one location.
type LocationStatsResponse struct {
	LocationID    string          `json:"locationID"`
	ReviewCount   int64           `json:"reviewCount"`
	RepliedCount  int64           `json:"repliedCount"`
	AverageRating decimal.Decimal `json:"averageRating"`
}

// UsageResponse is the caller's publish counter for one month.
type UsageResponse struct {
	Period           string `json:"period"`
	RepliesPublished int    `json:"repliesPublished"`
}

// ToLocationResponse converts a domain.Location to LocationResponse DTO
func ToLocationResponse(location *domain.Location) LocationResponse {
	return LocationResponse{
		LocationID:   location.LocationID,
		AccountID:    location.AccountID,
		ResourceName: location.ResourceName,
		Name:         location.Name,
		Address:      location.Address,
		Category:     location.Category,
		CreatedAt:    location.CreatedAt,
	}
}

// ToListLocationResponse converts a slice of domain.Location to response DTOs
func ToListLocationResponse(locations []domain.Location) []LocationResponse {
	res := make([]LocationResponse, len(locations))
	for i := range locations {
		res[i] = ToLocationResponse(&locations[i])
	}
	return res
}

// ToLocationStatsResponse converts domain.LocationStats to its response DTO
func ToLocationStatsResponse(stats *domain.LocationStats) LocationStatsResponse {
	return LocationStatsResponse{
		LocationID:    stats.LocationID,
		ReviewCount:   stats.ReviewCount,
		RepliedCount:  stats.RepliedCount,
		AverageRating: stats.AverageRating,
	}
}

// ToUsageResponse converts a domain.UsageCounter to UsageResponse DTO
func ToUsageResponse(counter *domain.UsageCounter) UsageResponse {
	return UsageResponse{
		Period:           counter.Period,
		RepliesPublished: counter.RepliesPublished,
	}
}
