package services

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// LocationSvcFacade exposes the stored locations to the caller layer.
type LocationSvcFacade interface {
	// ListLocations returns the user's active locations.
	ListLocations(ctx context.Context, userID string) ([]domain.Location, error)

	// DeactivateLocation soft-deactivates a location, preserving its review
	// history.
	DeactivateLocation(ctx context.Context, userID string, locationID string) error

	// GetLocationStats aggregates stored review counts and average rating.
	GetLocationStats(ctx context.Context, userID string, locationID string) (*domain.LocationStats, error)
}
