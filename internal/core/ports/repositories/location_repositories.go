package repositories

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// LocationReader defines read operations for locations.
type LocationReader interface {
	// FindLocationByID retrieves a location by its local id.
	FindLocationByID(ctx context.Context, locationID string) (*domain.Location, error)

	// ListLocationsByUser retrieves the active locations across every account
	// owned by the user.
	ListLocationsByUser(ctx context.Context, userID string) ([]domain.Location, error)

	// GetLocationStats aggregates stored review counts and average rating.
	GetLocationStats(ctx context.Context, locationID string) (*domain.LocationStats, error)
}

// LocationWriter defines write operations for locations.
type LocationWriter interface {
	// UpsertLocation persists a location keyed by (account_id, resource_name).
	// Re-syncing the same listing updates name/address/category and
	// reactivates it; it never creates a duplicate.
	UpsertLocation(ctx context.Context, location domain.Location) (*domain.Location, error)

	// DeactivateLocation soft-deletes a location (is_active=false), keeping
	// its review history.
	DeactivateLocation(ctx context.Context, locationID string, updatedBy string) error
}

// LocationRepositoryFacade combines all location-related repository interfaces
type LocationRepositoryFacade interface {
	LocationReader
	LocationWriter
}
