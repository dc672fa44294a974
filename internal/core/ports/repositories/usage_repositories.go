package repositories

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// UsageRepositoryFacade tracks per-user monthly publish counters.
type UsageRepositoryFacade interface {
	// IncrementUsage adds one published reply to the user's counter for the
	// given period, creating the row on first use.
	IncrementUsage(ctx context.Context, userID string, period string) error

	// GetUsage retrieves the counter for a user and period; a missing row is
	// returned as a zero counter, not an error.
	GetUsage(ctx context.Context, userID string, period string) (*domain.UsageCounter, error)
}
