package services

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// SyncSvcFacade pulls accounts, locations and reviews from the provider and
// upserts them into the store. One pass per invocation; locations are
// committed independently so a failed location never rolls back progress made
// for the ones before it.
type SyncSvcFacade interface {
	// RunSync executes one sync pass for a connected account owned by the
	// user. Per-location failures are reported inside the SyncReport; only a
	// total failure returns an error.
	RunSync(ctx context.Context, userID string, accountID string) (*domain.SyncReport, error)
}
