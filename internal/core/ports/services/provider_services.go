package services

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// ReviewProviderSvc is the typed facade over the external review provider's
// REST API. All calls are authorised by a bearer token obtained from the
// token vault; implementations classify HTTP failures into the apperrors
// taxonomy and fall back from the current endpoint family to the legacy one
// exactly once on a permission denial.
type ReviewProviderSvc interface {
	// ListAccounts lists the business-profile accounts visible to the token.
	ListAccounts(ctx context.Context, accessToken string) ([]domain.ProviderAccount, error)

	// ListLocations lists the listings under one provider account.
	ListLocations(ctx context.Context, accessToken string, accountResource string) ([]domain.ProviderLocation, error)

	// ListReviews lists the reviews of one listing in provider order.
	ListReviews(ctx context.Context, accessToken string, accountResource, locationResource string) ([]domain.ProviderReview, error)

	// PostReply publishes (or overwrites) the owner reply to a review.
	PostReply(ctx context.Context, accessToken string, accountResource, locationResource, externalReviewID, comment string) error
}
