package services

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// PublishSvcFacade commits a drafted reply to the provider and reflects the
// result locally.
type PublishSvcFacade interface {
	// PublishReply posts the draft to the provider (with at most one forced
	// token refresh-and-retry on an auth rejection), marks the review
	// replied and increments the user's monthly usage counter exactly once.
	// A failed publish mutates nothing.
	PublishReply(ctx context.Context, userID string, reviewID string, draftText string, source domain.ReplySource) (*domain.Review, error)

	// CurrentUsage returns the user's publish counter for the current month.
	CurrentUsage(ctx context.Context, userID string) (*domain.UsageCounter, error)
}
