package services

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// ReviewReaderSvc defines read operations over stored reviews.
type ReviewReaderSvc interface {
	// ListStoredReviews returns the user's stored reviews matching the
	// filter plus an opaque token for the next page.
	ListStoredReviews(ctx context.Context, userID string, filter domain.ReviewFilter) ([]domain.Review, string, error)
}

// DraftSvc produces ephemeral reply drafts.
type DraftSvc interface {
	// GenerateDraft asks the text service for a reply draft. The draft is
	// returned to the caller and never persisted; publishing is a separate,
	// explicit step.
	GenerateDraft(ctx context.Context, userID string, reviewID string, style domain.StyleSettings) (*domain.ReplyDraft, error)
}

// ReviewSvcFacade combines the review-facing service interfaces.
type ReviewSvcFacade interface {
	ReviewReaderSvc
	DraftSvc
}
