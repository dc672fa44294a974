package repositories

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// ReviewReader defines read operations for stored reviews.
type ReviewReader interface {
	// FindReviewByID retrieves a review by its local id.
	FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error)

	// ListReviews retrieves stored reviews matching the filter, newest first.
	// The returned token, when non-empty, fetches the next page.
	ListReviews(ctx context.Context, userID string, filter domain.ReviewFilter) ([]domain.Review, string, error)
}

// ReviewWriter defines write operations for stored reviews.
type ReviewWriter interface {
	// UpsertReviews persists a batch for one location inside a single
	// transaction, in the given order. Conflict key is
	// (location_id, external_id): an existing row is left untouched unless
	// the incoming record carries a reply and the stored row does not, in
	// which case only the reply fields are merged. Author, rating and
	// comment are immutable once stored.
	UpsertReviews(ctx context.Context, locationID string, reviews []domain.Review) (domain.UpsertCounts, error)

	// MarkReplied flips replied false->true and records the reply. It is the
	// only path that sets replied and it is not reversible; marking an
	// already-replied review returns apperrors.ErrDuplicate.
	MarkReplied(ctx context.Context, reviewID string, content string, source domain.ReplySource) error
}

// ReviewRepositoryFacade combines all review-related repository interfaces
type ReviewRepositoryFacade interface {
	ReviewReader
	ReviewWriter
}
