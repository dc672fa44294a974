package services

import (
	"context"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portsrepo "github.com/ReplyPilot/review_pilot_app/internal/core/ports/repositories"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
)

const maxReviewPageSize = 100

type reviewService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	locationRepo portsrepo.LocationRepositoryFacade
	reviewRepo   portsrepo.ReviewRepositoryFacade
	generator    portssvc.ReplyGeneratorSvc
	now          func() time.Time
}

// ReviewOption configures the review service.
type ReviewOption func(*reviewService)

// WithReviewClock overrides the clock. Used in tests.
func WithReviewClock(now func() time.Time) ReviewOption {
	return func(s *reviewService) { s.now = now }
}

// NewReviewService creates the review read and drafting service.
func NewReviewService(
	accountRepo portsrepo.AccountRepositoryFacade,
	locationRepo portsrepo.LocationRepositoryFacade,
	reviewRepo portsrepo.ReviewRepositoryFacade,
	generator portssvc.ReplyGeneratorSvc,
	opts ...ReviewOption,
) portssvc.ReviewSvcFacade {
	s := &reviewService{
		accountRepo:  accountRepo,
		locationRepo: locationRepo,
		reviewRepo:   reviewRepo,
		generator:    generator,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ReviewSvcFacade = (*reviewService)(nil)

func (s *reviewService) ListStoredReviews(ctx context.Context, userID string, filter domain.ReviewFilter) ([]domain.Review, string, error) {
	if filter.MinRating < 0 || filter.MinRating > 5 {
		return nil, "", apperrors.NewValidationError("minRating must be between 0 and 5")
	}
	if filter.Limit < 0 {
		return nil, "", apperrors.NewValidationError("limit must not be negative")
	}
	if filter.Limit > maxReviewPageSize {
		filter.Limit = maxReviewPageSize
	}
	return s.reviewRepo.ListReviews(ctx, userID, filter)
}

// GenerateDraft asks the text service for a reply draft. Drafts are returned
// to the caller and never persisted.
func (s *reviewService) GenerateDraft(ctx context.Context, userID string, reviewID string, style domain.StyleSettings) (*domain.ReplyDraft, error) {
	review, err := s.loadOwnedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, *review, style)
	if err != nil {
		return nil, err
	}

	s.LogDebug(ctx, "reply draft generated", "review_id", reviewID)
	return &domain.ReplyDraft{
		ReviewID:    reviewID,
		Text:        text,
		GeneratedAt: s.now(),
	}, nil
}

func (s *reviewService) loadOwnedReview(ctx context.Context, userID string, reviewID string) (*domain.Review, error) {
	review, err := s.reviewRepo.FindReviewByID(ctx, reviewID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("review not found")
	}
	location, err := s.locationRepo.FindLocationByID(ctx, review.LocationID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("review not found")
	}
	account, err := s.accountRepo.FindAccountByID(ctx, location.AccountID)
	if err != nil || account.UserID != userID {
		return nil, apperrors.NewNotFoundError("review not found")
	}
	return review, nil
}
