package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portsrepo "github.com/ReplyPilot/review_pilot_app/internal/core/ports/repositories"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
)

type publishService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	locationRepo portsrepo.LocationRepositoryFacade
	reviewRepo   portsrepo.ReviewRepositoryFacade
	usageRepo    portsrepo.UsageRepositoryFacade
	provider     portssvc.ReviewProviderSvc
	vault        portssvc.TokenVaultSvc
	now          func() time.Time
}

// PublishOption configures the publish service.
type PublishOption func(*publishService)

// WithPublishClock overrides the clock. Used in tests.
func WithPublishClock(now func() time.Time) PublishOption {
	return func(s *publishService) { s.now = now }
}

// NewPublishService creates the reply publishing service.
func NewPublishService(
	accountRepo portsrepo.AccountRepositoryFacade,
	locationRepo portsrepo.LocationRepositoryFacade,
	reviewRepo portsrepo.ReviewRepositoryFacade,
	usageRepo portsrepo.UsageRepositoryFacade,
	provider portssvc.ReviewProviderSvc,
	vault portssvc.TokenVaultSvc,
	opts ...PublishOption,
) portssvc.PublishSvcFacade {
	s := &publishService{
		accountRepo:  accountRepo,
		locationRepo: locationRepo,
		reviewRepo:   reviewRepo,
		usageRepo:    usageRepo,
		provider:     provider,
		vault:        vault,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.PublishSvcFacade = (*publishService)(nil)

// PublishReply posts a drafted reply to the provider and reflects it locally.
// Nothing is mutated until the provider accepts the reply; the usage counter
// increments exactly once per accepted publish.
func (s *publishService) PublishReply(ctx context.Context, userID string, reviewID string, draftText string, source domain.ReplySource) (*domain.Review, error) {
	if draftText == "" {
		return nil, apperrors.NewValidationError("reply text is required")
	}
	if source != domain.ReplySourceAI && source != domain.ReplySourceManual {
		return nil, apperrors.NewValidationError("reply source must be ai or manual")
	}

	review, location, account, err := s.loadOwnedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Replied {
		return nil, fmt.Errorf("review %s already has a reply: %w", reviewID, apperrors.ErrDuplicate)
	}

	err = s.withProviderAuth(ctx, account.AccountID, func(token string) error {
		return s.provider.PostReply(ctx, token, account.ResourceName, location.ResourceName, review.ExternalID, draftText)
	})
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.MarkReplied(ctx, reviewID, draftText, source); err != nil {
		s.LogError(ctx, err, "reply published but local state update failed", "review_id", reviewID)
		return nil, err
	}

	period := domain.UsagePeriod(s.now())
	if err := s.usageRepo.IncrementUsage(ctx, userID, period); err != nil {
		// The reply is live; a lost counter tick is logged, not surfaced.
		s.LogError(ctx, err, "failed to increment usage counter", "user_id", userID, "period", period)
	}

	s.LogInfo(ctx, "reply published",
		"review_id", reviewID,
		"location_id", location.LocationID,
		"source", string(source),
	)
	return s.reviewRepo.FindReviewByID(ctx, reviewID)
}

// CurrentUsage returns the caller's publish counter for the current month.
func (s *publishService) CurrentUsage(ctx context.Context, userID string) (*domain.UsageCounter, error) {
	return s.usageRepo.GetUsage(ctx, userID, domain.UsagePeriod(s.now()))
}

// loadOwnedReview resolves review -> location -> account and verifies the
// chain belongs to the caller. Anything outside the caller's data reads as
// not found.
func (s *publishService) loadOwnedReview(ctx context.Context, userID string, reviewID string) (*domain.Review, *domain.Location, *domain.Account, error) {
	review, err := s.reviewRepo.FindReviewByID(ctx, reviewID)
	if err != nil {
		return nil, nil, nil, apperrors.NewNotFoundError("review not found")
	}
	location, err := s.locationRepo.FindLocationByID(ctx, review.LocationID)
	if err != nil {
		return nil, nil, nil, apperrors.NewNotFoundError("review not found")
	}
	account, err := s.accountRepo.FindAccountByID(ctx, location.AccountID)
	if err != nil || account.UserID != userID {
		return nil, nil, nil, apperrors.NewNotFoundError("review not found")
	}
	return review, location, account, nil
}

func (s *publishService) withProviderAuth(ctx context.Context, accountID string, fn func(token string) error) error {
	token, err := s.vault.GetValidAccessToken(ctx, accountID)
	if err != nil {
		return err
	}
	err = fn(token)
	if err == nil || !apperrors.IsKind(err, apperrors.KindAuthExpired) {
		return err
	}

	token, refreshErr := s.vault.ForceRefresh(ctx, accountID)
	if refreshErr != nil {
		return refreshErr
	}
	return fn(token)
}
