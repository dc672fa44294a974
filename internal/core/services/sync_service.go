package services

import (
	"context"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portsrepo "github.com/ReplyPilot/review_pilot_app/internal/core/ports/repositories"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
	"github.com/google/uuid"
)

type syncService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	locationRepo portsrepo.LocationRepositoryFacade
	reviewRepo   portsrepo.ReviewRepositoryFacade
	provider     portssvc.ReviewProviderSvc
	vault        portssvc.TokenVaultSvc
	now          func() time.Time
}

// SyncOption configures the sync service.
type SyncOption func(*syncService)

// WithSyncClock overrides the clock. Used in tests.
func WithSyncClock(now func() time.Time) SyncOption {
	return func(s *syncService) { s.now = now }
}

// NewSyncService creates the sync coordinator.
func NewSyncService(
	accountRepo portsrepo.AccountRepositoryFacade,
	locationRepo portsrepo.LocationRepositoryFacade,
	reviewRepo portsrepo.ReviewRepositoryFacade,
	provider portssvc.ReviewProviderSvc,
	vault portssvc.TokenVaultSvc,
	opts ...SyncOption,
) portssvc.SyncSvcFacade {
	s := &syncService{
		accountRepo:  accountRepo,
		locationRepo: locationRepo,
		reviewRepo:   reviewRepo,
		provider:     provider,
		vault:        vault,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.SyncSvcFacade = (*syncService)(nil)

// RunSync pulls locations and reviews for one connected account. Locations
// are processed sequentially and committed independently: a failed location
// is recorded in the report and never rolls back the ones synced before it.
func (s *syncService) RunSync(ctx context.Context, userID string, accountID string) (*domain.SyncReport, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("account not found")
	}
	if account.UserID != userID {
		return nil, apperrors.NewNotFoundError("account not found")
	}

	report := &domain.SyncReport{AccountID: accountID, Errors: []domain.SyncError{}}

	var locations []domain.ProviderLocation
	err = s.withProviderAuth(ctx, accountID, func(token string) error {
		var listErr error
		locations, listErr = s.provider.ListLocations(ctx, token, account.ResourceName)
		return listErr
	})
	if err != nil {
		return nil, err
	}

	for _, pl := range locations {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.syncLocation(ctx, account, pl, report); err != nil {
			s.LogWarn(ctx, "location sync failed",
				"account_id", accountID,
				"location_resource", pl.ResourceName,
				"reason", err.Error(),
			)
			report.Errors = append(report.Errors, domain.SyncError{
				LocationResource: pl.ResourceName,
				Reason:           err.Error(),
			})
			continue
		}
		report.SyncedLocations++
	}

	s.LogInfo(ctx, "sync pass completed",
		"account_id", accountID,
		"synced_locations", report.SyncedLocations,
		"new_reviews", report.NewReviews,
		"updated_reviews", report.UpdatedReviews,
		"failed_locations", len(report.Errors),
	)
	return report, nil
}

// syncLocation upserts one listing and its full review set. The review batch
// commits in a single transaction inside the repository.
func (s *syncService) syncLocation(ctx context.Context, account *domain.Account, pl domain.ProviderLocation, report *domain.SyncReport) error {
	now := s.now()
	location := domain.Location{
		LocationID:   uuid.NewString(),
		AccountID:    account.AccountID,
		ResourceName: pl.ResourceName,
		Name:         pl.Name,
		Address:      pl.Address,
		Category:     pl.Category,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     account.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: account.UserID,
		},
	}
	stored, err := s.locationRepo.UpsertLocation(ctx, location)
	if err != nil {
		return err
	}

	var providerReviews []domain.ProviderReview
	err = s.withProviderAuth(ctx, account.AccountID, func(token string) error {
		var listErr error
		providerReviews, listErr = s.provider.ListReviews(ctx, token, account.ResourceName, pl.ResourceName)
		return listErr
	})
	if err != nil {
		return err
	}

	reviews := make([]domain.Review, 0, len(providerReviews))
	for _, pr := range providerReviews {
		reviews = append(reviews, s.toStoredReview(stored.LocationID, account.UserID, pr, now))
	}

	counts, err := s.reviewRepo.UpsertReviews(ctx, stored.LocationID, reviews)
	if err != nil {
		return err
	}
	report.NewReviews += counts.New
	report.UpdatedReviews += counts.Updated
	return nil
}

func (s *syncService) toStoredReview(locationID, userID string, pr domain.ProviderReview, now time.Time) domain.Review {
	review := domain.Review{
		ReviewID:   uuid.NewString(),
		LocationID: locationID,
		ExternalID: pr.ExternalID,
		Author:     pr.Author,
		Rating:     pr.Rating,
		Comment:    pr.Comment,
		ReviewDate: pr.CreateTime,
		Replied:    pr.HasReply,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if pr.HasReply {
		content := pr.ReplyComment
		review.ReplyContent = &content
		if !pr.ReplyTime.IsZero() {
			t := pr.ReplyTime
			review.RepliedAt = &t
		}
	}
	return review
}

// withProviderAuth runs one provider call with a vault token, forcing a
// single refresh-and-retry when the provider rejects a token that looked
// valid locally.
func (s *syncService) withProviderAuth(ctx context.Context, accountID string, fn func(token string) error) error {
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
