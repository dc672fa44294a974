package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
	"github.com/ReplyPilot/review_pilot_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SyncServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockLocationRepo *MockLocationRepository
	mockReviewRepo   *MockReviewRepository
	mockProvider     *MockReviewProvider
	mockVault        *MockTokenVault
	service          portssvc.SyncSvcFacade
	now              time.Time
}

func TestSyncServiceSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

func (s *SyncServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockLocationRepo = new(MockLocationRepository)
	s.mockReviewRepo = new(MockReviewRepository)
	s.mockProvider = new(MockReviewProvider)
	s.mockVault = new(MockTokenVault)
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.service = services.NewSyncService(
		s.mockAccountRepo,
		s.mockLocationRepo,
		s.mockReviewRepo,
		s.mockProvider,
		s.mockVault,
		services.WithSyncClock(func() time.Time { return s.now }),
	)
}

func (s *SyncServiceTestSuite) ownedAccount() *domain.Account {
	return &domain.Account{
		AccountID:    "acc-1",
		UserID:       "user-1",
		ResourceName: "accounts/111",
	}
}

func (s *SyncServiceTestSuite) providerLocation(n string) domain.ProviderLocation {
	return domain.ProviderLocation{
		ResourceName: "locations/" + n,
		Name:         "Store " + n,
		Address:      n + " Main St",
		Category:     "Bakery",
	}
}

func (s *SyncServiceTestSuite) expectLocationUpsert(resource, locationID string) {
	s.mockLocationRepo.On("UpsertLocation", mock.Anything, mock.MatchedBy(func(loc domain.Location) bool {
		return loc.ResourceName == resource && loc.AccountID == "acc-1"
	})).Return(&domain.Location{LocationID: locationID, AccountID: "acc-1", ResourceName: resource}, nil).Once()
}

func (s *SyncServiceTestSuite) TestRunSyncAggregatesCounts() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(s.ownedAccount(), nil).Once()
	s.mockVault.On("GetValidAccessToken", ctx, "acc-1").Return("tok", nil)
	s.mockProvider.On("ListLocations", ctx, "tok", "accounts/111").
		Return([]domain.ProviderLocation{s.providerLocation("1"), s.providerLocation("2")}, nil).Once()

	s.expectLocationUpsert("locations/1", "loc-1")
	s.expectLocationUpsert("locations/2", "loc-2")

	s.mockProvider.On("ListReviews", ctx, "tok", "accounts/111", "locations/1").
		Return([]domain.ProviderReview{
			{ExternalID: "r1", Author: "Alice", Rating: 5, CreateTime: s.now},
			{ExternalID: "r2", Author: "Bob", Rating: 2, CreateTime: s.now, HasReply: true, ReplyComment: "Thanks"},
		}, nil).Once()
	s.mockProvider.On("ListReviews", ctx, "tok", "accounts/111", "locations/2").
		Return([]domain.ProviderReview{{ExternalID: "r3", Rating: 4, CreateTime: s.now}}, nil).Once()

	s.mockReviewRepo.On("UpsertReviews", ctx, "loc-1", mock.MatchedBy(func(reviews []domain.Review) bool {
		return len(reviews) == 2 && reviews[1].Replied && reviews[1].ReplyContent != nil && *reviews[1].ReplyContent == "Thanks"
	})).Return(domain.UpsertCounts{New: 1, Updated: 1}, nil).Once()
	s.mockReviewRepo.On("UpsertReviews", ctx, "loc-2", mock.Anything).
		Return(domain.UpsertCounts{New: 1}, nil).Once()

	report, err := s.service.RunSync(ctx, "user-1", "acc-1")

	s.Require().NoError(err)
	s.Equal(2, report.SyncedLocations)
	s.Equal(2, report.NewReviews)
	s.Equal(1, report.UpdatedReviews)
	s.Empty(report.Errors)
	s.mockProvider.AssertExpectations(s.T())
	s.mockReviewRepo.AssertExpectations(s.T())
}

func (s *SyncServiceTestSuite) TestRunSyncRecordsPartialFailure() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(s.ownedAccount(), nil).Once()
	s.mockVault.On("GetValidAccessToken", ctx, "acc-1").Return("tok", nil)
	s.mockProvider.On("ListLocations", ctx, "tok", "accounts/111").
		Return([]domain.ProviderLocation{
			s.providerLocation("1"), s.providerLocation("2"), s.providerLocation("3"),
		}, nil).Once()

	s.expectLocationUpsert("locations/1", "loc-1")
	s.expectLocationUpsert("locations/2", "loc-2")
	s.expectLocationUpsert("locations/3", "loc-3")

	s.mockProvider.On("ListReviews", ctx, "tok", "accounts/111", "locations/1").
		Return([]domain.ProviderReview{{ExternalID: "r1", Rating: 5, CreateTime: s.now}}, nil).Once()
	s.mockProvider.On("ListReviews", ctx, "tok", "accounts/111", "locations/2").
		Return(nil, apperrors.NewProviderUnavailableError("listing reviews failed", nil)).Once()
	s.mockProvider.On("ListReviews", ctx, "tok", "accounts/111", "locations/3").
		Return([]domain.ProviderReview{{ExternalID: "r3", Rating: 3, CreateTime: s.now}}, nil).Once()

	s.mockReviewRepo.On("UpsertReviews", ctx, "loc-1", mock.Anything).Return(domain.UpsertCounts{New: 1}, nil).Once()
	s.mockReviewRepo.On("UpsertReviews", ctx, "loc-3", mock.Anything).Return(domain.UpsertCounts{New: 1}, nil).Once()

	report, err := s.service.RunSync(ctx, "user-1", "acc-1")

	s.Require().NoError(err)
	s.Equal(2, report.SyncedLocations)
	s.Equal(2, report.NewReviews)
	s.Require().Len(report.Errors, 1)
	s.Equal("locations/2", report.Errors[0].LocationResource)
	s.mockProvider.AssertExpectations(s.T())
}

func (s *SyncServiceTestSuite) TestRunSyncStopsBetweenLocationsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(s.ownedAccount(), nil).Once()
	s.mockVault.On("GetValidAccessToken", ctx, "acc-1").Return("tok", nil)
	s.mockProvider.On("ListLocations", ctx, "tok", "accounts/111").
		Return([]domain.ProviderLocation{
			s.providerLocation("1"), s.providerLocation("2"), s.providerLocation("3"),
		}, nil).Once()

	s.expectLocationUpsert("locations/1", "loc-1")
	s.mockProvider.On("ListReviews", ctx, "tok", "accounts/111", "locations/1").
		Return([]domain.ProviderReview{{ExternalID: "r1", Rating: 5, CreateTime: s.now}}, nil).Once()
	// The caller abandons the run while the first location is committing.
	s.mockReviewRepo.On("UpsertReviews", ctx, "loc-1", mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(domain.UpsertCounts{New: 1}, nil).Once()

	report, err := s.service.RunSync(ctx, "user-1", "acc-1")

	s.Require().ErrorIs(err, context.Canceled)
	s.Require().NotNil(report)
	s.Equal(1, report.SyncedLocations)
	s.Equal(1, report.NewReviews)
	s.mockLocationRepo.AssertNumberOfCalls(s.T(), "UpsertLocation", 1)
	s.mockProvider.AssertNumberOfCalls(s.T(), "ListReviews", 1)
	s.mockReviewRepo.AssertNumberOfCalls(s.T(), "UpsertReviews", 1)
}

func (s *SyncServiceTestSuite) TestRunSyncRejectsForeignAccount() {
	ctx := context.Background()
	account := s.ownedAccount()
	account.UserID = "someone-else"
	s.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(account, nil).Once()

	_, err := s.service.RunSync(ctx, "user-1", "acc-1")

	s.Require().Error(err)
	s.True(apperrors.IsKind(err, apperrors.KindNotFound))
	s.mockVault.AssertNotCalled(s.T(), "GetValidAccessToken", mock.Anything, mock.Anything)
}

func (s *SyncServiceTestSuite) TestRunSyncRetriesOnceAfterTokenRejection() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(s.ownedAccount(), nil).Once()
	s.mockVault.On("GetValidAccessToken", ctx, "acc-1").Return("stale-tok", nil).Once()
	s.mockProvider.On("ListLocations", ctx, "stale-tok", "accounts/111").
		Return(nil, apperrors.NewAuthExpiredError("token rejected", nil)).Once()
	s.mockVault.On("ForceRefresh", ctx, "acc-1").Return("fresh-tok", nil).Once()
	s.mockProvider.On("ListLocations", ctx, "fresh-tok", "accounts/111").
		Return([]domain.ProviderLocation{}, nil).Once()

	report, err := s.service.RunSync(ctx, "user-1", "acc-1")

	s.Require().NoError(err)
	s.Equal(0, report.SyncedLocations)
	s.mockVault.AssertExpectations(s.T())
	s.mockProvider.AssertExpectations(s.T())
}

func (s *SyncServiceTestSuite) TestRunSyncSurfacesTerminalAuthFailure() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(s.ownedAccount(), nil).Once()
	s.mockVault.On("GetValidAccessToken", ctx, "acc-1").
		Return("", apperrors.NewAuthExpiredError("re-authentication required", nil)).Once()

	_, err := s.service.RunSync(ctx, "user-1", "acc-1")

	s.Require().Error(err)
	s.True(apperrors.IsKind(err, apperrors.KindAuthExpired))
	s.mockProvider.AssertNotCalled(s.T(), "ListLocations", mock.Anything, mock.Anything, mock.Anything)
}
