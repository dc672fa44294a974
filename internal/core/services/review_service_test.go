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

type ReviewServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockLocationRepo *MockLocationRepository
	mockReviewRepo   *MockReviewRepository
	mockGenerator    *MockReplyGenerator
	service          portssvc.ReviewSvcFacade
	now              time.Time
}

func TestReviewServiceSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}

func (s *ReviewServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockLocationRepo = new(MockLocationRepository)
	s.mockReviewRepo = new(MockReviewRepository)
	s.mockGenerator = new(MockReplyGenerator)
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.service = services.NewReviewService(
		s.mockAccountRepo,
		s.mockLocationRepo,
		s.mockReviewRepo,
		s.mockGenerator,
		services.WithReviewClock(func() time.Time { return s.now }),
	)
}

func (s *ReviewServiceTestSuite) expectOwnedChain(review *domain.Review) {
	s.mockReviewRepo.On("FindReviewByID", mock.Anything, review.ReviewID).Return(review, nil).Once()
	s.mockLocationRepo.On("FindLocationByID", mock.Anything, review.LocationID).
		Return(&domain.Location{LocationID: review.LocationID, AccountID: "acc-1"}, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", mock.Anything, "acc-1").
		Return(&domain.Account{AccountID: "acc-1", UserID: "user-1"}, nil).Once()
}

func (s *ReviewServiceTestSuite) TestListStoredReviewsDelegatesToRepo() {
	ctx := context.Background()
	filter := domain.ReviewFilter{LocationID: "loc-1", MinRating: 3, Limit: 20}
	s.mockReviewRepo.On("ListReviews", ctx, "user-1", filter).
		Return([]domain.Review{{ReviewID: "rev-1"}}, "next-token", nil).Once()

	reviews, token, err := s.service.ListStoredReviews(ctx, "user-1", filter)

	s.Require().NoError(err)
	s.Len(reviews, 1)
	s.Equal("next-token", token)
	s.mockReviewRepo.AssertExpectations(s.T())
}

func (s *ReviewServiceTestSuite) TestListStoredReviewsCapsPageSize() {
	ctx := context.Background()
	s.mockReviewRepo.On("ListReviews", ctx, "user-1", mock.MatchedBy(func(f domain.ReviewFilter) bool {
		return f.Limit == 100
	})).Return([]domain.Review{}, "", nil).Once()

	_, _, err := s.service.ListStoredReviews(ctx, "user-1", domain.ReviewFilter{Limit: 5000})

	s.Require().NoError(err)
	s.mockReviewRepo.AssertExpectations(s.T())
}

func (s *ReviewServiceTestSuite) TestListStoredReviewsRejectsBadRating() {
	ctx := context.Background()

	_, _, err := s.service.ListStoredReviews(ctx, "user-1", domain.ReviewFilter{MinRating: 9})

	s.Require().Error(err)
	s.True(apperrors.IsKind(err, apperrors.KindValidation))
	s.mockReviewRepo.AssertNotCalled(s.T(), "ListReviews", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReviewServiceTestSuite) TestGenerateDraftReturnsEphemeralDraft() {
	ctx := context.Background()
	review := &domain.Review{ReviewID: "rev-1", LocationID: "loc-1", Author: "Alice", Rating: 2, Comment: "Cold coffee"}
	s.expectOwnedChain(review)

	style := domain.StyleSettings{Tone: "apologetic", BusinessName: "Bean There"}
	s.mockGenerator.On("Generate", ctx, *review, style).Return("We are sorry about the coffee.", nil).Once()

	draft, err := s.service.GenerateDraft(ctx, "user-1", "rev-1", style)

	s.Require().NoError(err)
	s.Equal("rev-1", draft.ReviewID)
	s.Equal("We are sorry about the coffee.", draft.Text)
	s.Equal(s.now, draft.GeneratedAt)
	s.mockGenerator.AssertExpectations(s.T())
	// Drafts are never written back.
	s.mockReviewRepo.AssertNotCalled(s.T(), "MarkReplied", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReviewServiceTestSuite) TestGenerateDraftForeignReviewReadsAsNotFound() {
	ctx := context.Background()
	review := &domain.Review{ReviewID: "rev-1", LocationID: "loc-1"}
	s.mockReviewRepo.On("FindReviewByID", mock.Anything, "rev-1").Return(review, nil).Once()
	s.mockLocationRepo.On("FindLocationByID", mock.Anything, "loc-1").
		Return(&domain.Location{LocationID: "loc-1", AccountID: "acc-1"}, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", mock.Anything, "acc-1").
		Return(&domain.Account{AccountID: "acc-1", UserID: "someone-else"}, nil).Once()

	_, err := s.service.GenerateDraft(ctx, "user-1", "rev-1", domain.StyleSettings{})

	s.Require().Error(err)
	s.True(apperrors.IsKind(err, apperrors.KindNotFound))
	s.mockGenerator.AssertNotCalled(s.T(), "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReviewServiceTestSuite) TestGenerateDraftSurfacesGenerationFailure() {
	ctx := context.Background()
	review := &domain.Review{ReviewID: "rev-1", LocationID: "loc-1"}
	s.expectOwnedChain(review)
	s.mockGenerator.On("Generate", ctx, *review, domain.StyleSettings{}).
		Return("", apperrors.NewGenerationFailedError("webhook returned no draft", nil)).Once()

	_, err := s.service.GenerateDraft(ctx, "user-1", "rev-1", domain.StyleSettings{})

	s.Require().Error(err)
	s.True(apperrors.IsKind(err, apperrors.KindGenerationFailed))
}
