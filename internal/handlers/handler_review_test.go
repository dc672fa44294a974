package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
	"github.com/ReplyPilot/review_pilot_app/internal/dto"
	"github.com/ReplyPilot/review_pilot_app/internal/handlers"
	"github.com/ReplyPilot/review_pilot_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReviewService ---
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListStoredReviews(ctx context.Context, userID string, filter domain.ReviewFilter) ([]domain.Review, string, error) {
	args := m.Called(ctx, userID, filter)
	var reviews []domain.Review
	if args.Get(0) != nil {
		reviews = args.Get(0).([]domain.Review)
	}
	return reviews, args.String(1), args.Error(2)
}

func (m *MockReviewService) GenerateDraft(ctx context.Context, userID string, reviewID string, style domain.StyleSettings) (*domain.ReplyDraft, error) {
	args := m.Called(ctx, userID, reviewID, style)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReplyDraft), args.Error(1)
}

var _ portssvc.ReviewSvcFacade = (*MockReviewService)(nil)

// --- Mock PublishService ---
type MockPublishService struct {
	mock.Mock
}

func (m *MockPublishService) PublishReply(ctx context.Context, userID string, reviewID string, draftText string, source domain.ReplySource) (*domain.Review, error) {
	args := m.Called(ctx, userID, reviewID, draftText, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockPublishService) CurrentUsage(ctx context.Context, userID string) (*domain.UsageCounter, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UsageCounter), args.Error(1)
}

var _ portssvc.PublishSvcFacade = (*MockPublishService)(nil)

// --- Test Suite ---
type ReviewHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockReviewService  *MockReviewService
	mockPublishService *MockPublishService
	jwtSecret          string
}

func TestReviewHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReviewHandlerTestSuite))
}

func (suite *ReviewHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "rp-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ReviewHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockReviewService = new(MockReviewService)
	suite.mockPublishService = new(MockPublishService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterReviewRoutes(v1, suite.mockReviewService, suite.mockPublishService)
}

func (suite *ReviewHandlerTestSuite) authedRequest(method, url string, body []byte, userID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ReviewHandlerTestSuite) TestListReviews_Success() {
	userID := uuid.NewString()
	replyContent := "Thanks!"
	replySource := domain.ReplySourceAI
	expected := []domain.Review{
		{ReviewID: "rev-1", LocationID: "loc-1", Author: "Alice", Rating: 5, Comment: "Great", ReviewDate: time.Now()},
		{ReviewID: "rev-2", LocationID: "loc-1", Author: "Bob", Rating: 2, Replied: true, ReplyContent: &replyContent, ReplySource: &replySource},
	}

	suite.mockReviewService.On("ListStoredReviews",
		mock.Anything,
		userID,
		mock.MatchedBy(func(f domain.ReviewFilter) bool {
			return f.LocationID == "loc-1" && f.MinRating == 2 && f.Limit == 10
		}),
	).Return(expected, "next-cursor", nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/reviews?locationID=loc-1&minRating=2&limit=10", nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListReviewsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Reviews, 2)
	suite.Equal("next-cursor", resp.NextPageToken)
	suite.Require().NotNil(resp.Reviews[1].ReplySource)
	suite.Equal("ai", *resp.Reviews[1].ReplySource)
	suite.mockReviewService.AssertExpectations(suite.T())
}

func (suite *ReviewHandlerTestSuite) TestListReviews_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/reviews", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockReviewService.AssertNotCalled(suite.T(), "ListStoredReviews", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReviewHandlerTestSuite) TestListReviews_InvalidRatingRejected() {
	userID := uuid.NewString()

	w := suite.authedRequest(http.MethodGet, "/api/v1/reviews?minRating=7", nil, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReviewService.AssertNotCalled(suite.T(), "ListStoredReviews", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReviewHandlerTestSuite) TestGenerateDraft_Success() {
	userID := uuid.NewString()
	generatedAt := time.Now().UTC().Truncate(time.Second)
	suite.mockReviewService.On("GenerateDraft",
		mock.Anything,
		userID,
		"rev-1",
		mock.MatchedBy(func(style domain.StyleSettings) bool {
			return style.Tone == "friendly" && style.BusinessName == "Bean There"
		}),
	).Return(&domain.ReplyDraft{ReviewID: "rev-1", Text: "Thanks for visiting!", GeneratedAt: generatedAt}, nil).Once()

	body, _ := json.Marshal(dto.DraftRequest{Style: dto.StyleSettingsRequest{Tone: "friendly", BusinessName: "Bean There"}})
	w := suite.authedRequest(http.MethodPost, "/api/v1/reviews/rev-1/draft", body, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DraftResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Thanks for visiting!", resp.Text)
	suite.mockReviewService.AssertExpectations(suite.T())
}

func (suite *ReviewHandlerTestSuite) TestGenerateDraft_GenerationFailure() {
	userID := uuid.NewString()
	suite.mockReviewService.On("GenerateDraft", mock.Anything, userID, "rev-1", mock.Anything).
		Return(nil, apperrors.NewGenerationFailedError("webhook returned no draft", nil)).Once()

	body, _ := json.Marshal(dto.DraftRequest{})
	w := suite.authedRequest(http.MethodPost, "/api/v1/reviews/rev-1/draft", body, userID)

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Contains(w.Body.String(), "GENERATION_FAILED")
}

func (suite *ReviewHandlerTestSuite) TestPublishReply_Success() {
	userID := uuid.NewString()
	content := "Thank you!"
	src := domain.ReplySourceManual
	replied := &domain.Review{ReviewID: "rev-1", Replied: true, ReplyContent: &content, ReplySource: &src}
	suite.mockPublishService.On("PublishReply", mock.Anything, userID, "rev-1", "Thank you!", domain.ReplySourceManual).
		Return(replied, nil).Once()

	body, _ := json.Marshal(dto.PublishReplyRequest{Text: "Thank you!", Source: "manual"})
	w := suite.authedRequest(http.MethodPost, "/api/v1/reviews/rev-1/reply", body, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReviewResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Replied)
	suite.mockPublishService.AssertExpectations(suite.T())
}

func (suite *ReviewHandlerTestSuite) TestPublishReply_AlreadyRepliedConflict() {
	userID := uuid.NewString()
	suite.mockPublishService.On("PublishReply", mock.Anything, userID, "rev-1", "again", domain.ReplySourceManual).
		Return(nil, fmt.Errorf("review rev-1 already has a reply: %w", apperrors.ErrDuplicate)).Once()

	body, _ := json.Marshal(dto.PublishReplyRequest{Text: "again", Source: "manual"})
	w := suite.authedRequest(http.MethodPost, "/api/v1/reviews/rev-1/reply", body, userID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ReviewHandlerTestSuite) TestPublishReply_BadSourceRejectedByBinding() {
	userID := uuid.NewString()

	body, _ := json.Marshal(dto.PublishReplyRequest{Text: "hello", Source: "bot"})
	w := suite.authedRequest(http.MethodPost, "/api/v1/reviews/rev-1/reply", body, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPublishService.AssertNotCalled(suite.T(), "PublishReply", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReviewHandlerTestSuite) TestPublishReply_AuthExpiredSurfaced() {
	userID := uuid.NewString()
	suite.mockPublishService.On("PublishReply", mock.Anything, userID, "rev-1", "Thanks", domain.ReplySourceAI).
		Return(nil, apperrors.NewAuthExpiredError("re-authentication required", nil)).Once()

	body, _ := json.Marshal(dto.PublishReplyRequest{Text: "Thanks", Source: "ai"})
	w := suite.authedRequest(http.MethodPost, "/api/v1/reviews/rev-1/reply", body, userID)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "AUTH_EXPIRED")
}

func (suite *ReviewHandlerTestSuite) TestCurrentUsage_Success() {
	userID := uuid.NewString()
	suite.mockPublishService.On("CurrentUsage", mock.Anything, userID).
		Return(&domain.UsageCounter{UserID: userID, Period: "2025-06", RepliesPublished: 3}, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/usage", nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UsageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(3, resp.RepliesPublished)
	suite.Equal("2025-06", resp.Period)
}
