package services_test

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock repositories and collaborators shared by the service suites ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) UpsertAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	args := m.Called(ctx, account)
	var acc *domain.Account
	if args.Get(0) != nil {
		acc = args.Get(0).(*domain.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	var acc *domain.Account
	if args.Get(0) != nil {
		acc = args.Get(0).(*domain.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	var accounts []domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) SaveCredential(ctx context.Context, cred domain.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockAccountRepository) FindCredentialByAccountID(ctx context.Context, accountID string) (*domain.Credential, error) {
	args := m.Called(ctx, accountID)
	var cred *domain.Credential
	if args.Get(0) != nil {
		cred = args.Get(0).(*domain.Credential)
	}
	return cred, args.Error(1)
}

func (m *MockAccountRepository) MarkCredentialInvalid(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) UpsertLocation(ctx context.Context, location domain.Location) (*domain.Location, error) {
	args := m.Called(ctx, location)
	var loc *domain.Location
	if args.Get(0) != nil {
		loc = args.Get(0).(*domain.Location)
	}
	return loc, args.Error(1)
}

func (m *MockLocationRepository) FindLocationByID(ctx context.Context, locationID string) (*domain.Location, error) {
	args := m.Called(ctx, locationID)
	var loc *domain.Location
	if args.Get(0) != nil {
		loc = args.Get(0).(*domain.Location)
	}
	return loc, args.Error(1)
}

func (m *MockLocationRepository) ListLocationsByUser(ctx context.Context, userID string) ([]domain.Location, error) {
	args := m.Called(ctx, userID)
	var locations []domain.Location
	if args.Get(0) != nil {
		locations = args.Get(0).([]domain.Location)
	}
	return locations, args.Error(1)
}

func (m *MockLocationRepository) DeactivateLocation(ctx context.Context, locationID string, updatedBy string) error {
	args := m.Called(ctx, locationID, updatedBy)
	return args.Error(0)
}

func (m *MockLocationRepository) GetLocationStats(ctx context.Context, locationID string) (*domain.LocationStats, error) {
	args := m.Called(ctx, locationID)
	var stats *domain.LocationStats
	if args.Get(0) != nil {
		stats = args.Get(0).(*domain.LocationStats)
	}
	return stats, args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	args := m.Called(ctx, reviewID)
	var review *domain.Review
	if args.Get(0) != nil {
		review = args.Get(0).(*domain.Review)
	}
	return review, args.Error(1)
}

func (m *MockReviewRepository) ListReviews(ctx context.Context, userID string, filter domain.ReviewFilter) ([]domain.Review, string, error) {
	args := m.Called(ctx, userID, filter)
	var reviews []domain.Review
	if args.Get(0) != nil {
		reviews = args.Get(0).([]domain.Review)
	}
	return reviews, args.String(1), args.Error(2)
}

func (m *MockReviewRepository) UpsertReviews(ctx context.Context, locationID string, reviews []domain.Review) (domain.UpsertCounts, error) {
	args := m.Called(ctx, locationID, reviews)
	return args.Get(0).(domain.UpsertCounts), args.Error(1)
}

func (m *MockReviewRepository) MarkReplied(ctx context.Context, reviewID string, content string, source domain.ReplySource) error {
	args := m.Called(ctx, reviewID, content, source)
	return args.Error(0)
}

type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) IncrementUsage(ctx context.Context, userID string, period string) error {
	args := m.Called(ctx, userID, period)
	return args.Error(0)
}

func (m *MockUsageRepository) GetUsage(ctx context.Context, userID string, period string) (*domain.UsageCounter, error) {
	args := m.Called(ctx, userID, period)
	var counter *domain.UsageCounter
	if args.Get(0) != nil {
		counter = args.Get(0).(*domain.UsageCounter)
	}
	return counter, args.Error(1)
}

type MockReviewProvider struct {
	mock.Mock
}

func (m *MockReviewProvider) ListAccounts(ctx context.Context, accessToken string) ([]domain.ProviderAccount, error) {
	args := m.Called(ctx, accessToken)
	var accounts []domain.ProviderAccount
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.ProviderAccount)
	}
	return accounts, args.Error(1)
}

func (m *MockReviewProvider) ListLocations(ctx context.Context, accessToken string, accountResource string) ([]domain.ProviderLocation, error) {
	args := m.Called(ctx, accessToken, accountResource)
	var locations []domain.ProviderLocation
	if args.Get(0) != nil {
		locations = args.Get(0).([]domain.ProviderLocation)
	}
	return locations, args.Error(1)
}

func (m *MockReviewProvider) ListReviews(ctx context.Context, accessToken string, accountResource, locationResource string) ([]domain.ProviderReview, error) {
	args := m.Called(ctx, accessToken, accountResource, locationResource)
	var reviews []domain.ProviderReview
	if args.Get(0) != nil {
		reviews = args.Get(0).([]domain.ProviderReview)
	}
	return reviews, args.Error(1)
}

func (m *MockReviewProvider) PostReply(ctx context.Context, accessToken string, accountResource, locationResource, externalReviewID, comment string) error {
	args := m.Called(ctx, accessToken, accountResource, locationResource, externalReviewID, comment)
	return args.Error(0)
}

type MockTokenVault struct {
	mock.Mock
}

func (m *MockTokenVault) GetValidAccessToken(ctx context.Context, accountID string) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenVault) ForceRefresh(ctx context.Context, accountID string) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

type MockReplyGenerator struct {
	mock.Mock
}

func (m *MockReplyGenerator) Generate(ctx context.Context, review domain.Review, style domain.StyleSettings) (string, error) {
	args := m.Called(ctx, review, style)
	return args.String(0), args.Error(1)
}
