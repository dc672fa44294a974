package services

import (
	"context"
	"errors"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portsrepo "github.com/ReplyPilot/review_pilot_app/internal/core/ports/repositories"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
	"github.com/ReplyPilot/review_pilot_app/internal/platform/config"
	"github.com/ReplyPilot/review_pilot_app/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// providerScopes are the OAuth scopes requested for business profile access.
var providerScopes = []string{
	"https://www.googleapis.com/auth/business.manage",
	"openid",
	"email",
	"profile",
}

// ExchangeFunc swaps an authorization code for a token pair. The redirect URI
// must match the one the frontend used to obtain the code.
type ExchangeFunc func(ctx context.Context, code string, redirectURI string) (*oauth2.Token, error)

// IdentityValidator verifies the ID token issued alongside the access token
// and returns the claims this service trusts.
type IdentityValidator func(ctx context.Context, rawIDToken string) (*domain.GoogleUserInfo, error)

type connectService struct {
	BaseService
	cfg         *config.Config
	userRepo    portsrepo.UserRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	provider    portssvc.ReviewProviderSvc
	exchange    ExchangeFunc
	validate    IdentityValidator
	now         func() time.Time
}

// ConnectOption configures the connect service.
type ConnectOption func(*connectService)

// WithExchangeFunc overrides the authorization code exchange. Used in tests.
func WithExchangeFunc(fn ExchangeFunc) ConnectOption {
	return func(s *connectService) { s.exchange = fn }
}

// WithIdentityValidator overrides ID token validation. Used in tests.
func WithIdentityValidator(fn IdentityValidator) ConnectOption {
	return func(s *connectService) { s.validate = fn }
}

// WithConnectClock overrides the clock. Used in tests.
func WithConnectClock(now func() time.Time) ConnectOption {
	return func(s *connectService) { s.now = now }
}

// NewConnectService creates the OAuth connect service.
func NewConnectService(
	cfg *config.Config,
	userRepo portsrepo.UserRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	provider portssvc.ReviewProviderSvc,
	opts ...ConnectOption,
) portssvc.ConnectSvcFacade {
	s := &connectService{
		cfg:         cfg,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		provider:    provider,
		now:         time.Now,
	}
	s.exchange = func(ctx context.Context, code string, redirectURI string) (*oauth2.Token, error) {
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       providerScopes,
			Endpoint:     google.Endpoint,
		}
		return oauthCfg.Exchange(ctx, code)
	}
	s.validate = func(ctx context.Context, rawIDToken string) (*domain.GoogleUserInfo, error) {
		payload, err := idtoken.Validate(ctx, rawIDToken, cfg.GoogleClientID)
		if err != nil {
			return nil, err
		}
		info := &domain.GoogleUserInfo{Sub: payload.Subject}
		if v, ok := payload.Claims["email"].(string); ok {
			info.Email = v
		}
		if v, ok := payload.Claims["name"].(string); ok {
			info.Name = v
		}
		if v, ok := payload.Claims["email_verified"].(bool); ok {
			info.EmailVerified = v
		}
		return info, nil
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ConnectSvcFacade = (*connectService)(nil)

// AuthorizationURL builds the consent URL for the frontend redirect. Offline
// access with a forced consent prompt is required, without it the provider
// omits the refresh token on repeat connects.
func (s *connectService) AuthorizationURL(redirectURI string) (string, string, error) {
	if redirectURI == "" {
		return "", "", apperrors.NewValidationError("redirect URI is required")
	}
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", "", apperrors.NewInternalError("failed to generate state nonce", err)
	}
	oauthCfg := &oauth2.Config{
		ClientID:    s.cfg.GoogleClientID,
		RedirectURL: redirectURI,
		Scopes:      providerScopes,
		Endpoint:    google.Endpoint,
	}
	url := oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	return url, state, nil
}

// ConnectAccount runs the full connect flow: code exchange, identity
// validation, user + account + credential persistence and session issuance.
func (s *connectService) ConnectAccount(ctx context.Context, code string, redirectURI string) (*portssvc.ConnectResult, error) {
	if code == "" {
		return nil, apperrors.NewValidationError("authorization code is required")
	}

	token, err := s.exchange(ctx, code, redirectURI)
	if err != nil {
		s.LogWarn(ctx, "authorization code exchange failed")
		return nil, apperrors.NewAuthExpiredError("authorization code exchange failed", err)
	}

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, apperrors.NewAuthExpiredError("provider returned no identity token", nil)
	}
	identity, err := s.validate(ctx, rawIDToken)
	if err != nil {
		return nil, apperrors.NewAuthExpiredError("identity token validation failed", err)
	}

	user, err := s.upsertUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	accounts, err := s.connectProviderAccounts(ctx, user, token)
	if err != nil {
		return nil, err
	}

	sessionToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue session token", err)
	}

	s.LogInfo(ctx, "account connected",
		"user_id", user.UserID,
		"provider_accounts", len(accounts),
	)
	return &portssvc.ConnectResult{
		User:         *user,
		Accounts:     accounts,
		SessionToken: sessionToken,
		ExpiresAt:    s.now().Add(s.cfg.JWTExpiryDuration),
	}, nil
}

func (s *connectService) upsertUser(ctx context.Context, identity *domain.GoogleUserInfo) (*domain.User, error) {
	now := s.now()
	existing, err := s.userRepo.FindUserByProviderID(ctx, domain.ProviderGoogle, identity.Sub)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewInternalError("failed to look up user", err)
	}

	user := domain.User{
		Name:           identity.Name,
		Email:          identity.Email,
		AuthProvider:   domain.ProviderGoogle,
		ProviderUserID: identity.Sub,
		EmailVerified:  identity.EmailVerified,
	}
	if existing != nil {
		user.UserID = existing.UserID
		user.AuditFields = existing.AuditFields
		user.LastUpdatedAt = now
		user.LastUpdatedBy = existing.UserID
	} else {
		user.UserID = uuid.NewString()
		user.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     user.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: user.UserID,
		}
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, apperrors.NewInternalError("failed to save user", err)
	}
	return &user, nil
}

// connectProviderAccounts lists the provider accounts visible to the new
// token and stores each with its credential. The same token pair authorises
// every account of the consenting identity.
func (s *connectService) connectProviderAccounts(ctx context.Context, user *domain.User, token *oauth2.Token) ([]domain.Account, error) {
	providerAccounts, err := s.provider.ListAccounts(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}
	if len(providerAccounts) == 0 {
		return nil, apperrors.NewNotFoundError("no business profile accounts visible to this identity")
	}

	now := s.now()
	accounts := make([]domain.Account, 0, len(providerAccounts))
	for _, pa := range providerAccounts {
		account := domain.Account{
			AccountID:    uuid.NewString(),
			UserID:       user.UserID,
			ResourceName: pa.ResourceName,
			DisplayName:  pa.DisplayName,
			Role:         pa.Role,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     user.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: user.UserID,
			},
		}
		stored, err := s.accountRepo.UpsertAccount(ctx, account)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to save account", err)
		}

		cred := domain.Credential{
			AccountID:    stored.AccountID,
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			ExpiresAt:    token.Expiry,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     user.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: user.UserID,
			},
		}
		if err := s.accountRepo.SaveCredential(ctx, cred); err != nil {
			return nil, apperrors.NewInternalError("failed to save credential", err)
		}
		accounts = append(accounts, *stored)
	}
	return accounts, nil
}
