package services

import (
	"context"
	"sync"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portsrepo "github.com/ReplyPilot/review_pilot_app/internal/core/ports/repositories"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
	"github.com/ReplyPilot/review_pilot_app/internal/platform/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// RefreshFunc exchanges a refresh token for a new access token. The returned
// refresh token may be empty when the provider did not rotate it.
type RefreshFunc func(ctx context.Context, refreshToken string) (accessToken string, expiresAt time.Time, newRefreshToken string, err error)

// refreshCall is one in-flight refresh shared by all callers that want the
// same account's token at the same time.
type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

type tokenVaultService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	refresh     RefreshFunc
	margin      time.Duration
	now         func() time.Time

	mu       sync.Mutex
	inflight map[string]*refreshCall
}

// TokenVaultOption configures the token vault service.
type TokenVaultOption func(*tokenVaultService)

// WithRefreshFunc overrides how refresh tokens are exchanged. Used in tests.
func WithRefreshFunc(fn RefreshFunc) TokenVaultOption {
	return func(s *tokenVaultService) { s.refresh = fn }
}

// WithVaultClock overrides the clock used for expiry checks. Used in tests.
func WithVaultClock(now func() time.Time) TokenVaultOption {
	return func(s *tokenVaultService) { s.now = now }
}

// NewTokenVaultService creates the token vault backed by the credentials
// store and Google's OAuth token endpoint.
func NewTokenVaultService(cfg *config.Config, accountRepo portsrepo.AccountRepositoryFacade, opts ...TokenVaultOption) portssvc.TokenVaultSvc {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
	}
	s := &tokenVaultService{
		accountRepo: accountRepo,
		margin:      cfg.TokenRefreshMargin,
		now:         time.Now,
		inflight:    make(map[string]*refreshCall),
		refresh: func(ctx context.Context, refreshToken string) (string, time.Time, string, error) {
			src := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
			tok, err := src.Token()
			if err != nil {
				return "", time.Time{}, "", err
			}
			return tok.AccessToken, tok.Expiry, tok.RefreshToken, nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.TokenVaultSvc = (*tokenVaultService)(nil)

func (s *tokenVaultService) GetValidAccessToken(ctx context.Context, accountID string) (string, error) {
	cred, err := s.accountRepo.FindCredentialByAccountID(ctx, accountID)
	if err != nil {
		return "", apperrors.NewAuthExpiredError("no credential stored for account", err)
	}
	if cred.Invalid {
		return "", apperrors.NewAuthExpiredError("credential is invalid, re-authentication required", nil)
	}
	if cred.Valid(s.now(), s.margin) {
		return cred.AccessToken, nil
	}
	return s.refreshShared(ctx, accountID)
}

func (s *tokenVaultService) ForceRefresh(ctx context.Context, accountID string) (string, error) {
	return s.refreshShared(ctx, accountID)
}

// refreshShared collapses concurrent refreshes for one account into a single
// provider round trip. Refreshes for different accounts never contend.
func (s *tokenVaultService) refreshShared(ctx context.Context, accountID string) (string, error) {
	s.mu.Lock()
	if call, ok := s.inflight[accountID]; ok {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	s.inflight[accountID] = call
	s.mu.Unlock()

	call.token, call.err = s.doRefresh(ctx, accountID)
	close(call.done)

	s.mu.Lock()
	delete(s.inflight, accountID)
	s.mu.Unlock()

	return call.token, call.err
}

func (s *tokenVaultService) doRefresh(ctx context.Context, accountID string) (string, error) {
	cred, err := s.accountRepo.FindCredentialByAccountID(ctx, accountID)
	if err != nil {
		return "", apperrors.NewAuthExpiredError("no credential stored for account", err)
	}
	if cred.Invalid {
		return "", apperrors.NewAuthExpiredError("credential is invalid, re-authentication required", nil)
	}
	if cred.RefreshToken == "" {
		s.invalidate(ctx, accountID)
		return "", apperrors.NewAuthExpiredError("credential has no refresh token, re-authentication required", nil)
	}

	accessToken, expiresAt, newRefreshToken, err := s.refresh(ctx, cred.RefreshToken)
	if err != nil {
		s.LogWarn(ctx, "token refresh rejected by provider", "account_id", accountID)
		s.invalidate(ctx, accountID)
		return "", apperrors.NewAuthExpiredError("token refresh rejected, re-authentication required", err)
	}

	now := s.now()
	updated := domain.Credential{
		AccountID:    accountID,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken, // empty keeps the stored one
		ExpiresAt:    expiresAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     cred.CreatedAt,
			CreatedBy:     cred.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: cred.CreatedBy,
		},
	}
	if err := s.accountRepo.SaveCredential(ctx, updated); err != nil {
		return "", apperrors.NewInternalError("failed to persist refreshed credential", err)
	}
	s.LogDebug(ctx, "access token refreshed", "account_id", accountID)
	return accessToken, nil
}

func (s *tokenVaultService) invalidate(ctx context.Context, accountID string) {
	if err := s.accountRepo.MarkCredentialInvalid(ctx, accountID); err != nil {
		s.LogError(ctx, err, "failed to mark credential invalid", "account_id", accountID)
	}
}
