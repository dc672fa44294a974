package services

import (
	"context"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// ConnectResult is returned by a successful OAuth connect: the local user,
// the provider accounts persisted for them and an application session token.
type ConnectResult struct {
	User         domain.User      `json:"user"`
	Accounts     []domain.Account `json:"accounts"`
	SessionToken string           `json:"sessionToken"`
	ExpiresAt    time.Time        `json:"expiresAt"`
}

// ConnectSvcFacade runs the OAuth authorization-code flow: exchanges the code,
// validates the provider identity, persists user + accounts + credentials and
// issues the application session token.
type ConnectSvcFacade interface {
	// AuthorizationURL builds the provider consent URL the frontend should
	// redirect the user to, with a fresh anti-forgery state nonce. The
	// frontend stores the state and compares it on callback.
	AuthorizationURL(redirectURI string) (url string, state string, err error)

	// ConnectAccount exchanges the authorization code obtained by the
	// frontend at redirectURI and connects every provider account the
	// consenting identity owns.
	ConnectAccount(ctx context.Context, code string, redirectURI string) (*ConnectResult, error)
}
