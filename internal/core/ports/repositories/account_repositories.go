package repositories

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// AccountReader defines read operations for connected provider accounts.
type AccountReader interface {
	// FindAccountByID retrieves a connected account by its local id.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByUser retrieves every account connected by the given user.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for connected provider accounts.
type AccountWriter interface {
	// UpsertAccount persists an account keyed by (user_id, resource_name);
	// re-connecting the same provider account updates the display fields.
	UpsertAccount(ctx context.Context, account domain.Account) (*domain.Account, error)
}

// CredentialReader defines read operations for OAuth credentials.
type CredentialReader interface {
	// FindCredentialByAccountID retrieves the credential for an account.
	FindCredentialByAccountID(ctx context.Context, accountID string) (*domain.Credential, error)
}

// CredentialWriter defines write operations for OAuth credentials.
type CredentialWriter interface {
	// SaveCredential inserts or atomically replaces the token pair of an account.
	SaveCredential(ctx context.Context, cred domain.Credential) error

	// MarkCredentialInvalid flags a credential whose refresh was rejected;
	// only a new consent flow can recover it.
	MarkCredentialInvalid(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	CredentialReader
	CredentialWriter
}
