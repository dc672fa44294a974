package services

import "context"

// TokenVaultSvc stores and refreshes OAuth credentials per connected account.
// Refresh for one account never blocks another.
type TokenVaultSvc interface {
	// GetValidAccessToken returns an access token usable right now,
	// refreshing it first when it is within the safety margin of expiry.
	// A failed refresh marks the credential invalid and surfaces
	// apperrors.KindAuthExpired; re-authentication is then required.
	GetValidAccessToken(ctx context.Context, accountID string) (string, error)

	// ForceRefresh discards the cached access token and refreshes
	// unconditionally. Used after the provider rejects a token that looked
	// valid locally.
	ForceRefresh(ctx context.Context, accountID string) (string, error)
}
