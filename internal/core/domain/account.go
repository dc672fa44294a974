package domain

import "time"

// Account is a provider-side business profile owner entity. One user may have
// several; each is created on the first successful OAuth exchange and is never
// mutated afterwards except through credential refresh metadata.
type Account struct {
	AccountID    string `json:"accountID"`    // Primary Key (UUID)
	UserID       string `json:"userID"`       // FK -> users.user_id, the local owner
	ResourceName string `json:"resourceName"` // Provider-assigned name, e.g. "accounts/1234567890"
	DisplayName  string `json:"displayName"`
	Role         string `json:"role"` // Ownership role reported by the provider (OWNER, MANAGER, ...)
	AuditFields
}

// Credential is the OAuth token pair authorising provider calls for one
// Account. ExpiresAt must be checked before every provider call; an expired
// credential without a refresh token is terminally invalid.
type Credential struct {
	AccountID    string    `json:"accountID"` // Same lifetime as the Account
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"` // Optional; empty means re-consent is the only recovery
	ExpiresAt    time.Time `json:"expiresAt"`
	Invalid      bool      `json:"invalid"` // Set once a refresh is rejected by the provider
	AuditFields
}

// Valid reports whether the access token can still be used at instant now,
// keeping the given safety margin before the actual expiry.
func (c Credential) Valid(now time.Time, margin time.Duration) bool {
	return !c.Invalid && c.AccessToken != "" && now.Add(margin).Before(c.ExpiresAt)
}
