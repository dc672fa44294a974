package domain

import "time"

// AuthProvider identifies the external identity provider a user signed in with.
type AuthProvider string

const (
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a local business owner. Users are created on the first
// successful OAuth exchange and are the owners of connected provider accounts.
type User struct {
	UserID         string       `json:"userID"` // Primary Key (UUID)
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID string       `json:"providerUserID"` // Google's 'sub' claim
	EmailVerified  bool         `json:"emailVerified"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// GoogleUserInfo mirrors the identity claims extracted from a validated
// Google ID token during the connect flow.
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}
