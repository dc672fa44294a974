package models

import "time"

// Account represents a row in the accounts table.
type Account struct {
	AccountID    string `db:"account_id"`
	UserID       string `db:"user_id"`
	ResourceName string `db:"resource_name"`
	DisplayName  string `db:"display_name"`
	Role         string `db:"role"`
	AuditFields
}

// Credential represents a row in the credentials table. One row per account.
type Credential struct {
	AccountID    string    `db:"account_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
	Invalid      bool      `db:"invalid"`
	AuditFields
}
