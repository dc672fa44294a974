package models

import "time"

// User represents a row in the users table.
type User struct {
	UserID         string `db:"user_id"`
	Name           string `db:"name"`
	Email          string `db:"email"`
	AuthProvider   string `db:"auth_provider"`
	ProviderUserID string `db:"provider_user_id"`
	EmailVerified  bool   `db:"email_verified"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
