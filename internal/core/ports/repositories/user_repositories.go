package repositories

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a user by its local id.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByProviderID retrieves a user by identity provider and the
	// provider's stable subject id.
	FindUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user or updates the mutable profile fields.
	SaveUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
