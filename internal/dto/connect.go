package dto

import (
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
)

// AuthURLRequest asks for a provider consent URL for the given redirect.
type AuthURLRequest struct {
	RedirectURI string `form:"redirectUri" binding:"required,url"`
}

// AuthURLResponse carries the consent URL and the anti-forgery state the
// frontend must verify on callback.
type AuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// ConnectRequest carries the authorization code obtained by the frontend.
type ConnectRequest struct {
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirectUri" binding:"required,url"`
}

// UserResponse is the public shape of a user.
type UserResponse struct {
	UserID        string    `json:"userID"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AccountResponse is the public shape of a connected provider account.
type AccountResponse struct {
	AccountID    string    `json:"accountID"`
	ResourceName string    `json:"resourceName"`
	DisplayName  string    `json:"displayName"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ConnectResponse is returned by a successful OAuth connect.
type ConnectResponse struct {
	User         UserResponse      `json:"user"`
	Accounts     []AccountResponse `json:"accounts"`
	SessionToken string            `json:"sessionToken"`
	ExpiresAt    time.Time         `json:"expiresAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:        user.UserID,
		Name:          user.Name,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
	}
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    account.AccountID,
		ResourceName: account.ResourceName,
		DisplayName:  account.DisplayName,
		Role:         account.Role,
		CreatedAt:    account.CreatedAt,
	}
}

// ToConnectResponse converts a connect result to its response DTO
func ToConnectResponse(result *portssvc.ConnectResult) ConnectResponse {
	accounts := make([]AccountResponse, len(result.Accounts))
	for i := range result.Accounts {
		accounts[i] = ToAccountResponse(&result.Accounts[i])
	}
	return ConnectResponse{
		User:         ToUserResponse(&result.User),
		Accounts:     accounts,
		SessionToken: result.SessionToken,
		ExpiresAt:    result.ExpiresAt,
	}
}
