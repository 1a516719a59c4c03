package dto

import (
	"time"

	"github.com/spec-kit/community-directory/internal/domain"
)

// ResetRequest payload for initiating a password reset.
type ResetRequest struct {
	Email string `json:"email"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ResetTicketResponse is returned by the reset request endpoint. The token is
// empty for unknown emails.
type ResetTicketResponse struct {
	ResetToken string     `json:"resetToken,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Email              string      `json:"email"`
	Role               domain.Role `json:"role"`
	Tier               domain.Tier `json:"tier"`
	SubscriptionStatus *string     `json:"subscriptionStatus,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
}

// NewUserResponse maps a user, dropping credential and billing identifiers.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role,
		Tier:               user.Tier,
		SubscriptionStatus: user.SubscriptionStatus,
		CreatedAt:          user.CreatedAt,
	}
}

// ClientResponse extends the user view with billing linkage for admins.
type ClientResponse struct {
	UserResponse
	HasCustomer bool `json:"hasCustomer"`
}

// PlanRequest selects a paid plan at checkout.
type PlanRequest struct {
	Plan string `json:"plan"`
}

// RedirectURLResponse carries a hosted page the client should open.
type RedirectURLResponse struct {
	URL string `json:"url"`
}
