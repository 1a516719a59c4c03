package domain

import "time"

// Role grants access to admin surfaces.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

// Tier is the subscription level that drives featuring.
type Tier string

const (
	TierFree        Tier = "Free"
	TierGrowth      Tier = "Growth"
	TierTownPartner Tier = "TownPartner"
)

// TierFromPlan maps a checkout plan name onto a tier. Unknown plans fall back to Free.
func TierFromPlan(plan string) Tier {
	switch Tier(plan) {
	case TierGrowth:
		return TierGrowth
	case TierTownPartner:
		return TierTownPartner
	default:
		return TierFree
	}
}

// Paid reports whether the tier unlocks featuring.
func (t Tier) Paid() bool {
	return t != "" && t != TierFree
}

// SubscriptionActive reports whether a billing status keeps a paid tier.
func SubscriptionActive(status string) bool {
	return status == "active" || status == "trialing"
}

// User is an account holder. Businesses point back at users through OwnerUserID.
type User struct {
	ID                   string    `db:"id"`
	Name                 string    `db:"name"`
	Email                string    `db:"email"`
	PasswordHash         string    `db:"password_hash"`
	Role                 Role      `db:"role"`
	Tier                 Tier      `db:"tier"`
	StripeCustomerID     *string   `db:"stripe_customer_id"`
	StripeSubscriptionID *string   `db:"stripe_subscription_id"`
	SubscriptionStatus   *string   `db:"subscription_status"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// IsAdmin reports whether the user holds the Admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session is a persisted login. Only the token hash is stored.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its absolute expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
