package domain

import "time"

// Business is a published directory listing.
type Business struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Summary     string    `db:"summary"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	Phone       *string   `db:"phone"`
	Email       *string   `db:"email"`
	Website     *string   `db:"website"`
	Address     string    `db:"address"`
	Postcode    string    `db:"postcode"`
	Area        string    `db:"area"`
	Verified    bool      `db:"verified"`
	OwnerUserID *string   `db:"owner_user_id"`
	OwnerTier   Tier      `db:"owner_tier"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Featured reports whether the listing is promoted by its owner's plan.
func (b *Business) Featured() bool {
	return b.OwnerTier.Paid()
}

// BusinessListingRequest asks for a new business to be listed.
type BusinessListingRequest struct {
	ID                string           `db:"id"`
	BusinessName      string           `db:"business_name"`
	ContactName       string           `db:"contact_name"`
	ContactEmail      string           `db:"contact_email"`
	ContactPhone      *string          `db:"contact_phone"`
	Website           *string          `db:"website"`
	Category          string           `db:"category"`
	Area              string           `db:"area"`
	Description       string           `db:"description"`
	PreferredCallTime *string          `db:"preferred_call_time"`
	RequesterUserID   *string          `db:"requester_user_id"`
	Status            ModerationStatus `db:"status"`
	CreatedAt         time.Time        `db:"created_at"`
}

func (r BusinessListingRequest) RecordID() string                   { return r.ID }
func (r BusinessListingRequest) ModerationStatus() ModerationStatus { return r.Status }

// BusinessEditRequest carries owner proposed changes to an existing listing.
type BusinessEditRequest struct {
	ID          string           `db:"id"`
	BusinessID  string           `db:"business_id"`
	OwnerUserID string           `db:"owner_user_id"`
	Name        string           `db:"name"`
	Summary     string           `db:"summary"`
	Description string           `db:"description"`
	Category    string           `db:"category"`
	Phone       *string          `db:"phone"`
	Email       *string          `db:"email"`
	Website     *string          `db:"website"`
	Address     string           `db:"address"`
	Postcode    string           `db:"postcode"`
	Area        string           `db:"area"`
	Status      ModerationStatus `db:"status"`
	CreatedAt   time.Time        `db:"created_at"`
}

func (r BusinessEditRequest) RecordID() string                   { return r.ID }
func (r BusinessEditRequest) ModerationStatus() ModerationStatus { return r.Status }

// BusinessClaimRequest asks for ownership of an existing listing.
type BusinessClaimRequest struct {
	ID         string           `db:"id"`
	BusinessID string           `db:"business_id"`
	UserID     string           `db:"user_id"`
	Note       *string          `db:"note"`
	Status     ModerationStatus `db:"status"`
	CreatedAt  time.Time        `db:"created_at"`
}

func (r BusinessClaimRequest) RecordID() string                   { return r.ID }
func (r BusinessClaimRequest) ModerationStatus() ModerationStatus { return r.Status }

// BusinessEdit is the set of mutable listing fields applied by an approved edit.
type BusinessEdit struct {
	Name        string
	Summary     string
	Description string
	Category    string
	Phone       *string
	Email       *string
	Website     *string
	Address     string
	Postcode    string
	Area        string
}

// PlanInterest records a prospective customer asking about a plan.
type PlanInterest struct {
	ID           string    `db:"id"`
	Plan         string    `db:"plan"`
	Company      string    `db:"company"`
	ContactName  string    `db:"contact_name"`
	ContactEmail string    `db:"contact_email"`
	Notes        *string   `db:"notes"`
	CreatedAt    time.Time `db:"created_at"`
}
