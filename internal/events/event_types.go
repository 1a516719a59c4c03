package events

import (
	"time"

	"github.com/spec-kit/community-directory/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionReceived EventType = "submission_received"
	EventSubmissionApproved EventType = "submission_approved"
	EventSubmissionRejected EventType = "submission_rejected"
	EventPasswordReset      EventType = "password_reset_requested"
	EventSubscriptionChange EventType = "subscription_changed"
	EventModerationDigest   EventType = "moderation_digest"
)

// Actor identifies who triggered the event. UserID is nil for anonymous callers.
type Actor struct {
	UserID *string `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Kind      string      `json:"kind"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SubmissionReceivedPayload payload.
type SubmissionReceivedPayload struct {
	Title        string `json:"title"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// SubmissionDecidedPayload is shared by approvals and rejections.
type SubmissionDecidedPayload struct {
	Status domain.ModerationStatus `json:"status"`
	// PublishedID is the catalog row created or updated by an approval.
	PublishedID *string `json:"published_id,omitempty"`
}

// PasswordResetPayload carries the reset link for the email stub.
type PasswordResetPayload struct {
	Email     string    `json:"email"`
	ResetURL  string    `json:"reset_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SubscriptionChangedPayload payload.
type SubscriptionChangedPayload struct {
	CustomerID string      `json:"customer_id"`
	Status     string      `json:"status"`
	Tier       domain.Tier `json:"tier,omitempty"`
}
