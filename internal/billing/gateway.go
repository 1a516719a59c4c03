// Package billing wraps the payment provider behind a small interface so the
// rest of the service never imports the provider SDK.
package billing

import (
	"context"
	"errors"
)

// ErrInvalidSignature is returned when a webhook payload fails verification.
var ErrInvalidSignature = errors.New("billing: invalid webhook signature")

// Webhook event types handled by the service.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// CheckoutRequest describes a subscription checkout.
type CheckoutRequest struct {
	CustomerID string
	PriceID    string
	UserID     string
	Plan       string
	SuccessURL string
	CancelURL  string
}

// WebhookEvent is the provider neutral view of a verified webhook.
type WebhookEvent struct {
	ID   string
	Type string
	// Set for checkout completions.
	Metadata map[string]string
	// Set for checkout completions and subscription changes.
	CustomerID     string
	SubscriptionID string
	Status         string
}

// Gateway is the payment collaborator. It is built once at startup.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, name, userID string) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	ParseWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
