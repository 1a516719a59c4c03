package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/billing"
	"github.com/spec-kit/community-directory/internal/config"
	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/events"
	"github.com/spec-kit/community-directory/internal/repository"
)

// BillingDependencies bundles collaborators for the billing service.
type BillingDependencies struct {
	Gateway    billing.Gateway
	Users      repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// BillingService starts checkouts and applies provider webhooks to accounts.
// It never touches moderation state.
type BillingService struct {
	gateway    billing.Gateway
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	prices     map[domain.Tier]string
	publicURL  string
}

// NewBillingService constructs the service.
func NewBillingService(cfg config.Config, deps BillingDependencies) *BillingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{
		gateway:    deps.Gateway,
		users:      deps.Users,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		prices: map[domain.Tier]string{
			domain.TierGrowth:      cfg.Billing.PriceGrowth,
			domain.TierTownPartner: cfg.Billing.PriceTownPartner,
		},
		publicURL: cfg.App.PublicURL,
	}
}

// Checkout returns the hosted checkout URL for a paid plan, creating the
// provider customer on first use.
func (s *BillingService) Checkout(ctx context.Context, user *domain.User, plan string) (string, error) {
	tier := domain.TierFromPlan(plan)
	price := s.prices[tier]
	if !tier.Paid() || price == "" {
		return "", domain.NewValidationError("plan", "Choose the Growth or TownPartner plan.")
	}

	customerID := ""
	if user.StripeCustomerID != nil {
		customerID = *user.StripeCustomerID
	}
	if customerID == "" {
		created, err := s.gateway.CreateCustomer(ctx, user.Email, user.Name, user.ID)
		if err != nil {
			return "", err
		}
		if err := s.users.SetCustomerID(ctx, user.ID, created); err != nil {
			return "", err
		}
		customerID = created
	}

	return s.gateway.CreateCheckoutSession(ctx, billing.CheckoutRequest{
		CustomerID: customerID,
		PriceID:    price,
		UserID:     user.ID,
		Plan:       string(tier),
		SuccessURL: s.publicURL + "/account?checkout=success",
		CancelURL:  s.publicURL + "/pricing?checkout=cancelled",
	})
}

// Portal returns the self-service billing portal URL.
func (s *BillingService) Portal(ctx context.Context, user *domain.User) (string, error) {
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		return "", domain.NewFormError("There is no billing account for this user yet.")
	}
	return s.gateway.CreatePortalSession(ctx, *user.StripeCustomerID, s.publicURL+"/account")
}

// HandleWebhook verifies and applies a provider event. A bad signature is a
// validation error and changes nothing. Events for unknown accounts are
// acknowledged and logged so the provider stops retrying.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			return domain.NewFormError("Invalid webhook signature.")
		}
		return err
	}

	switch event.Type {
	case billing.EventCheckoutCompleted:
		return s.applyCheckout(ctx, event)
	case billing.EventSubscriptionUpdated, billing.EventSubscriptionDeleted:
		return s.applySubscription(ctx, event)
	default:
		s.logger.Debug("ignoring billing event", zap.String("event_id", event.ID), zap.String("type", event.Type))
		return nil
	}
}

func (s *BillingService) applyCheckout(ctx context.Context, event *billing.WebhookEvent) error {
	userID := event.Metadata["userId"]
	if userID == "" || event.CustomerID == "" {
		s.logger.Warn("checkout event without user or customer", zap.String("event_id", event.ID))
		return nil
	}

	tier := domain.TierFromPlan(event.Metadata["plan"])
	err := s.users.ApplyCheckout(ctx, userID, repository.CheckoutUpdate{
		CustomerID:     event.CustomerID,
		SubscriptionID: event.SubscriptionID,
		Status:         "active",
		Tier:           tier,
	})
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("checkout event for unknown user", zap.String("event_id", event.ID), zap.String("user_id", userID))
		return nil
	}
	if err != nil {
		return err
	}

	s.changed(ctx, &userID, event.CustomerID, "active", tier)
	return nil
}

func (s *BillingService) applySubscription(ctx context.Context, event *billing.WebhookEvent) error {
	if event.CustomerID == "" {
		s.logger.Warn("subscription event without customer", zap.String("event_id", event.ID))
		return nil
	}

	active := domain.SubscriptionActive(event.Status)
	found, err := s.users.ApplySubscriptionChange(ctx, event.CustomerID, repository.SubscriptionUpdate{
		SubscriptionID: event.SubscriptionID,
		Status:         event.Status,
		Active:         active,
	})
	if err != nil {
		return err
	}
	if !found {
		s.logger.Warn("subscription event for unknown customer",
			zap.String("event_id", event.ID), zap.String("customer_id", event.CustomerID))
		return nil
	}

	var tier domain.Tier
	if !active {
		tier = domain.TierFree
	}
	s.changed(ctx, nil, event.CustomerID, event.Status, tier)
	return nil
}

func (s *BillingService) changed(ctx context.Context, userID *string, customerID, status string, tier domain.Tier) {
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventSubscriptionChange,
		Kind:      "user",
		SubjectID: customerID,
		Actor:     events.Actor{UserID: userID},
		Payload: events.SubscriptionChangedPayload{
			CustomerID: customerID,
			Status:     status,
			Tier:       tier,
		},
	})
}
