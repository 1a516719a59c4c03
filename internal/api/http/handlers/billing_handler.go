package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-directory/internal/api/dto"
	"github.com/spec-kit/community-directory/internal/service"
)

const stripeSignatureHeader = "Stripe-Signature"

// BillingHandler exposes checkout, portal and the provider webhook.
type BillingHandler struct {
	billing *service.BillingService
}

// NewBillingHandler constructs handler.
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billing: billingService}
}

// Checkout POST /billing/checkout.
func (h *BillingHandler) Checkout(c *fiber.Ctx) error {
	user, err := principalUser(c)
	if err != nil {
		return err
	}
	var req dto.PlanRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	url, err := h.billing.Checkout(c.UserContext(), user, req.Plan)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RedirectURLResponse{URL: url}})
}

// Portal POST /billing/portal.
func (h *BillingHandler) Portal(c *fiber.Ctx) error {
	user, err := principalUser(c)
	if err != nil {
		return err
	}
	url, err := h.billing.Portal(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RedirectURLResponse{URL: url}})
}

// Webhook POST /billing/webhook. The raw body is required for signature checks.
func (h *BillingHandler) Webhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)
	if err := h.billing.HandleWebhook(c.UserContext(), payload, c.Get(stripeSignatureHeader)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"received": true})
}
