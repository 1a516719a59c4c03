package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-directory/internal/api/dto"
	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/service"
	apperrors "github.com/spec-kit/community-directory/pkg/util/errorutil"
)

const queuePreviewLimit = 50

// ModerationHandler exposes the admin review surface. Routes are mounted
// behind the admin guard.
type ModerationHandler struct {
	moderation *service.ModerationService
	catalog    *service.CatalogService
}

// NewModerationHandler constructs handler.
func NewModerationHandler(moderation *service.ModerationService, catalog *service.CatalogService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation, catalog: catalog}
}

// Queues GET /admin/moderation.
func (h *ModerationHandler) Queues(c *fiber.Ctx) error {
	queues, err := h.moderation.PendingQueues(c.UserContext(), parseInt(c.Query("limit"), queuePreviewLimit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": queues, "meta": fiber.Map{"total": queues.Total()}})
}

// Approve POST /admin/moderation/:kind/:id/approve.
func (h *ModerationHandler) Approve(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}
	result, err := h.moderation.Approve(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Reject POST /admin/moderation/:kind/:id/reject.
func (h *ModerationHandler) Reject(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}
	result, err := h.moderation.Reject(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// FeatureJob PUT /admin/jobs/:id/featured.
func (h *ModerationHandler) FeatureJob(c *fiber.Ctx) error {
	return h.setFeatured(c, domain.EntityJob)
}

// FeatureEvent PUT /admin/events/:id/featured.
func (h *ModerationHandler) FeatureEvent(c *fiber.Ctx) error {
	return h.setFeatured(c, domain.EntityEvent)
}

// SetVerified PUT /admin/businesses/:id/verified.
func (h *ModerationHandler) SetVerified(c *fiber.Ctx) error {
	value, err := parseFlag(c)
	if err != nil {
		return err
	}
	if err := h.moderation.SetVerified(c.UserContext(), c.Params("id"), value); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "verified": value}})
}

// Clients GET /admin/clients.
func (h *ModerationHandler) Clients(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	users, err := h.catalog.ListClients(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.ClientResponse{
			UserResponse: dto.NewUserResponse(&users[i]),
			HasCustomer:  users[i].StripeCustomerID != nil,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *ModerationHandler) setFeatured(c *fiber.Ctx, kind domain.EntityKind) error {
	value, err := parseFlag(c)
	if err != nil {
		return err
	}
	if err := h.moderation.SetFeatured(c.UserContext(), kind, c.Params("id"), value); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "featured": value}})
}

func parseKind(c *fiber.Ctx) (domain.RecordKind, error) {
	kind, err := domain.ParseRecordKind(c.Params("kind"))
	if err != nil {
		return "", apperrors.NewBadRequest(err.Error())
	}
	return kind, nil
}

func parseFlag(c *fiber.Ctx) (bool, error) {
	var req dto.FlagRequest
	if err := parseBody(c, &req); err != nil {
		return false, err
	}
	if req.Value == nil {
		return false, apperrors.NewValidationError("value is required", map[string]any{
			"fields": map[string][]string{"value": {"This field is required."}},
		})
	}
	return *req.Value, nil
}
