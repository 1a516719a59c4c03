package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-directory/internal/api/dto"
	"github.com/spec-kit/community-directory/internal/auth"
	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/service"
)

// SubmissionsHandler accepts public forms and owner requests.
type SubmissionsHandler struct {
	service *service.SubmissionService
}

// NewSubmissionsHandler constructs handler.
func NewSubmissionsHandler(submissionService *service.SubmissionService) *SubmissionsHandler {
	return &SubmissionsHandler{service: submissionService}
}

// SubmitListing POST /submissions/listings.
func (h *SubmissionsHandler) SubmitListing(c *fiber.Ctx) error {
	var req service.ListingRequestInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	record, err := h.service.SubmitListing(c.UserContext(), auth.UserIDFromContext(c), req)
	if err != nil {
		return err
	}
	return accepted(c, record.ID, domain.KindBusinessListing)
}

// SubmitJob POST /submissions/jobs.
func (h *SubmissionsHandler) SubmitJob(c *fiber.Ctx) error {
	var req service.JobInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	record, err := h.service.SubmitJob(c.UserContext(), auth.UserIDFromContext(c), req)
	if err != nil {
		return err
	}
	return accepted(c, record.ID, domain.KindJob)
}

// SubmitEvent POST /submissions/events.
func (h *SubmissionsHandler) SubmitEvent(c *fiber.Ctx) error {
	var req service.EventInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	record, err := h.service.SubmitEvent(c.UserContext(), auth.UserIDFromContext(c), req)
	if err != nil {
		return err
	}
	return accepted(c, record.ID, domain.KindEvent)
}

// SubmitNews POST /submissions/news.
func (h *SubmissionsHandler) SubmitNews(c *fiber.Ctx) error {
	var req service.NewsInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	record, err := h.service.SubmitNews(c.UserContext(), auth.UserIDFromContext(c), req)
	if err != nil {
		return err
	}
	return accepted(c, record.ID, domain.KindNews)
}

// SubmitCharity POST /submissions/charities.
func (h *SubmissionsHandler) SubmitCharity(c *fiber.Ctx) error {
	var req service.CharityInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	record, err := h.service.SubmitCharity(c.UserContext(), auth.UserIDFromContext(c), req)
	if err != nil {
		return err
	}
	return accepted(c, record.ID, domain.KindCharity)
}

// Claim POST /businesses/:id/claims.
func (h *SubmissionsHandler) Claim(c *fiber.Ctx) error {
	user, err := principalUser(c)
	if err != nil {
		return err
	}
	var req service.ClaimInput
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	record, err := h.service.Claim(c.UserContext(), user.ID, c.Params("id"), req)
	if err != nil {
		return err
	}
	return accepted(c, record.ID, domain.KindBusinessClaim)
}

// RequestEdit POST /my/listings/:id/edit-requests.
func (h *SubmissionsHandler) RequestEdit(c *fiber.Ctx) error {
	user, err := principalUser(c)
	if err != nil {
		return err
	}
	var req service.EditRequestInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	record, err := h.service.RequestEdit(c.UserContext(), user.ID, c.Params("id"), req)
	if err != nil {
		return err
	}
	return accepted(c, record.ID, domain.KindBusinessEdit)
}

// PlanInterest POST /plan-interest.
func (h *SubmissionsHandler) PlanInterest(c *fiber.Ctx) error {
	var req service.PlanInterestInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	record, err := h.service.RegisterPlanInterest(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": record.ID}})
}

func accepted(c *fiber.Ctx, id string, kind domain.RecordKind) error {
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SubmissionAccepted{
		ID:     id,
		Kind:   kind,
		Status: domain.StatusPending,
	}})
}
