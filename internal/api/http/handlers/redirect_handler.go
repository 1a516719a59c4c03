package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-directory/internal/service"
)

// RedirectHandler resolves tracked outbound links.
type RedirectHandler struct {
	interactions *service.InteractionService
}

// NewRedirectHandler constructs handler.
func NewRedirectHandler(interactions *service.InteractionService) *RedirectHandler {
	return &RedirectHandler{interactions: interactions}
}

// Go GET /go/:kind/:id?to=...&type=...
func (h *RedirectHandler) Go(c *fiber.Ctx) error {
	kind, ok := service.ParseEntityKind(c.Params("kind"))
	if !ok {
		return c.Redirect("/", http.StatusFound)
	}
	location := h.interactions.Redirect(c.UserContext(), kind, c.Params("id"), c.Query("to"), c.Query("type"))
	return c.Redirect(location, http.StatusFound)
}
