package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-directory/internal/api/dto"
	"github.com/spec-kit/community-directory/internal/auth"
	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/service"
	apperrors "github.com/spec-kit/community-directory/pkg/util/errorutil"
)

// CookieSettings controls how the session cookie is written.
type CookieSettings struct {
	Name   string
	Secure bool
}

// AuthHandler exposes account endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	cookie CookieSettings
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req service.SignupInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, session, err := h.auth.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, session)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, session, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, session)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Session != nil {
		if err := h.auth.EndSession(c.UserContext(), principal.Session.ID); err != nil {
			return err
		}
	} else if err := h.auth.Logout(c.UserContext(), c.Cookies(h.cookie.Name)); err != nil {
		return err
	}
	h.clearSessionCookie(c)
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign in required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.ResetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.auth.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	resp := dto.ResetTicketResponse{ResetToken: ticket.Token}
	if ticket.Token != "" {
		resp.ExpiresAt = &ticket.ExpiresAt
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": resp})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req service.ResetConfirmInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req); err != nil {
		return err
	}
	h.clearSessionCookie(c)
	return c.SendStatus(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, session *service.IssuedSession) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func principalUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("sign in required")
	}
	return principal.User, nil
}
