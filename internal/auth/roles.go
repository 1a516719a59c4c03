package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/community-directory/pkg/util/errorutil"
)

// RequireUser ensures a signed-in account.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("sign in required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures a signed-in Admin. Anonymous callers get 401, members 403.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("sign in required")
		}
		if !principal.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
