package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/repository"
	apperrors "github.com/spec-kit/community-directory/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User    *domain.User
	Session *domain.Session
}

// IsAdmin reports whether the caller may use admin surfaces.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.User.IsAdmin()
}

// SessionMiddleware resolves the session cookie or bearer token into a Principal.
// Requests without a valid session continue anonymously; the Require* guards
// decide whether that is acceptable.
type SessionMiddleware struct {
	cookieName string
	sessions   repository.SessionRepository
	users      repository.UserRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(cookieName string, sessions repository.SessionRepository, users repository.UserRepository, logger *zap.Logger) *SessionMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionMiddleware{
		cookieName: cookieName,
		sessions:   sessions,
		users:      users,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle loads the principal when a token is present.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	raw := m.tokenFrom(c)
	if raw == "" {
		return c.Next()
	}

	ctx := c.UserContext()
	session, err := m.sessions.GetByTokenHash(ctx, HashSessionToken(raw))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Next()
		}
		return apperrors.MapError(err)
	}

	if session.Expired(m.now()) {
		if err := m.sessions.Delete(ctx, session.ID); err != nil {
			m.logger.Warn("failed to delete expired session", zap.String("session_id", session.ID), zap.Error(err))
		}
		return c.Next()
	}

	user, err := m.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Next()
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user, Session: session})
	return c.Next()
}

func (m *SessionMiddleware) tokenFrom(c *fiber.Ctx) string {
	if cookie := c.Cookies(m.cookieName); cookie != "" {
		return cookie
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil && principal.User != nil
}

// UserIDFromContext returns the caller's user id, or nil for anonymous requests.
func UserIDFromContext(c *fiber.Ctx) *string {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return nil
	}
	id := principal.User.ID
	return &id
}
