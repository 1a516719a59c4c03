package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/auth"
	"github.com/spec-kit/community-directory/internal/config"
	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/events"
	"github.com/spec-kit/community-directory/internal/repository"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)

// SignupInput is the account creation payload.
type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=200"`
}

// LoginInput is the sign-in payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResetConfirmInput completes a password reset.
type ResetConfirmInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=200"`
}

// IssuedSession is returned to the client once; only its hash is stored.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

// ResetTicket is the outcome of a reset request. Token is empty when the email
// is unknown so callers cannot probe for accounts.
type ResetTicket struct {
	Token     string
	ExpiresAt time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// AuthService coordinates sign-up, sign-in, sessions and password resets.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	scryptN    int
	sessionTTL time.Duration
	publicURL  string
	now        func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.ResetTokenSecret, cfg.Auth.PasswordResetTTL()),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		scryptN:    cfg.Auth.ScryptN,
		sessionTTL: cfg.Auth.SessionTTL(),
		publicURL:  cfg.App.PublicURL,
		now:        time.Now,
	}
}

// Signup creates a Member account on the Free tier and signs it in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, *IssuedSession, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.scryptN)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleMember,
		Tier:         domain.TierFree,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, nil, domain.NewValidationError("email", "An account with this email already exists.")
		}
		return nil, nil, err
	}

	session, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Login verifies credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.User, *IssuedSession, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	ok, err := auth.ComparePassword(user.PasswordHash, in.Password, s.scryptN)
	if err != nil {
		s.logger.Warn("stored password hash unreadable", zap.String("user_id", user.ID), zap.Error(err))
		return nil, nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout deletes the session behind the raw token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return s.sessions.DeleteByTokenHash(ctx, auth.HashSessionToken(rawToken))
}

// EndSession deletes one session by id.
func (s *AuthService) EndSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// RequestPasswordReset issues a reset token for a known email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*ResetTicket, error) {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, domain.NewValidationError("email", "Enter a valid email address.")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return &ResetTicket{}, nil
	}
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokenMgr.GenerateResetToken(user.ID, user.PasswordHash)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventPasswordReset,
		Kind:      "user",
		SubjectID: user.ID,
		Actor:     events.Actor{UserID: &user.ID},
		Payload: events.PasswordResetPayload{
			Email:     user.Email,
			ResetURL:  s.publicURL + "/reset-password?token=" + url.QueryEscape(token),
			ExpiresAt: expiresAt,
		},
	})
	return &ResetTicket{Token: token, ExpiresAt: expiresAt}, nil
}

// ConfirmPasswordReset sets a new password and signs the user out everywhere.
// The token stops working once the password changes.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, in ResetConfirmInput) error {
	in.Token = strings.TrimSpace(in.Token)
	if err := validateStruct(in); err != nil {
		return err
	}

	claims, err := s.tokenMgr.ParseResetToken(in.Token)
	if err != nil {
		return domain.NewValidationError("token", "This reset link is invalid or has expired.")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("token", "This reset link is invalid or has expired.")
	}
	if err != nil {
		return err
	}
	if !claims.Matches(user.PasswordHash) {
		return domain.NewValidationError("token", "This reset link is invalid or has expired.")
	}

	hash, err := auth.HashPassword(in.Password, s.scryptN)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	return s.sessions.DeleteByUser(ctx, user.ID)
}

// SessionTTL is the absolute lifetime applied to new sessions.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *AuthService) startSession(ctx context.Context, userID string) (*IssuedSession, error) {
	raw, hash, err := auth.NewSessionToken()
	if err != nil {
		return nil, err
	}
	session := &domain.Session{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return &IssuedSession{Token: raw, ExpiresAt: session.ExpiresAt}, nil
}
