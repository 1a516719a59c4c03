package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/api/http/handlers"
	"github.com/spec-kit/community-directory/internal/auth"
	"github.com/spec-kit/community-directory/internal/billing"
	"github.com/spec-kit/community-directory/internal/config"
	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/observability"
	"github.com/spec-kit/community-directory/internal/repository"
	"github.com/spec-kit/community-directory/internal/service"
)

const (
	testCookie        = "directory_session"
	testWebhookSecret = "whsec_router"
)

type stubSessions struct {
	repository.SessionRepository
	byHash map[string]domain.Session
}

func (s *stubSessions) GetByTokenHash(_ context.Context, hash string) (*domain.Session, error) {
	session, ok := s.byHash[hash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

type stubUsers struct {
	repository.UserRepository
	byID map[string]domain.User
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

type stubInteractions struct {
	mu       sync.Mutex
	recorded []domain.Interaction
}

func (s *stubInteractions) Record(_ context.Context, interaction *domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, *interaction)
	return nil
}

func (s *stubInteractions) CountByEntity(context.Context, domain.EntityKind, string) (map[domain.InteractionKind]int64, error) {
	return nil, nil
}

type stubRates struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (s *stubRates) IncrementWindow(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], window / 2, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type routerFixture struct {
	app          *fiber.App
	interactions *stubInteractions
	tokens       map[domain.Role]string
}

// newRouterFixture mounts the full route table. Service dependencies that a
// test never reaches are left nil.
func newRouterFixture(t *testing.T, redis pinger) *routerFixture {
	t.Helper()

	sessions := &stubSessions{byHash: map[string]domain.Session{}}
	users := &stubUsers{byID: map[string]domain.User{}}
	tokens := map[domain.Role]string{}
	for _, role := range []domain.Role{domain.RoleMember, domain.RoleAdmin} {
		token, hash, err := auth.NewSessionToken()
		require.NoError(t, err)
		user := domain.User{ID: uuid.NewString(), Name: string(role), Email: strings.ToLower(string(role)) + "@example.com", Role: role, Tier: domain.TierFree}
		users.byID[user.ID] = user
		sessions.byHash[hash] = domain.Session{
			ID: uuid.NewString(), UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour),
		}
		tokens[role] = token
	}

	cfg := config.Config{
		App:       config.AppConfig{PublicURL: "https://hub.example"},
		Auth:      config.AuthConfig{SessionTTLDays: 14, ScryptN: 1024, ResetTokenSecret: "secret"},
		RateLimit: config.RateLimitConfig{Enabled: true, Submissions: 2, Logins: 5, WindowSeconds: 60},
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	interactions := &stubInteractions{}
	interactionService := service.NewInteractionService(interactions, metrics, logger)
	catalog := service.NewCatalogService(service.CatalogDependencies{Interactions: interactionService})
	moderation := service.NewModerationService(service.ModerationDependencies{Metrics: metrics, Logger: logger})
	submissions := service.NewSubmissionService(service.SubmissionDependencies{Logger: logger})
	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users, SessionRepo: sessions})
	billingService := service.NewBillingService(cfg, service.BillingDependencies{
		Gateway: billing.NewStripeGateway("", testWebhookSecret),
		Users:   users,
		Logger:  logger,
	})
	limiter := service.NewRateLimiter(cfg.RateLimit, &stubRates{counts: map[string]int64{}}, metrics, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("directory", "test", pinger{}, redis),
		Auth:           handlers.NewAuthHandler(authService, handlers.CookieSettings{Name: testCookie}),
		Submissions:    handlers.NewSubmissionsHandler(submissions),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Redirects:      handlers.NewRedirectHandler(interactionService),
		Moderation:     handlers.NewModerationHandler(moderation, catalog),
		Billing:        handlers.NewBillingHandler(billingService),
		AuthMiddleware: auth.NewSessionMiddleware(testCookie, sessions, users, logger),
		RateLimiter:    limiter,
		Metrics:        metrics,
	})

	return &routerFixture{app: app, interactions: interactions, tokens: tokens}
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, body io.Reader) errorBody {
	t.Helper()
	var out errorBody
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func (f *routerFixture) do(t *testing.T, method, path, body string, role domain.Role) (int, string, map[string]string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token, ok := f.tokens[role]; ok {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	headers := map[string]string{
		fiber.HeaderLocation:   resp.Header.Get(fiber.HeaderLocation),
		fiber.HeaderRetryAfter: resp.Header.Get(fiber.HeaderRetryAfter),
	}
	return resp.StatusCode, string(raw), headers
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	f := newRouterFixture(t, pinger{})
	id := uuid.NewString()

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{fiber.MethodGet, "/admin/moderation", ""},
		{fiber.MethodPost, "/admin/moderation/business-listing/" + id + "/approve", ""},
		{fiber.MethodPost, "/admin/moderation/job/" + id + "/reject", ""},
		{fiber.MethodPut, "/admin/jobs/" + id + "/featured", `{"value":true}`},
		{fiber.MethodPut, "/admin/events/" + id + "/featured", `{"value":true}`},
		{fiber.MethodPut, "/admin/businesses/" + id + "/verified", `{"value":true}`},
		{fiber.MethodGet, "/admin/clients", ""},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			status, body, _ := f.do(t, route.method, route.path, route.body, "")
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, "UNAUTHORIZED", decodeError(t, strings.NewReader(body)).Error.Code)

			status, body, _ = f.do(t, route.method, route.path, route.body, domain.RoleMember)
			assert.Equal(t, fiber.StatusForbidden, status)
			assert.Equal(t, "FORBIDDEN", decodeError(t, strings.NewReader(body)).Error.Code)
		})
	}
}

func TestAdminModerationRejectsBadInput(t *testing.T) {
	f := newRouterFixture(t, pinger{})

	status, body, _ := f.do(t, fiber.MethodPost, "/admin/moderation/business-listing/not-a-uuid/approve", "", domain.RoleAdmin)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ID", decodeError(t, strings.NewReader(body)).Error.Code)

	status, _, _ = f.do(t, fiber.MethodPost, "/admin/moderation/coupon/"+uuid.NewString()+"/approve", "", domain.RoleAdmin)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body, _ = f.do(t, fiber.MethodPut, "/admin/jobs/"+uuid.NewString()+"/featured", `{}`, domain.RoleAdmin)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, strings.NewReader(body)).Error.Code)
}

func TestMemberRoutesRequireSession(t *testing.T) {
	f := newRouterFixture(t, pinger{})

	for _, path := range []string{"/auth/me", "/my/listings"} {
		status, _, _ := f.do(t, fiber.MethodGet, path, "", "")
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
	}
	status, _, _ := f.do(t, fiber.MethodPost, "/billing/checkout", `{"plan":"Growth"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body, _ := f.do(t, fiber.MethodGet, "/auth/me", "", domain.RoleMember)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "member@example.com")
}

func TestRedirects(t *testing.T) {
	f := newRouterFixture(t, pinger{})
	id := uuid.NewString()

	status, _, headers := f.do(t, fiber.MethodGet, "/go/business/"+id+"?to=https%3A%2F%2Fcafe.example&type=website", "", "")
	assert.Equal(t, fiber.StatusFound, status)
	assert.Equal(t, "https://cafe.example", headers[fiber.HeaderLocation])

	status, _, headers = f.do(t, fiber.MethodGet, "/go/job/"+id+"?to=javascript%3Aalert(1)", "", "")
	assert.Equal(t, fiber.StatusFound, status)
	assert.Equal(t, "/jobs", headers[fiber.HeaderLocation])

	_, _, headers = f.do(t, fiber.MethodGet, "/go/charity/"+id+"?to=https%3A%2F%2Fx.example", "", "")
	assert.Equal(t, "/", headers[fiber.HeaderLocation])

	require.Len(t, f.interactions.recorded, 1)
	assert.Equal(t, domain.InteractionWebsiteClick, f.interactions.recorded[0].Kind)
}

func TestSubmissionValidationAndRateLimit(t *testing.T) {
	f := newRouterFixture(t, pinger{})

	status, body, _ := f.do(t, fiber.MethodPost, "/submissions/listings", `{"businessName":"Cafe"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	errBody := decodeError(t, strings.NewReader(body))
	assert.Equal(t, "VALIDATION_FAILED", errBody.Error.Code)
	fields, ok := errBody.Error.Details["fields"].(map[string]any)
	require.True(t, ok, "field errors are rendered under details.fields")
	assert.Contains(t, fields, "contactEmail")
	assert.NotContains(t, fields, "businessName")

	status, _, _ = f.do(t, fiber.MethodPost, "/submissions/jobs", `not json`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body, headers := f.do(t, fiber.MethodPost, "/submissions/news", `{}`, "")
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "30", headers[fiber.HeaderRetryAfter])
	assert.Equal(t, "RATE_LIMITED", decodeError(t, strings.NewReader(body)).Error.Code)
}

func TestBillingWebhook(t *testing.T) {
	f := newRouterFixture(t, pinger{})
	payload := `{"id":"evt_1","object":"event","type":"invoice.paid","data":{"object":{}}}`

	status, _, _ := f.do(t, fiber.MethodPost, "/billing/webhook", payload, "")
	assert.Equal(t, fiber.StatusBadRequest, status, "unsigned payloads are refused")

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	req := httptest.NewRequest(fiber.MethodPost, "/billing/webhook", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("Stripe-Signature", signed.Header)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealthAndNotFound(t *testing.T) {
	f := newRouterFixture(t, pinger{err: errors.New("connection refused")})

	status, body, _ := f.do(t, fiber.MethodGet, "/health/ready", "", "")
	assert.Equal(t, fiber.StatusOK, status, "redis outages only degrade readiness")
	assert.Contains(t, body, "degraded: connection refused")

	status, _, _ = f.do(t, fiber.MethodGet, "/health/live", "", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, body, _ = f.do(t, fiber.MethodGet, "/metrics", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "directory_http_requests_total")

	status, body, _ = f.do(t, fiber.MethodGet, "/nowhere", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decodeError(t, strings.NewReader(body)).Error.Code)
}
