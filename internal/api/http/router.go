package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/community-directory/internal/api/http/handlers"
	"github.com/spec-kit/community-directory/internal/auth"
	"github.com/spec-kit/community-directory/internal/observability"
	"github.com/spec-kit/community-directory/internal/service"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Submissions    *handlers.SubmissionsHandler
	Catalog        *handlers.CatalogHandler
	Redirects      *handlers.RedirectHandler
	Moderation     *handlers.ModerationHandler
	Billing        *handlers.BillingHandler
	AuthMiddleware *auth.SessionMiddleware
	RateLimiter    *service.RateLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	// Signature verification needs the untouched body, so the webhook sits
	// outside the session middleware.
	app.Post("/billing/webhook", cfg.Billing.Webhook)

	app.Use(cfg.AuthMiddleware.Handle)

	submitLimit := rateLimitMiddleware(cfg.RateLimiter, service.ScopeSubmissions)
	loginLimit := rateLimitMiddleware(cfg.RateLimiter, service.ScopeLogin)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", loginLimit, cfg.Auth.Signup)
	authGroup.Post("/login", loginLimit, cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", auth.RequireUser(), cfg.Auth.Me)
	authGroup.Post("/password/reset/request", loginLimit, cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", loginLimit, cfg.Auth.ConfirmPasswordReset)

	submissions := app.Group("/submissions", submitLimit)
	submissions.Post("/listings", cfg.Submissions.SubmitListing)
	submissions.Post("/jobs", cfg.Submissions.SubmitJob)
	submissions.Post("/events", cfg.Submissions.SubmitEvent)
	submissions.Post("/news", cfg.Submissions.SubmitNews)
	submissions.Post("/charities", cfg.Submissions.SubmitCharity)
	app.Post("/plan-interest", submitLimit, cfg.Submissions.PlanInterest)

	app.Get("/businesses", cfg.Catalog.ListBusinesses)
	app.Get("/businesses/:slug", cfg.Catalog.GetBusiness)
	app.Post("/businesses/:id/claims", auth.RequireUser(), cfg.Submissions.Claim)
	app.Get("/jobs", cfg.Catalog.ListJobs)
	app.Get("/jobs/:id", cfg.Catalog.GetJob)
	app.Get("/events", cfg.Catalog.ListEvents)
	app.Get("/events/:id", cfg.Catalog.GetEvent)
	app.Get("/news", cfg.Catalog.ListNews)
	app.Get("/charities", cfg.Catalog.ListCharities)
	app.Get("/go/:kind/:id", cfg.Redirects.Go)

	my := app.Group("/my", auth.RequireUser())
	my.Get("/listings", cfg.Catalog.MyListings)
	my.Post("/listings/:id/edit-requests", cfg.Submissions.RequestEdit)

	billing := app.Group("/billing", auth.RequireUser())
	billing.Post("/checkout", cfg.Billing.Checkout)
	billing.Post("/portal", cfg.Billing.Portal)

	admin := app.Group("/admin", auth.RequireAdmin())
	admin.Get("/moderation", cfg.Moderation.Queues)
	admin.Post("/moderation/:kind/:id/approve", cfg.Moderation.Approve)
	admin.Post("/moderation/:kind/:id/reject", cfg.Moderation.Reject)
	admin.Put("/jobs/:id/featured", cfg.Moderation.FeatureJob)
	admin.Put("/events/:id/featured", cfg.Moderation.FeatureEvent)
	admin.Put("/businesses/:id/verified", cfg.Moderation.SetVerified)
	admin.Get("/clients", cfg.Moderation.Clients)
}
