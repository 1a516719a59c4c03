package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/community-directory/internal/api/http"
	"github.com/spec-kit/community-directory/internal/api/http/handlers"
	"github.com/spec-kit/community-directory/internal/auth"
	"github.com/spec-kit/community-directory/internal/billing"
	"github.com/spec-kit/community-directory/internal/config"
	"github.com/spec-kit/community-directory/internal/events"
	"github.com/spec-kit/community-directory/internal/observability"
	"github.com/spec-kit/community-directory/internal/persistence"
	"github.com/spec-kit/community-directory/internal/repository"
	"github.com/spec-kit/community-directory/internal/service"
	"github.com/spec-kit/community-directory/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	txManager := repository.NewTxManager(pool)
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	businessRepo := repository.NewBusinessRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	newsRepo := repository.NewNewsRepository(pool)
	charityRepo := repository.NewCharityRepository(pool)
	listingRepo := repository.NewListingRequestRepository(pool)
	editRepo := repository.NewEditRequestRepository(pool)
	claimRepo := repository.NewClaimRequestRepository(pool)
	jobSubRepo := repository.NewJobSubmissionRepository(pool)
	eventSubRepo := repository.NewEventSubmissionRepository(pool)
	newsSubRepo := repository.NewNewsSubmissionRepository(pool)
	charitySubRepo := repository.NewCharitySubmissionRepository(pool)
	interactionRepo := repository.NewInteractionRepository(pool)
	planInterestRepo := repository.NewPlanInterestRepository(pool)
	rateRepo := repository.NewRateRepository(redis.Client)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	interactionService := service.NewInteractionService(interactionRepo, metrics, logger)
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		Businesses:   businessRepo,
		Jobs:         jobRepo,
		Events:       eventRepo,
		News:         newsRepo,
		Charities:    charityRepo,
		Users:        userRepo,
		Interactions: interactionService,
	})
	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		Listings:      listingRepo,
		Edits:         editRepo,
		Claims:        claimRepo,
		JobSubs:       jobSubRepo,
		EventSubs:     eventSubRepo,
		NewsSubs:      newsSubRepo,
		CharitySubs:   charitySubRepo,
		Businesses:    businessRepo,
		PlanInterests: planInterestRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	moderationService := service.NewModerationService(service.ModerationDependencies{
		Tx:          txManager,
		Listings:    listingRepo,
		Edits:       editRepo,
		Claims:      claimRepo,
		JobSubs:     jobSubRepo,
		EventSubs:   eventSubRepo,
		NewsSubs:    newsSubRepo,
		CharitySubs: charitySubRepo,
		Businesses:  businessRepo,
		Jobs:        jobRepo,
		Events:      eventRepo,
		News:        newsRepo,
		Charities:   charityRepo,
		Users:       userRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	billingService := service.NewBillingService(*cfg, service.BillingDependencies{
		Gateway:    billing.NewStripeGateway(cfg.Billing.SecretKey, cfg.Billing.WebhookSecret),
		Users:      userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	rateLimiter := service.NewRateLimiter(cfg.RateLimit, rateRepo, metrics, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := worker.NewNotificationWorker(notificationService, moderationService,
		cfg.Notification.DigestInterval(), logger).Start(workerCtx)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Production(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth: handlers.NewAuthHandler(authService, handlers.CookieSettings{
			Name:   cfg.Auth.SessionCookieName,
			Secure: cfg.App.Production(),
		}),
		Submissions:    handlers.NewSubmissionsHandler(submissionService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Redirects:      handlers.NewRedirectHandler(interactionService),
		Moderation:     handlers.NewModerationHandler(moderationService, catalogService),
		Billing:        handlers.NewBillingHandler(billingService),
		AuthMiddleware: auth.NewSessionMiddleware(cfg.Auth.SessionCookieName, sessionRepo, userRepo, logger),
		RateLimiter:    rateLimiter,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	stopWorker()
	<-workerDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
