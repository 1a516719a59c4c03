package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/config"
	"github.com/spec-kit/community-directory/internal/observability"
	"github.com/spec-kit/community-directory/internal/repository"
)

// Rate limit scopes.
const (
	ScopeSubmissions = "submissions"
	ScopeLogin       = "login"
)

// RateLimiter applies fixed-window limits per scope and client key. Storage
// failures let the request through.
type RateLimiter struct {
	store   repository.RateRepository
	limits  map[string]int64
	window  time.Duration
	enabled bool
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRateLimiter constructs the limiter from configuration.
func NewRateLimiter(cfg config.RateLimitConfig, store repository.RateRepository, metrics *observability.Metrics, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		store: store,
		limits: map[string]int64{
			ScopeSubmissions: int64(cfg.Submissions),
			ScopeLogin:       int64(cfg.Logins),
		},
		window:  cfg.Window(),
		enabled: cfg.Enabled && store != nil,
		metrics: metrics,
		logger:  logger,
	}
}

// Allow reports whether the client may proceed and, if not, how long to wait.
func (l *RateLimiter) Allow(ctx context.Context, scope, clientKey string) (bool, time.Duration) {
	if l == nil || !l.enabled {
		return true, 0
	}
	limit, ok := l.limits[scope]
	if !ok || limit <= 0 {
		return true, 0
	}

	count, ttl, err := l.store.IncrementWindow(ctx, "ratelimit:"+scope+":"+clientKey, l.window)
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", zap.String("scope", scope), zap.Error(err))
		return true, 0
	}
	if count > limit {
		l.metrics.RecordRateLimited(scope)
		return false, ttl
	}
	return true, 0
}
