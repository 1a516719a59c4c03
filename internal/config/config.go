package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Billing      BillingConfig
	RateLimit    RateLimitConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	PublicURL             string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines session and password parameters.
type AuthConfig struct {
	SessionCookieName       string
	SessionTTLDays          int
	ScryptN                 int
	ResetTokenSecret        string
	PasswordResetTTLMinutes int
}

// BillingConfig points at the payment provider.
type BillingConfig struct {
	SecretKey        string
	WebhookSecret    string
	PriceGrowth      string
	PriceTownPartner string
}

// RateLimitConfig bounds anonymous write traffic per client.
type RateLimitConfig struct {
	Enabled       bool
	Submissions   int
	Logins        int
	WindowSeconds int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
	// DigestMinutes is the moderation backlog digest period; 0 disables it.
	DigestMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "community-directory"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			PublicURL:             strings.TrimRight(getEnv("APP_PUBLIC_URL", "http://localhost:8080"), "/"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			SessionCookieName:       getEnv("AUTH_SESSION_COOKIE", "tamworth-hub-session"),
			SessionTTLDays:          getEnvAsInt("AUTH_SESSION_TTL_DAYS", 14),
			ScryptN:                 getEnvAsInt("AUTH_SCRYPT_N", 16384),
			ResetTokenSecret:        getEnv("AUTH_RESET_TOKEN_SECRET", "dev-secret"),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
		},
		Billing: BillingConfig{
			SecretKey:        os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret:    os.Getenv("STRIPE_WEBHOOK_SECRET"),
			PriceGrowth:      os.Getenv("STRIPE_PRICE_GROWTH"),
			PriceTownPartner: os.Getenv("STRIPE_PRICE_PARTNER"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Submissions:   getEnvAsInt("RATE_LIMIT_SUBMISSIONS", 10),
			Logins:        getEnvAsInt("RATE_LIMIT_LOGINS", 20),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 3600),
		},
		Notification: NotificationConfig{
			EmailFrom:     getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL:    getEnv("NOTIFY_WEBHOOK_URL", ""),
			DigestMinutes: getEnvAsInt("NOTIFY_DIGEST_MINUTES", 0),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Production reports whether cookies should be marked secure.
func (a AppConfig) Production() bool {
	return strings.EqualFold(a.Env, "production")
}

// SessionTTL returns the absolute session lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	days := a.SessionTTLDays
	if days <= 0 {
		days = 14
	}
	return time.Duration(days) * 24 * time.Hour
}

// PasswordResetTTL returns how long a reset token stays valid.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	if a.PasswordResetTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// DigestInterval returns the backlog digest period, or 0 when disabled.
func (n NotificationConfig) DigestInterval() time.Duration {
	if n.DigestMinutes <= 0 {
		return 0
	}
	return time.Duration(n.DigestMinutes) * time.Minute
}

// Window returns the rate limit window.
func (r RateLimitConfig) Window() time.Duration {
	if r.WindowSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(r.WindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
