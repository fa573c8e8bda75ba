package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration values used by the backend service.
type Config struct {
	// ServerAddress is the host:port pair the HTTP server listens on. Defaults to ":18111".
	ServerAddress string

	// DatabaseURL is the Postgres DSN used by database/sql.
	DatabaseURL string

	// CORSOrigins lists the origins allowed to call the API. Defaults to "*".
	CORSOrigins []string

	// AdminToken guards the admin listing and job endpoints. Empty disables them.
	AdminToken string

	// NotifyWebhookURL receives new contact messages and quotes. Empty means
	// notifications are only logged.
	NotifyWebhookURL string

	// NotifyWebhookSecret signs webhook bodies when set.
	NotifyWebhookSecret string

	// SessionTTL is how long an idle estimator session is kept. Defaults to 2h.
	SessionTTL time.Duration

	// ContactRateLimit is the sustained per-IP request rate (per second) for
	// public submission routes, with ContactRateBurst as the bucket size.
	ContactRateLimit float64
	ContactRateBurst int

	// LogFile is an optional path for a rotated JSON log file.
	LogFile string

	// Environment is APP_ENV; "production" switches logs to JSON.
	Environment string
}

const (
	defaultServerAddress    = ":18111"
	defaultCORSOrigins      = "*"
	defaultSessionTTL       = 2 * time.Hour
	defaultContactRateLimit = 0.2
	defaultContactRateBurst = 5
	defaultEnvironment      = "development"

	envServerAddress       = "BACKEND_ADDR"
	envDatabaseURL         = "DATABASE_URL"
	envCORSOrigins         = "CORS_ORIGINS"
	envAdminToken          = "ADMIN_TOKEN"
	envNotifyWebhookURL    = "NOTIFY_WEBHOOK_URL"
	envNotifyWebhookSecret = "NOTIFY_WEBHOOK_SECRET"
	envSessionTTL          = "SESSION_TTL"
	envContactRateLimit    = "CONTACT_RATE_LIMIT"
	envContactRateBurst    = "CONTACT_RATE_BURST"
	envLogFile             = "LOG_FILE"
	envEnvironment         = "APP_ENV"
)

// Load reads configuration from environment variables, applies defaults, and returns
// a Config structure. Required values return an error when missing.
func Load() (Config, error) {
	cfg := Config{
		ServerAddress:       firstNonEmpty(os.Getenv(envServerAddress), defaultServerAddress),
		DatabaseURL:         strings.TrimSpace(os.Getenv(envDatabaseURL)),
		CORSOrigins:         splitList(firstNonEmpty(os.Getenv(envCORSOrigins), defaultCORSOrigins)),
		AdminToken:          os.Getenv(envAdminToken),
		NotifyWebhookURL:    strings.TrimSpace(os.Getenv(envNotifyWebhookURL)),
		NotifyWebhookSecret: os.Getenv(envNotifyWebhookSecret),
		SessionTTL:          defaultSessionTTL,
		ContactRateLimit:    defaultContactRateLimit,
		ContactRateBurst:    defaultContactRateBurst,
		LogFile:             os.Getenv(envLogFile),
		Environment:         firstNonEmpty(os.Getenv(envEnvironment), defaultEnvironment),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("%s is required", envDatabaseURL)
	}
	if err := validateURL(cfg.DatabaseURL); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", envDatabaseURL, err)
	}

	if cfg.NotifyWebhookURL != "" {
		if err := validateURL(cfg.NotifyWebhookURL); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envNotifyWebhookURL, err)
		}
	}

	if value := os.Getenv(envSessionTTL); value != "" {
		ttl, err := time.ParseDuration(value)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", envSessionTTL, value)
		}
		cfg.SessionTTL = ttl
	}

	if value := os.Getenv(envContactRateLimit); value != "" {
		limit, err := strconv.ParseFloat(value, 64)
		if err != nil || limit <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", envContactRateLimit, value)
		}
		cfg.ContactRateLimit = limit
	}

	if value := os.Getenv(envContactRateBurst); value != "" {
		burst, err := strconv.Atoi(value)
		if err != nil || burst < 1 {
			return Config{}, fmt.Errorf("invalid %s: %q", envContactRateBurst, value)
		}
		cfg.ContactRateBurst = burst
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("missing scheme")
	}
	if parsed.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
