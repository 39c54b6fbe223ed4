package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the service, sourced from the
// environment.
type Config struct {
	EnvName string
	AppPort string

	RedisURL    string
	DatabaseURL string

	FrontendURL      string
	BackendPublicURL string

	MagicTokenTTL time.Duration
	SessionTTL    time.Duration

	Email EmailConfig
}

// EmailConfig selects and configures the delivery transport.
// Mode "console" logs links instead of sending, mode "smtp" delivers
// through the configured relay.
type EmailConfig struct {
	Mode     string
	Sender   string
	SMTPHost string
	SMTPPort int
	SMTPTLS  bool
	SMTPUser string
	SMTPPass string
}

func Load() (Config, error) {

	cfg := Config{
		EnvName: getEnvOrDefault("ENV_NAME", "dev"),
		AppPort: getEnvOrDefault("APP_PORT", "8000"),

		RedisURL:    getEnvOrDefault("REDIS_URL", "redis://redis:6379/0"),
		DatabaseURL: getEnvOrDefault("DATABASE_URL", "postgres://postgres:postgres@db:5432/appdb?sslmode=disable"),

		FrontendURL:      getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		BackendPublicURL: getEnvOrDefault("BACKEND_PUBLIC_URL", "http://localhost:8000"),

		Email: EmailConfig{
			Mode:     strings.ToLower(getEnvOrDefault("EMAIL_MODE", "console")),
			Sender:   getEnvOrDefault("EMAIL_SENDER", "noreply@example.com"),
			SMTPHost: getEnvOrDefault("SMTP_HOST", "localhost"),
			SMTPTLS:  strings.ToLower(getEnvOrDefault("SMTP_TLS", "false")) == "true",
			SMTPUser: os.Getenv("SMTP_USER"),
			SMTPPass: os.Getenv("SMTP_PASS"),
		},
	}

	smtpPort, err := strconv.Atoi(getEnvOrDefault("SMTP_PORT", "25"))
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid SMTP_PORT: %w", err)
	}
	cfg.Email.SMTPPort = smtpPort

	magicTTL, err := strconv.Atoi(getEnvOrDefault("MAGIC_TOKEN_TTL", "900"))
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid MAGIC_TOKEN_TTL: %w", err)
	}
	if magicTTL <= 0 {
		return Config{}, fmt.Errorf("config: MAGIC_TOKEN_TTL must be positive, got %d", magicTTL)
	}
	cfg.MagicTokenTTL = time.Duration(magicTTL) * time.Second

	cfg.SessionTTL, err = loadSessionTTL()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// loadSessionTTL resolves the session lifetime. SESSION_TTL_SECONDS takes
// precedence over SESSION_TTL_DAYS; the default is 30 days.
func loadSessionTTL() (time.Duration, error) {
	if raw := os.Getenv("SESSION_TTL_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("config: invalid SESSION_TTL_SECONDS: %w", err)
		}
		if secs <= 0 {
			return 0, fmt.Errorf("config: SESSION_TTL_SECONDS must be positive, got %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}

	days, err := strconv.Atoi(getEnvOrDefault("SESSION_TTL_DAYS", "30"))
	if err != nil {
		return 0, fmt.Errorf("config: invalid SESSION_TTL_DAYS: %w", err)
	}
	if days <= 0 {
		return 0, fmt.Errorf("config: SESSION_TTL_DAYS must be positive, got %d", days)
	}
	return time.Duration(days) * 24 * time.Hour, nil
}

// SecureCookies reports whether session cookies must carry the Secure
// attribute. Disabled only for local-style environments.
func (c Config) SecureCookies() bool {
	switch strings.ToLower(c.EnvName) {
	case "dev", "development", "test", "local":
		return false
	}
	return true
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
