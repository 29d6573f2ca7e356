// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ShutdownTimeout bounds graceful shutdown of the servers.
	ShutdownTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// APIBaseURL is the root of the remote tokenization API.
	APIBaseURL string
	// APIPublicKey is the public key used to authenticate token requests.
	APIPublicKey string
	// APITenantID selects a platform tenant; empty for regular accounts.
	APITenantID string
	// APITimeout is the timeout of a single gateway request.
	APITimeout time.Duration
	// APIRateLimitRequestsPerSec throttles outgoing gateway requests; zero disables it.
	APIRateLimitRequestsPerSec float64
	// APIRateLimitBurst is the burst size of the outgoing throttle.
	APIRateLimitBurst int

	// TDSRedirectName is the registered redirect the gateway returns to after a challenge.
	TDSRedirectName string

	// DefaultPhoneRegion is the ISO 3166 region used to parse national phone numbers.
	DefaultPhoneRegion string
	// ExpirationDelimiter separates month and year in expiration input.
	ExpirationDelimiter string
	// HolderNameMode, EmailMode and PhoneMode are "hidden", "optional" or "required".
	HolderNameMode string
	EmailMode      string
	PhoneMode      string
	// EnforceAcceptedBrands rejects card numbers of brands the account does not accept.
	EnforceAcceptedBrands bool
	// AcceptedBrandsCacheTTL is how long accepted brands are cached.
	AcceptedBrandsCacheTTL time.Duration

	// TokenHandlerURL receives created tokens for merchant-side approval; empty disables it.
	TokenHandlerURL string
	// TokenHandlerTimeout bounds a single token handler call.
	TokenHandlerTimeout time.Duration

	// RateLimitEnabled indicates whether rate limiting for the checkout API is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per client IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:      env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:      env.GetInt("SERVER_PORT", 8080),
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Gateway
		APIBaseURL:                 env.GetString("API_BASE_URL", "https://api.pay.jp/v1/"),
		APIPublicKey:               env.GetString("API_PUBLIC_KEY", ""),
		APITenantID:                env.GetString("API_TENANT_ID", ""),
		APITimeout:                 env.GetDuration("API_TIMEOUT_SECONDS", 30, time.Second),
		APIRateLimitRequestsPerSec: env.GetFloat64("API_RATE_LIMIT_REQUESTS_PER_SEC", 0),
		APIRateLimitBurst:          env.GetInt("API_RATE_LIMIT_BURST", 5),

		// 3-D Secure
		TDSRedirectName: env.GetString("TDS_REDIRECT_NAME", ""),

		// Card form
		DefaultPhoneRegion:     env.GetString("DEFAULT_PHONE_REGION", "JP"),
		ExpirationDelimiter:    env.GetString("EXPIRATION_DELIMITER", "/"),
		HolderNameMode:         env.GetString("HOLDER_NAME_MODE", "required"),
		EmailMode:              env.GetString("EMAIL_MODE", "optional"),
		PhoneMode:              env.GetString("PHONE_MODE", "optional"),
		EnforceAcceptedBrands:  env.GetBool("ENFORCE_ACCEPTED_BRANDS", false),
		AcceptedBrandsCacheTTL: env.GetDuration("ACCEPTED_BRANDS_CACHE_SECONDS", 300, time.Second),

		// Token handler
		TokenHandlerURL:     env.GetString("TOKEN_HANDLER_URL", ""),
		TokenHandlerTimeout: env.GetDuration("TOKEN_HANDLER_TIMEOUT_SECONDS", 10, time.Second),

		// Rate Limiting
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 5.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 10),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "cardtoken"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
