// Package app provides the dependency injection container that assembles the card
// tokenization service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"sync"

	cardHTTP "github.com/allisson/cardtoken/internal/card/http"
	cardService "github.com/allisson/cardtoken/internal/card/service"
	cardUseCase "github.com/allisson/cardtoken/internal/card/usecase"
	"github.com/allisson/cardtoken/internal/config"
	"github.com/allisson/cardtoken/internal/gateway"
	"github.com/allisson/cardtoken/internal/http"
	"github.com/allisson/cardtoken/internal/metrics"
	"github.com/allisson/cardtoken/internal/threeds"
	"github.com/allisson/cardtoken/internal/tokenhandler"
)

// Container holds all application dependencies and provides methods to access them.
// Components are created on first access.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	gatewayMetrics  metrics.GatewayMetrics

	// Card tokenization
	gatewayClient       *gateway.Client
	phoneNormalizer     cardService.PhoneNumberNormalizer
	tokenHandler        tokenhandler.Handler
	tokenizationUseCase cardUseCase.TokenizationUseCase
	tokenizationHandler *cardHTTP.TokenizationHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// ctx bounds background work owned by the container, such as rate limiter cleanup.
	ctx    context.Context
	cancel context.CancelFunc

	mu                      sync.Mutex
	loggerInit              sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	gatewayMetricsInit      sync.Once
	gatewayClientInit       sync.Once
	phoneNormalizerInit     sync.Once
	tokenHandlerInit        sync.Once
	tokenizationUseCaseInit sync.Once
	tokenizationHandlerInit sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container{
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the Prometheus-backed meter provider, or nil when metrics
// are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		var err error
		c.metricsProvider, err = c.initMetricsProvider()
		c.setInitError("metricsProvider", err)
	})
	return c.metricsProvider, c.initError("metricsProvider")
}

// BusinessMetrics returns the use case metrics recorder.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		var err error
		c.businessMetrics, err = c.initBusinessMetrics()
		c.setInitError("businessMetrics", err)
	})
	return c.businessMetrics, c.initError("businessMetrics")
}

// GatewayMetrics returns the outbound gateway request recorder.
func (c *Container) GatewayMetrics() (metrics.GatewayMetrics, error) {
	c.gatewayMetricsInit.Do(func() {
		var err error
		c.gatewayMetrics, err = c.initGatewayMetrics()
		c.setInitError("gatewayMetrics", err)
	})
	return c.gatewayMetrics, c.initError("gatewayMetrics")
}

// GatewayClient returns the tokenization API client.
func (c *Container) GatewayClient() (*gateway.Client, error) {
	c.gatewayClientInit.Do(func() {
		var err error
		c.gatewayClient, err = c.initGatewayClient()
		c.setInitError("gatewayClient", err)
	})
	return c.gatewayClient, c.initError("gatewayClient")
}

// PhoneNormalizer returns the phone number normalizer.
func (c *Container) PhoneNormalizer() cardService.PhoneNumberNormalizer {
	c.phoneNormalizerInit.Do(func() {
		c.phoneNormalizer = cardService.NewPhoneNumberNormalizer()
	})
	return c.phoneNormalizer
}

// TokenHandler returns the handler notified of every created token, or nil when no
// TOKEN_HANDLER_URL is configured.
func (c *Container) TokenHandler() tokenhandler.Handler {
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler = c.initTokenHandler()
	})
	return c.tokenHandler
}

// TokenizationUseCase returns the tokenization use case, wrapped with metrics when enabled.
func (c *Container) TokenizationUseCase() (cardUseCase.TokenizationUseCase, error) {
	c.tokenizationUseCaseInit.Do(func() {
		var err error
		c.tokenizationUseCase, err = c.initTokenizationUseCase()
		c.setInitError("tokenizationUseCase", err)
	})
	return c.tokenizationUseCase, c.initError("tokenizationUseCase")
}

// TokenizationHandler returns the HTTP handler for the card endpoints.
func (c *Container) TokenizationHandler() (*cardHTTP.TokenizationHandler, error) {
	c.tokenizationHandlerInit.Do(func() {
		var err error
		c.tokenizationHandler, err = c.initTokenizationHandler()
		c.setInitError("tokenizationHandler", err)
	})
	return c.tokenizationHandler, c.initError("tokenizationHandler")
}

// HTTPServer returns the public API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		var err error
		c.httpServer, err = c.initHTTPServer()
		c.setInitError("httpServer", err)
	})
	return c.httpServer, c.initError("httpServer")
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		var err error
		c.metricsServer, err = c.initMetricsServer()
		c.setInitError("metricsServer", err)
	})
	return c.metricsServer, c.initError("metricsServer")
}

// Shutdown stops background work and flushes metrics. Servers are shut down by the
// server command, which owns their lifecycle.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()

	var shutdownErrors []error
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

func (c *Container) setInitError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// initLogger creates a JSON logger at the configured level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

func (c *Container) initGatewayMetrics() (metrics.GatewayMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpGatewayMetrics(), nil
	}
	return metrics.NewGatewayMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

func (c *Container) initGatewayClient() (*gateway.Client, error) {
	if c.config.APIPublicKey == "" {
		return nil, errors.New("API_PUBLIC_KEY is required")
	}

	gatewayMetrics, err := c.GatewayMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway metrics for gateway client: %w", err)
	}

	return gateway.NewClient(gateway.Config{
		BaseURL:           c.config.APIBaseURL,
		PublicKey:         c.config.APIPublicKey,
		TenantID:          c.config.APITenantID,
		Timeout:           c.config.APITimeout,
		RateLimit:         c.config.APIRateLimitRequestsPerSec,
		RateLimitBurst:    c.config.APIRateLimitBurst,
		AcceptedBrandsTTL: c.config.AcceptedBrandsCacheTTL,
	}, c.Logger(), gateway.WithMetrics(gatewayMetrics)), nil
}

func (c *Container) initTokenHandler() tokenhandler.Handler {
	if c.config.TokenHandlerURL == "" {
		return nil
	}
	client := &nethttp.Client{Timeout: c.config.TokenHandlerTimeout}
	return tokenhandler.NewWebhookHandler(client, c.config.TokenHandlerURL, c.Logger())
}

// UseCaseConfig maps the application configuration onto the use case settings.
func UseCaseConfig(cfg *config.Config, baseURL string) (cardUseCase.Config, error) {
	holderName, err := ParseFieldMode("HOLDER_NAME_MODE", cfg.HolderNameMode)
	if err != nil {
		return cardUseCase.Config{}, err
	}
	email, err := ParseFieldMode("EMAIL_MODE", cfg.EmailMode)
	if err != nil {
		return cardUseCase.Config{}, err
	}
	phone, err := ParseFieldMode("PHONE_MODE", cfg.PhoneMode)
	if err != nil {
		return cardUseCase.Config{}, err
	}

	return cardUseCase.Config{
		TenantID:              cfg.APITenantID,
		PhoneRegion:           cfg.DefaultPhoneRegion,
		Delimiter:             cfg.ExpirationDelimiter,
		HolderName:            holderName,
		Email:                 email,
		Phone:                 phone,
		EnforceAcceptedBrands: cfg.EnforceAcceptedBrands,
		ThreeDSecure: threeds.URLConfig{
			BaseURL:      baseURL,
			PublicKey:    cfg.APIPublicKey,
			RedirectName: cfg.TDSRedirectName,
		},
	}, nil
}

// ParseFieldMode validates a hidden/optional/required setting. Empty means hidden.
func ParseFieldMode(name, value string) (cardUseCase.FieldMode, error) {
	switch mode := cardUseCase.FieldMode(value); mode {
	case "":
		return cardUseCase.FieldHidden, nil
	case cardUseCase.FieldHidden, cardUseCase.FieldOptional, cardUseCase.FieldRequired:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid %s %q: must be hidden, optional or required", name, value)
	}
}

func (c *Container) initTokenizationUseCase() (cardUseCase.TokenizationUseCase, error) {
	gatewayClient, err := c.GatewayClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway client for tokenization use case: %w", err)
	}

	useCaseConfig, err := UseCaseConfig(c.config, gatewayClient.BaseURL())
	if err != nil {
		return nil, err
	}

	baseUseCase := cardUseCase.NewTokenizationUseCase(
		useCaseConfig,
		gatewayClient,
		c.PhoneNormalizer(),
		c.TokenHandler(),
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for tokenization use case: %w", err)
		}
		return cardUseCase.NewTokenizationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initTokenizationHandler() (*cardHTTP.TokenizationHandler, error) {
	useCase, err := c.TokenizationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenization use case for handler: %w", err)
	}
	return cardHTTP.NewTokenizationHandler(useCase, c.Logger()), nil
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	handler, err := c.TokenizationHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenization handler for http server: %w", err)
	}
	gatewayClient, err := c.GatewayClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway client for http server: %w", err)
	}
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	// Ready once the accepted brands can be fetched; the result is cached by the client.
	checker := http.ReadinessFunc(func(ctx context.Context) error {
		_, err := gatewayClient.GetAcceptedBrands(ctx, c.config.APITenantID)
		return err
	})

	server := http.NewServer(checker, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(c.ctx, c.config, handler, provider)
	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
