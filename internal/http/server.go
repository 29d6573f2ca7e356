// Package http wires the gin router, the API server and its middleware.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cardHTTP "github.com/allisson/cardtoken/internal/card/http"
	"github.com/allisson/cardtoken/internal/config"
	"github.com/allisson/cardtoken/internal/metrics"
)

// ReadinessChecker reports whether a dependency the API needs can serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadinessFunc adapts a function to ReadinessChecker.
type ReadinessFunc func(ctx context.Context) error

// CheckReadiness calls f.
func (f ReadinessFunc) CheckReadiness(ctx context.Context) error {
	return f(ctx)
}

const readinessTimeout = 3 * time.Second

// Server is the public API server.
type Server struct {
	router  *gin.Engine
	server  *http.Server
	checker ReadinessChecker
	logger  *slog.Logger
}

// NewServer creates a Server. The router is built by SetupRouter. A nil checker makes
// /ready always report not ready.
func NewServer(checker ReadinessChecker, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		checker: checker,
		logger:  logger,
		server:  newHTTPServer(fmt.Sprintf("%s:%d", host, port), nil, 30*time.Second),
	}
}

// newHTTPServer applies the timeouts shared by both listeners. writeTimeout covers
// handlers that wait on the gateway.
func newHTTPServer(addr string, handler http.Handler, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// SetupRouter registers middleware and routes. ctx bounds background work started by
// middleware, such as stale rate limiter cleanup.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	tokenizationHandler *cardHTTP.TokenizationHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(RequestContextMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	{
		v1.POST("/card/validate", tokenizationHandler.ValidateHandler)
		v1.GET("/brands", tokenizationHandler.AcceptedBrandsHandler)

		tokens := v1.Group("/tokens")
		tokens.POST("", tokenizationHandler.CreateTokenHandler)
		tokens.POST("/tds", tokenizationHandler.CreateTokenFromThreeDSecureHandler)
		tokens.GET("/:id", tokenizationHandler.GetTokenHandler)
		tokens.POST("/:id/tds_finish", tokenizationHandler.FinishThreeDSecureHandler)
	}

	s.router = router
}

// Handler returns the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	status := "ok"
	if s.checker == nil {
		status = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.checker.CheckReadiness(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			status = "error"
		}
	}

	components := gin.H{"gateway": status}
	if status != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
