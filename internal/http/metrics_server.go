package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/cardtoken/internal/metrics"
)

// MetricsServer serves Prometheus scrapes on a port separate from the checkout API.
// It carries its own /health so probes can target either listener.
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewMetricsServer creates a MetricsServer listening on host:port.
// A nil provider serves only /health.
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
) *MetricsServer {
	// Recovery and request logging, without request ids or CORS
	router := gin.New()
	router.Use(gin.Recovery(), CustomLoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if metricsProvider != nil {
		router.GET("/metrics", gin.WrapH(metricsProvider.Handler()))
	}

	return &MetricsServer{
		server: newHTTPServer(fmt.Sprintf("%s:%d", host, port), router, 15*time.Second),
		logger: logger,
	}
}

// Handler returns the http.Handler for testing purposes.
func (s *MetricsServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("starting metrics server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the metrics server, waiting for in-flight scrapes
// until ctx expires.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.server.Shutdown(ctx)
}
