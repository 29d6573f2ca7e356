package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("http_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "http_test"))
	router.GET("/v1/tokens/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.POST("/v1/tokens", func(c *gin.Context) {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "card_declined"})
	})

	for _, path := range []string{"/v1/tokens/tok_1", "/v1/tokens/tok_2", "/v1/tokens/tok_3"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/tokens", nil))
	require.Equal(t, http.StatusPaymentRequired, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	output := scrape(t, provider)

	t.Run("Success_PathParamsCollapseToRoute", func(t *testing.T) {
		assertMetricLine(t, output, `http_test_http_requests_total`,
			`method="GET".*path="/v1/tokens/:id".*status_code="200"`, `3`)
	})

	t.Run("Success_StatusCodeLabel", func(t *testing.T) {
		assertMetricLine(t, output, `http_test_http_requests_total`,
			`method="POST".*path="/v1/tokens".*status_code="402"`, `1`)
	})

	t.Run("Success_UnmatchedRouteIsUnknown", func(t *testing.T) {
		assertMetricLine(t, output, `http_test_http_requests_total`,
			`path="unknown".*status_code="404"`, `1`)
	})

	t.Run("Success_DurationRecorded", func(t *testing.T) {
		assertMetricLine(t, output, `http_test_http_request_duration_seconds_count`,
			`path="/v1/tokens/:id"`, `3`)
	})
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Success_RoutePattern", "/v1/tokens/:id", "/v1/tokens/:id"},
		{"Success_StaticRoute", "/v1/brands", "/v1/brands"},
		{"Success_EmptyIsUnknown", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}
