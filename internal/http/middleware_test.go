package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/allisson/cardtoken/internal/gateway"
)

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string { return "req-123" })))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/v1/tokens/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
	})

	t.Run("Success_InfoLine", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/tokens/tok_1?expand=card", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, buf.String(), `"request_id":"req-123"`)
		assert.Contains(t, buf.String(), `"path":"/v1/tokens/tok_1?expand=card"`)
		assert.Contains(t, buf.String(), `"level":"INFO"`)
	})

	t.Run("Success_ServerErrorLoggedAsError", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
		assert.Contains(t, buf.String(), `"status":502`)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestContextMiddleware(t *testing.T) {
	var fromContext string

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string { return "req-abc" })))
	router.Use(RequestContextMiddleware())
	router.GET("/probe", func(c *gin.Context) {
		fromContext = gateway.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-abc", fromContext)
}
