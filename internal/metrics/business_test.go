package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a sample matching the
// metric name, a partial label pattern and a value. The exporter adds OTel scope
// labels, hence the regex.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestBusinessMetrics_Record(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	tests := []struct {
		name      string
		operation string
		status    string
		duration  time.Duration
	}{
		{"Success_Validate", "validate", "success", time.Millisecond},
		{"Success_CreateToken", "create_token", "success", 120 * time.Millisecond},
		{"Success_ThreeDSecureRequired", "create_token", "tds_required", 90 * time.Millisecond},
		{"Error_CreateToken", "create_token", "error", 300 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				bm.RecordOperation(context.Background(), "card", tt.operation, tt.status)
				bm.RecordDuration(context.Background(), "card", tt.operation, tt.duration, tt.status)
			})
		})
	}
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.IsType(t, NoOpBusinessMetrics{}, noOpMetrics)
	assert.NotPanics(t, func() {
		noOpMetrics.RecordOperation(context.Background(), "card", "get_token", "success")
		noOpMetrics.RecordDuration(context.Background(), "card", "get_token", 10*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "card", "create_token", "success")
	bm.RecordOperation(ctx, "card", "create_token", "success")
	bm.RecordOperation(ctx, "card", "create_token", "tds_required")
	bm.RecordOperation(ctx, "card", "accepted_brands", "error")

	bm.RecordDuration(ctx, "card", "create_token", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "card", "create_token", 70*time.Millisecond, "success")
	bm.RecordDuration(ctx, "card", "accepted_brands", 5*time.Millisecond, "error")

	output := scrape(t, provider)

	assertMetricLine(t, output, `integration_test_operations_total`,
		`domain="card".*operation="create_token".*status="success"`, `2`)
	assertMetricLine(t, output, `integration_test_operations_total`,
		`domain="card".*operation="create_token".*status="tds_required"`, `1`)
	assertMetricLine(t, output, `integration_test_operations_total`,
		`domain="card".*operation="accepted_brands".*status="error"`, `1`)
	assertMetricLine(t, output, `integration_test_operation_duration_seconds_count`,
		`domain="card".*operation="create_token".*status="success"`, `2`)
}
