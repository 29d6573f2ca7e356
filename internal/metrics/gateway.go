package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GatewayMetrics records calls made to the remote tokenization API.
type GatewayMetrics interface {
	// RecordRequest records one outbound request. statusCode is 0 when no response
	// was received.
	RecordRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
}

type gatewayMetrics struct {
	requestCounter metric.Int64Counter
	durationHisto  metric.Float64Histogram
}

// NewGatewayMetrics creates GatewayMetrics backed by meterProvider.
func NewGatewayMetrics(meterProvider metric.MeterProvider, namespace string) (GatewayMetrics, error) {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_gateway_requests_total", namespace),
		metric.WithDescription("Total number of requests sent to the tokenization API"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway request counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_gateway_request_duration_seconds", namespace),
		metric.WithDescription("Tokenization API request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway duration histogram: %w", err)
	}

	return &gatewayMetrics{
		requestCounter: requestCounter,
		durationHisto:  durationHisto,
	}, nil
}

// RecordRequest implements GatewayMetrics.
func (g *gatewayMetrics) RecordRequest(
	ctx context.Context,
	endpoint string,
	statusCode int,
	duration time.Duration,
) {
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status_class", statusClass(statusCode)),
	)
	g.requestCounter.Add(ctx, 1, attrs)
	g.durationHisto.Record(ctx, duration.Seconds(), attrs)
}

// statusClass collapses a status code into "2xx", "4xx" and so on. Zero means the
// request never got a response.
func statusClass(statusCode int) string {
	if statusCode <= 0 {
		return "transport_error"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}

// NoOpGatewayMetrics discards everything.
type NoOpGatewayMetrics struct{}

// NewNoOpGatewayMetrics creates a no-op GatewayMetrics implementation.
func NewNoOpGatewayMetrics() GatewayMetrics {
	return &NoOpGatewayMetrics{}
}

// RecordRequest does nothing.
func (n *NoOpGatewayMetrics) RecordRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
}
