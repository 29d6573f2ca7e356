package usecase

import (
	"context"
	"time"

	"github.com/allisson/cardtoken/internal/card/domain"
	"github.com/allisson/cardtoken/internal/metrics"
)

const metricsDomain = "card"

// tokenizationUseCaseWithMetrics decorates TokenizationUseCase with metrics instrumentation.
type tokenizationUseCaseWithMetrics struct {
	next    TokenizationUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenizationUseCaseWithMetrics wraps a TokenizationUseCase with metrics recording.
func NewTokenizationUseCaseWithMetrics(
	useCase TokenizationUseCase,
	m metrics.BusinessMetrics,
) TokenizationUseCase {
	return &tokenizationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenizationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	t.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	t.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Validate records metrics for form validation. A form with field errors is still a
// successful validation.
func (t *tokenizationUseCaseWithMetrics) Validate(ctx context.Context, input FormInput) (*FormState, error) {
	start := time.Now()
	state, err := t.next.Validate(ctx, input)
	t.record(ctx, "validate", start, err)
	return state, err
}

// CreateToken records metrics for token creation. A 3-D Secure challenge counts as
// "tds_required".
func (t *tokenizationUseCaseWithMetrics) CreateToken(ctx context.Context, input FormInput) (*TokenResult, error) {
	start := time.Now()
	result, err := t.next.CreateToken(ctx, input)

	status := metrics.StatusSuccess
	switch {
	case err != nil:
		status = metrics.StatusError
	case result != nil && result.ThreeDSecure != nil:
		status = metrics.StatusTDSRequired
	}

	t.metrics.RecordOperation(ctx, metricsDomain, "create_token", status)
	t.metrics.RecordDuration(ctx, metricsDomain, "create_token", time.Since(start), status)

	return result, err
}

// CreateTokenFromThreeDSecure records metrics for 3-D Secure token exchange.
func (t *tokenizationUseCaseWithMetrics) CreateTokenFromThreeDSecure(
	ctx context.Context,
	tdsTokenID string,
) (*TokenResult, error) {
	start := time.Now()
	result, err := t.next.CreateTokenFromThreeDSecure(ctx, tdsTokenID)
	t.record(ctx, "create_token_tds", start, err)
	return result, err
}

// FinishThreeDSecure records metrics for 3-D Secure finalization.
func (t *tokenizationUseCaseWithMetrics) FinishThreeDSecure(ctx context.Context, tokenID string) (*domain.Token, error) {
	start := time.Now()
	token, err := t.next.FinishThreeDSecure(ctx, tokenID)
	t.record(ctx, "finish_token_tds", start, err)
	return token, err
}

// GetToken records metrics for token lookups.
func (t *tokenizationUseCaseWithMetrics) GetToken(ctx context.Context, tokenID string) (*domain.Token, error) {
	start := time.Now()
	token, err := t.next.GetToken(ctx, tokenID)
	t.record(ctx, "get_token", start, err)
	return token, err
}

// AcceptedBrands records metrics for accepted brand lookups.
func (t *tokenizationUseCaseWithMetrics) AcceptedBrands(ctx context.Context, tenantID string) ([]domain.Brand, error) {
	start := time.Now()
	brands, err := t.next.AcceptedBrands(ctx, tenantID)
	t.record(ctx, "accepted_brands", start, err)
	return brands, err
}
