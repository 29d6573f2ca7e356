package gateway

import (
	"context"

	"github.com/allisson/cardtoken/internal/card/domain"
	"github.com/allisson/cardtoken/internal/task"
)

// CreateTokenTask wraps CreateToken in a cancellable Task.
func (c *Client) CreateTokenTask(req domain.TokenizationRequest, opts ...task.Option) *task.Task[*domain.Token] {
	return task.New(func(ctx context.Context) (*domain.Token, error) {
		return c.CreateToken(ctx, req)
	}, c.taskOptions("create_token", opts)...)
}

// CreateTokenFromThreeDSecureTask wraps CreateTokenFromThreeDSecure in a cancellable Task.
func (c *Client) CreateTokenFromThreeDSecureTask(tdsTokenID string, opts ...task.Option) *task.Task[*domain.Token] {
	return task.New(func(ctx context.Context) (*domain.Token, error) {
		return c.CreateTokenFromThreeDSecure(ctx, tdsTokenID)
	}, c.taskOptions("create_token_tds", opts)...)
}

// FinishTokenThreeDSecureTask wraps FinishTokenThreeDSecure in a cancellable Task.
func (c *Client) FinishTokenThreeDSecureTask(tokenID string, opts ...task.Option) *task.Task[*domain.Token] {
	return task.New(func(ctx context.Context) (*domain.Token, error) {
		return c.FinishTokenThreeDSecure(ctx, tokenID)
	}, c.taskOptions("finish_token_tds", opts)...)
}

// GetTokenTask wraps GetToken in a cancellable Task.
func (c *Client) GetTokenTask(tokenID string, opts ...task.Option) *task.Task[*domain.Token] {
	return task.New(func(ctx context.Context) (*domain.Token, error) {
		return c.GetToken(ctx, tokenID)
	}, c.taskOptions("get_token", opts)...)
}

// GetAcceptedBrandsTask wraps GetAcceptedBrands in a cancellable Task.
func (c *Client) GetAcceptedBrandsTask(tenantID string, opts ...task.Option) *task.Task[[]domain.Brand] {
	return task.New(func(ctx context.Context) ([]domain.Brand, error) {
		return c.GetAcceptedBrands(ctx, tenantID)
	}, c.taskOptions("accepted_brands", opts)...)
}

// taskOptions puts the client defaults first so callers can override them.
func (c *Client) taskOptions(name string, opts []task.Option) []task.Option {
	return append([]task.Option{task.WithName(name), task.WithLogger(c.logger)}, opts...)
}
