// Package mocks provides mock implementations of the card use case collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/cardtoken/internal/card/domain"
)

// MockGateway is a mock implementation of usecase.Gateway.
type MockGateway struct {
	mock.Mock
}

// CreateToken mocks the CreateToken method.
func (m *MockGateway) CreateToken(ctx context.Context, req domain.TokenizationRequest) (*domain.Token, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Token), args.Error(1)
}

// CreateTokenFromThreeDSecure mocks the CreateTokenFromThreeDSecure method.
func (m *MockGateway) CreateTokenFromThreeDSecure(ctx context.Context, tdsTokenID string) (*domain.Token, error) {
	args := m.Called(ctx, tdsTokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Token), args.Error(1)
}

// FinishTokenThreeDSecure mocks the FinishTokenThreeDSecure method.
func (m *MockGateway) FinishTokenThreeDSecure(ctx context.Context, tokenID string) (*domain.Token, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Token), args.Error(1)
}

// GetToken mocks the GetToken method.
func (m *MockGateway) GetToken(ctx context.Context, tokenID string) (*domain.Token, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Token), args.Error(1)
}

// GetAcceptedBrands mocks the GetAcceptedBrands method.
func (m *MockGateway) GetAcceptedBrands(ctx context.Context, tenantID string) ([]domain.Brand, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Brand), args.Error(1)
}
