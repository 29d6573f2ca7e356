// Package mocks provides mock implementations for testing card HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/cardtoken/internal/card/domain"
	"github.com/allisson/cardtoken/internal/card/usecase"
)

// MockTokenizationUseCase is a mock implementation of usecase.TokenizationUseCase.
type MockTokenizationUseCase struct {
	mock.Mock
}

// Validate mocks the Validate method.
func (m *MockTokenizationUseCase) Validate(ctx context.Context, input usecase.FormInput) (*usecase.FormState, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.FormState), args.Error(1)
}

// CreateToken mocks the CreateToken method.
func (m *MockTokenizationUseCase) CreateToken(
	ctx context.Context,
	input usecase.FormInput,
) (*usecase.TokenResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TokenResult), args.Error(1)
}

// CreateTokenFromThreeDSecure mocks the CreateTokenFromThreeDSecure method.
func (m *MockTokenizationUseCase) CreateTokenFromThreeDSecure(
	ctx context.Context,
	tdsTokenID string,
) (*usecase.TokenResult, error) {
	args := m.Called(ctx, tdsTokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TokenResult), args.Error(1)
}

// FinishThreeDSecure mocks the FinishThreeDSecure method.
func (m *MockTokenizationUseCase) FinishThreeDSecure(ctx context.Context, tokenID string) (*domain.Token, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Token), args.Error(1)
}

// GetToken mocks the GetToken method.
func (m *MockTokenizationUseCase) GetToken(ctx context.Context, tokenID string) (*domain.Token, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Token), args.Error(1)
}

// AcceptedBrands mocks the AcceptedBrands method.
func (m *MockTokenizationUseCase) AcceptedBrands(ctx context.Context, tenantID string) ([]domain.Brand, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Brand), args.Error(1)
}
