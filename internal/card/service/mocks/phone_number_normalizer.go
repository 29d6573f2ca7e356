// Package mocks provides mock implementations of card service collaborators for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockPhoneNumberNormalizer is a mock implementation of service.PhoneNumberNormalizer.
type MockPhoneNumberNormalizer struct {
	mock.Mock
}

// NormalizeE164 mocks the NormalizeE164 method.
func (m *MockPhoneNumberNormalizer) NormalizeE164(raw, region string) (string, bool) {
	args := m.Called(raw, region)
	return args.String(0), args.Bool(1)
}

// ExampleNumberLength mocks the ExampleNumberLength method.
func (m *MockPhoneNumberNormalizer) ExampleNumberLength(region string) int {
	args := m.Called(region)
	return args.Int(0)
}
