package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// declineError mimics a typed gateway error that unwraps to a sentinel.
type declineError struct {
	Code string
}

func (e *declineError) Error() string { return "card declined: " + e.Code }

func (e *declineError) Unwrap() error { return ErrPaymentRequired }

func TestNew(t *testing.T) {
	err := New("brand not accepted")

	require.Error(t, err)
	assert.Equal(t, "brand not accepted", err.Error())
	assert.NotErrorIs(t, err, New("brand not accepted"))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wrap     func(error) error
		expected string
	}{
		{
			name:     "Success_Wrap",
			err:      ErrUpstream,
			wrap:     func(err error) error { return Wrap(err, "failed to create token") },
			expected: "failed to create token: upstream error",
		},
		{
			name:     "Success_Wrapf",
			err:      ErrNotFound,
			wrap:     func(err error) error { return Wrapf(err, "token %s", "tok_1") },
			expected: "token tok_1: not found",
		},
		{
			name:     "Success_Nested",
			err:      ErrTransport,
			wrap:     func(err error) error { return Wrap(Wrap(err, "get token"), "finish 3-D Secure") },
			expected: "finish 3-D Secure: get token: transport error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := tt.wrap(tt.err)

			require.Error(t, wrapped)
			assert.Equal(t, tt.expected, wrapped.Error())
			assert.True(t, Is(wrapped, tt.err))
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))
}

func TestIs(t *testing.T) {
	wrapped := Wrap(&declineError{Code: "card_declined"}, "create token")

	assert.True(t, Is(wrapped, ErrPaymentRequired))
	assert.False(t, Is(wrapped, ErrUpstream))
	assert.False(t, Is(ErrNotFound, ErrConflict))
}

func TestAs(t *testing.T) {
	wrapped := Wrapf(&declineError{Code: "expired_card"}, "token %s", "tok_1")

	var target *declineError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "expired_card", target.Code)

	var other *customTarget
	assert.False(t, As(errors.New("plain"), &other))
}

type customTarget struct{}

func (*customTarget) Error() string { return "custom" }

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrPaymentRequired,
		ErrUpstream,
		ErrTransport,
		ErrUnknownResponse,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
