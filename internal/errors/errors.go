// Package errors defines the sentinel errors shared by the card packages. The gateway
// client classifies remote failures into them and HTTP handlers map them to status
// codes, so callers compare with Is rather than inspecting messages.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the token or resource does not exist at the gateway.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the operation clashes with current state, such as a task
	// started twice or a token that was already used.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the gateway rejected the configured public key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPaymentRequired indicates the card was declined or otherwise rejected by the gateway.
	ErrPaymentRequired = errors.New("payment required")

	// ErrUpstream indicates the remote gateway failed with a server-side error.
	ErrUpstream = errors.New("upstream error")

	// ErrTransport indicates the request never produced an HTTP response (I/O failure).
	ErrTransport = errors.New("transport error")

	// ErrUnknownResponse indicates an error response whose body could not be understood.
	ErrUnknownResponse = errors.New("unknown response")
)

// New creates an error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap adds context to err while keeping it matchable with Is and As.
// Returns nil when err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap but formats the message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
