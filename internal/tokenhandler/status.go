// Package tokenhandler runs merchant post-processing on freshly created tokens.
//
// A Handler is invoked on a background executor, its Status is marshaled on a
// second, distinct background executor and finally delivered to the caller's
// callback executor. Cancel suppresses delivery at every hand-off.
//
// The last check happens on the callback executor right before the callback is
// called. A callback that has passed it is already committed: Cancel does not wait
// for it, so it may still start after Cancel returns. Callbacks are free to call
// Cancel themselves.
package tokenhandler

import (
	"context"

	"github.com/allisson/cardtoken/internal/card/domain"
)

// StatusKind is the outcome reported by a Handler.
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusFailure StatusKind = "failure"
)

// Status is the result of handling a token. Message is set for failures only.
type Status struct {
	Kind    StatusKind
	Message string
}

// Success returns a successful status.
func Success() Status {
	return Status{Kind: StatusSuccess}
}

// Failure returns a failed status carrying a message for the holder.
func Failure(message string) Status {
	return Status{Kind: StatusFailure, Message: message}
}

// IsSuccess reports whether s is a success.
func (s Status) IsSuccess() bool {
	return s.Kind == StatusSuccess
}

// Handler decides what happens with a created token, typically by asking the
// merchant's own server. ctx is canceled when the executor is canceled.
type Handler interface {
	HandleToken(ctx context.Context, token *domain.Token) Status
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, token *domain.Token) Status

// HandleToken calls f.
func (f HandlerFunc) HandleToken(ctx context.Context, token *domain.Token) Status {
	return f(ctx, token)
}
