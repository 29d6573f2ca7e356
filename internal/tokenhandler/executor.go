package tokenhandler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/allisson/cardtoken/internal/card/domain"
	"github.com/allisson/cardtoken/internal/task"
)

// Callback receives the handler status on the callback executor.
type Callback func(status Status)

// Option configures an Executor.
type Option func(*Executor)

// WithHandlerExecutor sets where the handler runs.
func WithHandlerExecutor(e task.Executor) Option {
	return func(x *Executor) {
		x.handlerExecutor = e
	}
}

// WithResultExecutor sets where the handler result is marshaled to the callback executor.
func WithResultExecutor(e task.Executor) Option {
	return func(x *Executor) {
		x.resultExecutor = e
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Executor) {
		x.logger = logger
	}
}

// Executor drives a Handler through the background, result and callback stages.
// An Executor is canceled as a whole; create one per checkout attempt.
type Executor struct {
	handler         Handler
	handlerExecutor task.Executor
	resultExecutor  task.Executor
	logger          *slog.Logger

	canceled atomic.Bool
	ctx      context.Context
	stop     context.CancelFunc
}

// NewExecutor creates an Executor for handler. Both background stages default to
// their own goroutine executors.
func NewExecutor(handler Handler, opts ...Option) *Executor {
	ctx, stop := context.WithCancel(context.Background())
	x := &Executor{
		handler:         handler,
		handlerExecutor: task.NewGoExecutor(),
		resultExecutor:  task.NewGoExecutor(),
		ctx:             ctx,
		stop:            stop,
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.logger == nil {
		x.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return x
}

// Post hands token to the handler and delivers the resulting status to callback on
// callbackExecutor. Only a callback that passed its final check before Cancel can
// still run after Cancel returns.
func (x *Executor) Post(token *domain.Token, callbackExecutor task.Executor, callback Callback) {
	if x.canceled.Load() {
		x.logSuppressed(token, "post")
		return
	}

	x.handlerExecutor.Execute(func() {
		if x.canceled.Load() {
			x.logSuppressed(token, "handler")
			return
		}

		status := x.handle(token)

		x.resultExecutor.Execute(func() {
			if x.canceled.Load() {
				x.logSuppressed(token, "result")
				return
			}

			callbackExecutor.Execute(func() {
				if x.canceled.Load() {
					x.logSuppressed(token, "callback")
					return
				}
				callback(status)
			})
		})
	})
}

// Cancel stops delivery of every pending status and cancels running handlers. It is
// idempotent and never blocks, so it is safe to call from a callback.
func (x *Executor) Cancel() {
	if x.canceled.CompareAndSwap(false, true) {
		x.stop()
		x.logger.Debug("token handler canceled")
	}
}

// IsCanceled reports whether Cancel was called.
func (x *Executor) IsCanceled() bool {
	return x.canceled.Load()
}

// handle runs the handler, turning a panic into a failure status.
func (x *Executor) handle(token *domain.Token) (status Status) {
	defer func() {
		if r := recover(); r != nil {
			x.logger.Error("token handler panicked",
				slog.String("token_id", token.ID),
				slog.String("panic", fmt.Sprint(r)),
			)
			status = Failure("token handler failed")
		}
	}()
	return x.handler.HandleToken(x.ctx, token)
}

func (x *Executor) logSuppressed(token *domain.Token, stage string) {
	x.logger.Debug("token handler result suppressed",
		slog.String("token_id", token.ID),
		slog.String("stage", stage),
	)
}
