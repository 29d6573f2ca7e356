// Package task provides a cancellable unit of asynchronous work. A Task wraps one
// operation producing a T and can be executed exactly once, either synchronously with
// Run or asynchronously with Enqueue. Cancellation suppresses result delivery: a
// callback is only invoked if it claimed delivery before Cancel. Cancel never waits
// for a claimed callback, so one may still be starting when Cancel returns; Cancel
// then reports nothing was canceled (IsCanceled stays false).
package task

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/allisson/cardtoken/internal/errors"
)

var (
	// ErrAlreadyExecuted indicates Run or Enqueue was called on a task that was already started.
	ErrAlreadyExecuted = apperrors.Wrap(apperrors.ErrConflict, "task already executed")

	// ErrCanceled indicates the task was canceled before it could run.
	ErrCanceled = apperrors.New("task canceled")
)

// State is the lifecycle state of a Task. Transitions only move forward.
type State int

const (
	StateCreated State = iota
	StateExecuting
	StateCompleted
	StateFailed
	StateCanceled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateExecuting:
		return "executing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

func (s State) terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCanceled
}

// Func is the operation wrapped by a Task. It should honor ctx cancellation.
type Func[T any] func(ctx context.Context) (T, error)

// Callback receives the outcome of an enqueued task. Exactly one method is called,
// exactly once, unless the task is canceled first.
type Callback[T any] interface {
	OnSuccess(value T)
	OnError(err error)
}

// CallbackFuncs adapts two functions to Callback. Nil functions are skipped.
type CallbackFuncs[T any] struct {
	Success func(value T)
	Error   func(err error)
}

// OnSuccess calls Success.
func (c CallbackFuncs[T]) OnSuccess(value T) {
	if c.Success != nil {
		c.Success(value)
	}
}

// OnError calls Error.
func (c CallbackFuncs[T]) OnError(err error) {
	if c.Error != nil {
		c.Error(err)
	}
}

// Option configures a Task.
type Option func(*options)

type options struct {
	name       string
	background Executor
	callback   Executor
	logger     *slog.Logger
}

// WithName labels the task in logs.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithBackgroundExecutor sets where the operation runs when enqueued.
func WithBackgroundExecutor(e Executor) Option {
	return func(o *options) {
		o.background = e
	}
}

// WithCallbackExecutor sets where enqueued callbacks are delivered.
func WithCallbackExecutor(e Executor) Option {
	return func(o *options) {
		o.callback = e
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Task is a single-shot cancellable operation.
type Task[T any] struct {
	id   uuid.UUID
	fn   Func[T]
	opts options

	mu        sync.Mutex
	state     State
	started   bool
	canceled  bool
	delivered bool
	stop      context.CancelFunc
}

// New creates a Task for fn. By default the operation runs on a new goroutine and
// callbacks are delivered on another.
func New[T any](fn Func[T], opts ...Option) *Task[T] {
	o := options{
		name:       "task",
		background: NewGoExecutor(),
		callback:   NewGoExecutor(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Task[T]{
		id:   uuid.Must(uuid.NewV7()),
		fn:   fn,
		opts: o,
	}
}

// ID returns the task identifier used in logs.
func (t *Task[T]) ID() uuid.UUID {
	return t.id
}

// State returns the current lifecycle state.
func (t *Task[T]) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsExecuted reports whether Run or Enqueue has been called.
func (t *Task[T]) IsExecuted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

// IsCanceled reports whether Cancel has been called before delivery.
func (t *Task[T]) IsCanceled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canceled
}

// start claims the single execution slot and returns the context the operation runs with.
func (t *Task[T]) start(parent context.Context) (context.Context, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.canceled {
		return nil, ErrCanceled
	}
	if t.started {
		return nil, ErrAlreadyExecuted
	}

	ctx, stop := context.WithCancel(parent)
	t.started = true
	t.state = StateExecuting
	t.stop = stop
	return ctx, nil
}

// finish records the outcome unless the task was canceled meanwhile.
// Returns false when the result must be dropped.
func (t *Task[T]) finish(err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		t.stop()
	}
	if t.canceled {
		return false
	}
	if err != nil {
		t.state = StateFailed
	} else {
		t.state = StateCompleted
	}
	return true
}

// claimDelivery marks the callback as delivered. Returns false when canceled.
func (t *Task[T]) claimDelivery() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.canceled || t.delivered {
		return false
	}
	t.delivered = true
	return true
}

// Run executes the operation on the calling goroutine and returns its result.
// Calling Run on a canceled or already started task returns an error without running.
func (t *Task[T]) Run(ctx context.Context) (T, error) {
	var zero T

	runCtx, err := t.start(ctx)
	if err != nil {
		return zero, err
	}

	value, err := t.invoke(runCtx)
	if !t.finish(err) {
		return zero, ErrCanceled
	}
	return value, err
}

// Enqueue starts the operation on the background executor and delivers the result to
// callback on the callback executor. It never blocks on the operation itself.
func (t *Task[T]) Enqueue(callback Callback[T]) error {
	return t.EnqueueContext(context.Background(), callback)
}

// EnqueueContext is like Enqueue but runs the operation with a context derived from
// ctx, so request-scoped values and deadlines reach it.
func (t *Task[T]) EnqueueContext(ctx context.Context, callback Callback[T]) error {
	runCtx, err := t.start(ctx)
	if err != nil {
		return err
	}

	t.opts.logger.Debug("task enqueued",
		slog.String("task", t.opts.name),
		slog.String("task_id", t.id.String()),
	)

	t.opts.background.Execute(func() {
		if t.IsCanceled() {
			t.finish(nil)
			t.logSuppressed("before execution")
			return
		}

		value, err := t.invoke(runCtx)
		if !t.finish(err) {
			t.logSuppressed("after execution")
			return
		}

		t.opts.callback.Execute(func() {
			if !t.claimDelivery() {
				t.logSuppressed("before delivery")
				return
			}
			if err != nil {
				callback.OnError(err)
				return
			}
			callback.OnSuccess(value)
		})
	})

	return nil
}

// Cancel stops result delivery and cancels the operation's context. It is idempotent
// and has no effect once the callback has started.
func (t *Task[T]) Cancel() {
	t.mu.Lock()
	if t.delivered || t.canceled {
		t.mu.Unlock()
		return
	}
	t.canceled = true
	if !t.state.terminal() {
		t.state = StateCanceled
	}
	stop := t.stop
	t.mu.Unlock()

	if stop != nil {
		stop()
	}

	t.opts.logger.Debug("task canceled",
		slog.String("task", t.opts.name),
		slog.String("task_id", t.id.String()),
	)
}

// invoke runs fn, turning a panic into an error.
func (t *Task[T]) invoke(ctx context.Context) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", t.opts.name, r)
		}
	}()
	return t.fn(ctx)
}

func (t *Task[T]) logSuppressed(stage string) {
	t.opts.logger.Debug("task result suppressed",
		slog.String("task", t.opts.name),
		slog.String("task_id", t.id.String()),
		slog.String("stage", stage),
	)
}
