package task

import (
	"context"
	"sync"
)

// Success returns a task that immediately produces value.
func Success[T any](value T, opts ...Option) *Task[T] {
	return New(func(ctx context.Context) (T, error) {
		return value, nil
	}, opts...)
}

// Failure returns a task that immediately fails with err.
func Failure[T any](err error, opts ...Option) *Task[T] {
	return New(func(ctx context.Context) (T, error) {
		var zero T
		return zero, err
	}, opts...)
}

// Completer resolves a task created by Pending. Only the first call has an effect.
type Completer[T any] struct {
	once   sync.Once
	result chan result[T]
}

type result[T any] struct {
	value T
	err   error
}

// Succeed resolves the pending task with value.
func (c *Completer[T]) Succeed(value T) {
	c.once.Do(func() {
		c.result <- result[T]{value: value}
	})
}

// Fail resolves the pending task with err.
func (c *Completer[T]) Fail(err error) {
	c.once.Do(func() {
		c.result <- result[T]{err: err}
	})
}

// Pending returns a task that stays outstanding until the Completer resolves it or its
// context is canceled. It models an in-flight request in tests.
func Pending[T any](opts ...Option) (*Task[T], *Completer[T]) {
	completer := &Completer[T]{result: make(chan result[T], 1)}

	t := New(func(ctx context.Context) (T, error) {
		select {
		case r := <-completer.result:
			return r.value, r.err
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}, opts...)

	return t, completer
}
