package task

import (
	"sync"
)

// Executor runs functions asynchronously. Execute must not run fn on the calling
// goroutine before returning; task callbacks rely on that to fire after Enqueue returns.
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(fn func())

// Execute calls f(fn).
func (f ExecutorFunc) Execute(fn func()) {
	f(fn)
}

type goExecutor struct{}

// NewGoExecutor returns an Executor that starts a new goroutine per function.
func NewGoExecutor() Executor {
	return goExecutor{}
}

// Execute runs fn on a new goroutine.
func (goExecutor) Execute(fn func()) {
	go fn()
}

// SerialExecutor runs functions one at a time, in submission order, on a single
// goroutine. It models a UI-affine callback thread.
type SerialExecutor struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	done   chan struct{}
}

// NewSerialExecutor starts the worker goroutine. Call Close to stop it.
func NewSerialExecutor() *SerialExecutor {
	e := &SerialExecutor{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go e.loop()
	return e
}

// Execute appends fn to the queue. Functions submitted after Close are dropped.
func (e *SerialExecutor) Execute(fn func()) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.queue = append(e.queue, fn)
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Close drains already-queued functions and waits for the worker to exit.
func (e *SerialExecutor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		<-e.done
		return
	}
	e.closed = true
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
	<-e.done
}

func (e *SerialExecutor) loop() {
	defer close(e.done)
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			if e.closed {
				e.mu.Unlock()
				return
			}
			e.mu.Unlock()
			<-e.wake
			continue
		}
		fn := e.queue[0]
		e.queue[0] = nil
		e.queue = e.queue[1:]
		e.mu.Unlock()

		fn()
	}
}

// ManualExecutor queues functions until RunPending is called. Tests use it to pause
// a pipeline at an exact hand-off point.
type ManualExecutor struct {
	mu    sync.Mutex
	queue []func()
}

// NewManualExecutor creates an empty, paused executor.
func NewManualExecutor() *ManualExecutor {
	return &ManualExecutor{}
}

// Execute queues fn without running it.
func (e *ManualExecutor) Execute(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append(e.queue, fn)
}

// Pending returns the number of queued functions.
func (e *ManualExecutor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// RunPending runs queued functions on the calling goroutine until the queue is empty,
// including functions queued while running. Returns how many ran.
func (e *ManualExecutor) RunPending() int {
	ran := 0
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.mu.Unlock()
			return ran
		}
		fn := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		fn()
		ran++
	}
}
