// Package task wraps timer-driven work behind a start/cancel/complete
// contract so callers can swap a simulated delay for a real call later.
package task

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrAlreadyStarted = errors.New("task already started")

// RunFunc is the body of a task. It must return promptly once ctx is done.
type RunFunc func(ctx context.Context) error

type Option func(*Task)

// OnComplete registers fn to run on the task goroutine when the body
// returns. It is not called when the task was canceled.
func OnComplete(fn func(err error)) Option {
	return func(t *Task) {
		t.onComplete = fn
	}
}

type Task struct {
	run        RunFunc
	onComplete func(error)

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

func New(run RunFunc, opts ...Option) *Task {
	t := &Task{
		run:  run,
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start runs the task body on its own goroutine. A task runs at most once.
func (t *Task) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return ErrAlreadyStarted
	}
	t.started = true

	ctx, t.cancel = context.WithCancel(ctx)
	go t.loop(ctx)
	return nil
}

func (t *Task) loop(ctx context.Context) {
	defer close(t.done)

	err := t.run(ctx)

	t.mu.Lock()
	t.err = err
	t.mu.Unlock()

	if ctx.Err() == nil && t.onComplete != nil {
		t.onComplete(err)
	}
}

// Cancel stops the task and waits for its goroutine to exit, so nothing the
// task does is observable after Cancel returns. Must not be called from the
// task's own body or completion callback.
func (t *Task) Cancel() {
	t.mu.Lock()
	started, cancel := t.started, t.cancel
	t.mu.Unlock()

	if !started {
		return
	}
	cancel()
	<-t.done
}

// Done is closed when the task body has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Delay returns a body that sleeps for d and then calls fn.
func Delay(d time.Duration, fn RunFunc) RunFunc {
	return func(ctx context.Context) error {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		if fn == nil {
			return nil
		}
		return fn(ctx)
	}
}

// TickFunc handles one tick and reports whether the task is finished.
type TickFunc func(ctx context.Context) (done bool, err error)

// Tick returns a body that calls fn every period until fn reports done,
// returns an error, or ctx is canceled.
func Tick(period time.Duration, fn TickFunc) RunFunc {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				done, err := fn(ctx)
				if err != nil {
					return err
				}
				if done {
					return nil
				}
			}
		}
	}
}
