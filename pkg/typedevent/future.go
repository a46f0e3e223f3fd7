package typedevent

import (
	"context"
	"sync"
)

// Future is the pending outcome of a waiter such as Expect or Async.
// It settles exactly once, with either a value or an error.
type Future[T any] struct {
	done   chan struct{}
	once   sync.Once
	value  T
	err    error
	cancel func()
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// settle records the outcome. It reports false if the future had already settled.
func (f *Future[T]) settle(value T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value, f.err = value, err
		close(f.done)
		settled = true
	})
	return settled
}

// Wait blocks until the future settles or ctx ends. A ctx error is returned
// as is and leaves the waiter registered; call Cancel to drop it.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has a value or an error.
func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome without blocking, or ErrPending if unsettled.
func (f *Future[T]) Result() (T, error) {
	if !f.Settled() {
		var zero T
		return zero, ErrPending
	}
	return f.value, f.err
}

// Cancel removes the waiter's handler and rejects the future with
// ErrCanceled. It is a no-op once the future has settled.
func (f *Future[T]) Cancel() {
	if f.cancel != nil {
		f.cancel()
	}
}
