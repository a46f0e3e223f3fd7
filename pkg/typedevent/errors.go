package typedevent

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for waiters.
var (
	// ErrTimeout indicates an Expect deadline passed without a matching emission.
	ErrTimeout = errors.New("typedevent: expect timed out")

	// ErrCanceled indicates a waiter was canceled before it resolved.
	ErrCanceled = errors.New("typedevent: waiter canceled")

	// ErrPending is returned by Future.Result while the future is unsettled.
	ErrPending = errors.New("typedevent: future pending")
)

// errHandlerPanicked marks spans and metrics of a handler panic that
// propagates to the emitter.
var errHandlerPanicked = errors.New("typedevent: handler panicked")

// HandlerError wraps the error of the handler that aborted an emission.
// Handlers after Index in registration order were not invoked.
type HandlerError struct {
	// Channel is the channel name, or its ID when unnamed.
	Channel string
	// EmitID identifies the aborted emission.
	EmitID string
	// Index is the position of the failing handler in the dispatch snapshot.
	Index int
	// Err is the error returned by the handler.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("channel %s: handler %d: %v", e.Channel, e.Index, e.Err)
}

// Unwrap returns the handler's error for errors.Is/As support.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError captures a recovered handler panic when WithRecover is set.
// It includes the stack trace for debugging.
type PanicError struct {
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// CancellationError reports an emission stopped because its context ended
// before the handler at Index could start.
type CancellationError struct {
	// Channel is the channel name, or its ID when unnamed.
	Channel string
	// Index is the handler that would have run next.
	Index int
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("channel %s: cancelled before handler %d: %v", e.Channel, e.Index, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// TimeoutError is the rejection of an Expect future whose deadline passed.
type TimeoutError struct {
	// Channel is the channel name, or its ID when unnamed.
	Channel string
	// Duration is the deadline that elapsed.
	Duration time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("channel %s: no matching event within %s", e.Channel, e.Duration)
}

// Unwrap returns ErrTimeout for errors.Is support.
func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// Timeout reports true, matching the net.Error convention.
func (e *TimeoutError) Timeout() bool {
	return true
}
