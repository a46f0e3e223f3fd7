package typedevent

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/typedevent/pkg/typedevent/observability"
)

// expectation is the transient registration behind Expect.
type expectation[A, R any] struct {
	ch      *Channel[A, R]
	id      uint64
	timeout time.Duration
	future  *Future[*Instance[A, R]]

	mu    sync.Mutex // guards timer
	timer Timer
}

// finish settles the future and tears the registration down. Only the first
// caller, match or deadline, gets past the settle guard; it reports whether
// this call was that caller.
func (x *expectation[A, R]) finish(inst *Instance[A, R], err error, outcome string) bool {
	if !x.future.settle(inst, err) {
		return false
	}
	x.ch.remove(x.id)

	x.mu.Lock()
	if x.timer != nil {
		x.timer.Stop()
	}
	x.mu.Unlock()

	if outcome == observability.OutcomeTimeout {
		observability.LogExpectTimeout(x.ch.logger, x.id, x.timeout)
	}
	x.ch.cfg.metrics.RecordWaiter(context.Background(), x.ch.cfg.name, "expect", outcome)
	return true
}

// Expect returns a future resolving with the first emitted instance that
// satisfies pred. A nil pred matches the next emission.
//
// With timeout > 0 a deadline is armed now; if it passes first the future
// rejects with a *TimeoutError (errors.Is(err, ErrTimeout)) and never resolves
// afterwards. With NoTimeout the future stays pending until a match. Either
// way the registration is removed once the future settles.
//
// The resolved instance is the one shared with the emission's handlers, so
// handlers registered after the waiter may still be writing to it when the
// future resolves.
func (c *Channel[A, R]) Expect(pred Predicate[A, R], timeout time.Duration) *Future[*Instance[A, R]] {
	x := &expectation[A, R]{
		ch:      c,
		id:      c.nextID.Add(1),
		timeout: timeout,
		future:  newFuture[*Instance[A, R]](),
	}
	x.future.cancel = func() {
		x.finish(nil, ErrCanceled, observability.OutcomeCanceled)
	}

	c.insert(x.id, HandlerFunc[A, R](func(ctx context.Context, e *Instance[A, R]) error {
		if pred.match(e) && x.finish(e, nil, observability.OutcomeResolved) {
			c.cfg.spans.AddSpanEvent(ctx, "typedevent.waiter.resolved", attribute.String("waiter.kind", "expect"))
		}
		return nil
	}), "expect")

	if timeout > 0 {
		x.mu.Lock()
		if !x.future.Settled() {
			x.timer = c.cfg.clock.AfterFunc(timeout, func() {
				x.finish(nil, &TimeoutError{Channel: c.cfg.name, Duration: timeout}, observability.OutcomeTimeout)
			})
		}
		x.mu.Unlock()
	}

	return x.future
}

// ExpectDefault is Expect with the timeout set by WithDefaultTimeout.
func (c *Channel[A, R]) ExpectDefault(pred Predicate[A, R]) *Future[*Instance[A, R]] {
	return c.Expect(pred, c.cfg.defaultTimeout)
}

// Async returns a future resolving with the arguments of the very next emission.
func (c *Channel[A, R]) Async() *Future[A] {
	return c.asyncWaiter(nil, "async")
}

// AsyncPred returns a future resolving with the arguments of the first
// emission satisfying pred. Unlike Expect it has no deadline.
func (c *Channel[A, R]) AsyncPred(pred Predicate[A, R]) *Future[A] {
	return c.asyncWaiter(pred, "async_pred")
}

func (c *Channel[A, R]) asyncWaiter(pred Predicate[A, R], kind string) *Future[A] {
	f := newFuture[A]()
	resolve := func(ctx context.Context, e *Instance[A, R]) error {
		if f.settle(e.Args(), nil) {
			c.cfg.metrics.RecordWaiter(context.Background(), c.cfg.name, kind, observability.OutcomeResolved)
			c.cfg.spans.AddSpanEvent(ctx, "typedevent.waiter.resolved", attribute.String("waiter.kind", kind))
		}
		return nil
	}

	var cancel func()
	if pred == nil {
		cancel = c.Once(resolve)
	} else {
		cancel = c.OncePred(resolve, pred)
	}

	f.cancel = func() {
		cancel()
		var zero A
		if f.settle(zero, ErrCanceled) {
			c.cfg.metrics.RecordWaiter(context.Background(), c.cfg.name, kind, observability.OutcomeCanceled)
		}
	}
	return f
}
