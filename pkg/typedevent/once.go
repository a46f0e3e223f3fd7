package typedevent

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
)

// Once registers fn for the next emission only. fn observes at most one
// emission ever, even when emissions run concurrently: the registration is
// claimed and removed before fn is invoked.
//
// The returned function cancels the registration if it has not fired yet;
// afterwards it is a no-op.
func (c *Channel[A, R]) Once(fn HandlerFunc[A, R]) (cancel func()) {
	if fn == nil {
		panic("typedevent: nil handler")
	}
	return c.once(fn, nil, "once")
}

// OncePred registers fn for the first emission that satisfies pred.
// Emissions failing pred leave the registration in place and do not invoke fn.
// pred runs on the emitting goroutine as part of this handler's dispatch step.
func (c *Channel[A, R]) OncePred(fn HandlerFunc[A, R], pred Predicate[A, R]) (cancel func()) {
	if fn == nil {
		panic("typedevent: nil handler")
	}
	return c.once(fn, pred, "once_pred")
}

func (c *Channel[A, R]) once(fn HandlerFunc[A, R], pred Predicate[A, R], kind string) func() {
	var fired atomic.Bool
	id := c.nextID.Add(1)

	c.insert(id, HandlerFunc[A, R](func(ctx context.Context, e *Instance[A, R]) error {
		if fired.Load() || !pred.match(e) {
			return nil
		}
		// Another emission may hold this wrapper in its snapshot too.
		if !fired.CompareAndSwap(false, true) {
			return nil
		}
		c.remove(id)
		c.cfg.spans.AddSpanEvent(ctx, "typedevent.once.claimed",
			attribute.Int64("registration.id", int64(id)),
			attribute.String("registration.kind", kind),
		)
		return fn(ctx, e)
	}), kind)

	return func() {
		fired.Store(true)
		c.remove(id)
	}
}
