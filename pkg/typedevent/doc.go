// Package typedevent provides typed, in-process event channels.
//
// # Overview
//
// A channel is created per hook point with New. Handlers register on it and
// every emission invokes them in registration order, sequentially, on the
// emitting goroutine. All handlers of one emission share a single Instance,
// so a handler can publish a result that later handlers and the emitter see:
//
//	type Plugin struct{ Name string }
//
//	loaded := typedevent.New[Plugin, int]()
//
//	off := loaded.On(func(ctx context.Context, e *typedevent.Instance[Plugin, int]) error {
//	    e.SetResult(e.ResultOr(0) + 1)
//	    return nil
//	})
//	defer off()
//
//	e, err := loaded.Emit(ctx, Plugin{Name: "auth"})
//	n, _ := e.Result() // 1
//
// Channels without a payload use Void for the argument type and pass Void{}
// to Emit.
//
// # One-shot Registrations
//
// Once fires on the next emission only; OncePred fires on the first emission
// satisfying a predicate. Both remove themselves before the handler runs, so
// they never fire twice even under concurrent emissions.
//
// # Waiters
//
// Expect, Async and AsyncPred return a *Future that settles when a matching
// emission happens:
//
//	ready := ch.Expect(func(e *typedevent.Instance[string, typedevent.Void]) bool {
//	    return e.Args() == "ready"
//	}, 5*time.Second)
//
//	inst, err := ready.Wait(ctx)
//	if errors.Is(err, typedevent.ErrTimeout) {
//	    // no "ready" within 5s
//	}
//
// Expect is the only operation with a built-in deadline. The timer comes from
// the channel's Clock, replaceable with WithClock.
//
// # Errors
//
// The first handler error aborts the emission. It reaches the emitter wrapped
// in a *HandlerError; later handlers are not invoked. Panics propagate unless
// the channel was built WithRecover, in which case they surface as *PanicError.
// Nothing is retried or logged in place of being returned.
//
// # Mutation During Dispatch
//
// Each emission iterates a snapshot of the handlers registered when it
// starts. Handlers added during an emission first run on the next one; a
// handler removed by another handler mid-emission still runs in that
// emission if it was in the snapshot. One-shot registrations guard
// themselves and do not fire after being claimed or canceled.
//
// # Instrumentation
//
// WithLogger, WithMetrics and WithSpans plug in slog logging and
// OpenTelemetry metrics and traces from the observability package. All are
// disabled by default.
package typedevent
