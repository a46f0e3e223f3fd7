package typedevent

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/typedevent/pkg/typedevent/observability"
	"github.com/randalmurphal/typedevent/pkg/typedevent/registry"
)

// entry is one registration in a channel's handler registry.
type entry[A, R any] struct {
	id       uint64
	listener Listener[A, R]
	key      any // identity key, nil when the listener can't be deduplicated
}

// Channel is a typed event channel: handlers register on it and every
// emission invokes them in registration order, one after another.
//
// A Channel is safe for concurrent use. Each emission works on a snapshot of
// the handlers registered when it starts, so handlers may register or
// unregister freely while dispatch is running.
type Channel[A, R any] struct {
	id     string
	cfg    channelConfig
	logger *slog.Logger

	handlers *registry.Registry[uint64, *entry[A, R]]
	nextID   atomic.Uint64

	mu        sync.Mutex // guards listeners and keeps it in step with handlers
	listeners map[any]uint64
}

// New creates an independent channel. Channels carry no shared state with
// each other; dropping every reference to one is its only teardown.
//
// Example:
//
//	loaded := typedevent.New[Plugin, error](typedevent.WithName("plugin.loaded"))
func New[A, R any](opts ...Option) *Channel[A, R] {
	cfg := defaultChannelConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Channel[A, R]{
		id:        uuid.New().String(),
		cfg:       cfg,
		handlers:  registry.New[uint64, *entry[A, R]](),
		listeners: make(map[any]uint64),
	}
	if cfg.name == "" {
		c.cfg.name = c.id
	}
	c.logger = observability.EnrichLogger(cfg.logger, c.id, c.cfg.name)
	return c
}

// ID returns the unique channel identifier.
func (c *Channel[A, R]) ID() string {
	return c.id
}

// Name returns the name given with WithName, or the ID.
func (c *Channel[A, R]) Name() string {
	return c.cfg.name
}

// Len returns the number of registered handlers.
func (c *Channel[A, R]) Len() int {
	return c.handlers.Len()
}

// On registers fn for every emission and returns a function that removes it.
// The returned function is idempotent. Every call to On creates a distinct
// registration, even for the same function.
func (c *Channel[A, R]) On(fn HandlerFunc[A, R]) (unregister func()) {
	if fn == nil {
		panic("typedevent: nil handler")
	}
	return c.add(fn, "handler")
}

// Subscribe registers a listener for every emission and returns a function
// that removes it. Subscribing a listener that is already registered (for
// example the same pointer) keeps the original registration and position;
// the returned function removes that registration.
func (c *Channel[A, R]) Subscribe(l Listener[A, R]) (unregister func()) {
	if l == nil {
		panic("typedevent: nil listener")
	}
	return c.add(l, "listener")
}

// Clear removes every registration. Pending waiters stay pending unless
// they carry a deadline.
func (c *Channel[A, R]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.handlers.Clear()
	clear(c.listeners)
	if c.logger != nil {
		c.logger.Debug("handlers cleared", slog.Int("removed", n))
	}
}

func (c *Channel[A, R]) add(l Listener[A, R], kind string) func() {
	key, dedup := identityKey(l)

	c.mu.Lock()
	if dedup {
		if id, exists := c.listeners[key]; exists {
			c.mu.Unlock()
			return c.unregisterFunc(id)
		}
	}
	id := c.nextID.Add(1)
	c.insertLocked(id, l, key)
	c.mu.Unlock()

	observability.LogRegister(c.logger, id, kind)
	return c.unregisterFunc(id)
}

// insert registers l under a pre-allocated id. Used by wrappers that need
// their own id before they can be invoked.
func (c *Channel[A, R]) insert(id uint64, l Listener[A, R], kind string) {
	c.mu.Lock()
	c.insertLocked(id, l, nil)
	c.mu.Unlock()
	observability.LogRegister(c.logger, id, kind)
}

func (c *Channel[A, R]) insertLocked(id uint64, l Listener[A, R], key any) {
	c.handlers.Register(id, &entry[A, R]{id: id, listener: l, key: key})
	if key != nil {
		c.listeners[key] = id
	}
}

// remove deletes a registration. Removing an absent id is a no-op.
func (c *Channel[A, R]) remove(id uint64) {
	c.mu.Lock()
	e, ok := c.handlers.Get(id)
	if ok {
		c.handlers.Delete(id)
		if e.key != nil {
			delete(c.listeners, e.key)
		}
	}
	c.mu.Unlock()

	if ok {
		observability.LogUnregister(c.logger, id)
	}
}

func (c *Channel[A, R]) unregisterFunc(id uint64) func() {
	return func() { c.remove(id) }
}

// Emit invokes every registered handler with a new Instance carrying args
// and an empty result slot. Handlers run sequentially in registration order;
// each returns before the next starts. The same Instance is returned once all
// handlers have finished.
//
// The first handler error aborts the emission and is returned wrapped in a
// *HandlerError, together with the Instance as the earlier handlers left it.
// If ctx ends between two handlers the emission stops with a *CancellationError.
func (c *Channel[A, R]) Emit(ctx context.Context, args A) (*Instance[A, R], error) {
	inst := c.newInstance(args)
	return inst, c.dispatch(ctx, inst)
}

// EmitResult is Emit with the result slot initialised to result.
//
// Feeding the result of one emission into the next accumulates across emissions:
//
//	e, _ := counter.Emit(ctx, Void{})
//	e, _ = counter.EmitResult(ctx, Void{}, e.ResultOr(0))
func (c *Channel[A, R]) EmitResult(ctx context.Context, args A, result R) (*Instance[A, R], error) {
	inst := c.newInstance(args)
	inst.SetResult(result)
	return inst, c.dispatch(ctx, inst)
}

func (c *Channel[A, R]) newInstance(args A) *Instance[A, R] {
	return &Instance[A, R]{
		channel: c,
		id:      uuid.New().String(),
		args:    args,
	}
}

func (c *Channel[A, R]) dispatch(ctx context.Context, inst *Instance[A, R]) error {
	entries := c.handlers.Values()
	start := time.Now()

	ctx, span := c.cfg.spans.StartEmitSpan(ctx, c.cfg.name, inst.id)
	observability.LogEmitStart(c.logger, inst.id, len(entries))

	finished := false
	defer func() {
		// A handler panic is unwinding through dispatch.
		if !finished {
			c.cfg.metrics.RecordEmit(ctx, c.cfg.name, len(entries), time.Since(start), errHandlerPanicked)
			c.cfg.spans.EndSpanWithError(span, errHandlerPanicked)
		}
	}()

	for i, e := range entries {
		var err error
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = &CancellationError{Channel: c.cfg.name, Index: i, Cause: ctxErr}
		} else if hErr := c.invoke(ctx, i, e, inst); hErr != nil {
			err = &HandlerError{Channel: c.cfg.name, EmitID: inst.id, Index: i, Err: hErr}
		}
		if err != nil {
			finished = true
			elapsed := time.Since(start)
			observability.LogEmitError(c.logger, inst.id, err, elapsed, i)
			c.cfg.metrics.RecordEmit(ctx, c.cfg.name, len(entries), elapsed, err)
			c.cfg.spans.EndSpanWithError(span, err)
			return err
		}
	}

	finished = true
	elapsed := time.Since(start)
	observability.LogEmitComplete(c.logger, inst.id, elapsed, len(entries))
	c.cfg.metrics.RecordEmit(ctx, c.cfg.name, len(entries), elapsed, nil)
	c.cfg.spans.EndSpanWithError(span, nil)
	return nil
}

// invoke runs one handler inside its own span.
func (c *Channel[A, R]) invoke(ctx context.Context, index int, e *entry[A, R], inst *Instance[A, R]) (err error) {
	hctx, span := c.cfg.spans.StartHandlerSpan(ctx, c.cfg.name, index)
	start := time.Now()

	returned := false
	defer func() {
		if !returned {
			err = errHandlerPanicked
		}
		c.cfg.metrics.RecordHandler(ctx, c.cfg.name, time.Since(start), err)
		c.cfg.spans.EndSpanWithError(span, err)
	}()

	err = c.call(hctx, e.listener, inst)
	returned = true
	return err
}

func (c *Channel[A, R]) call(ctx context.Context, l Listener[A, R], inst *Instance[A, R]) (err error) {
	if c.cfg.recover {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: string(debug.Stack())}
			}
		}()
	}
	return l.HandleEvent(ctx, inst)
}
