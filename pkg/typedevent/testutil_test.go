package typedevent

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

func testCtx() context.Context {
	return context.Background()
}

// countHandler returns a handler that increments n.
func countHandler[A, R any](n *atomic.Int32) HandlerFunc[A, R] {
	return func(_ context.Context, _ *Instance[A, R]) error {
		n.Add(1)
		return nil
	}
}

// trackHandler returns a handler that appends name to the shared log.
func trackHandler[A, R any](name string, log *[]string) HandlerFunc[A, R] {
	return func(_ context.Context, _ *Instance[A, R]) error {
		*log = append(*log, name)
		return nil
	}
}

// countingListener is a comparable listener used for identity tests.
type countingListener struct {
	calls atomic.Int32
}

func (l *countingListener) HandleEvent(_ context.Context, _ *Instance[string, Void]) error {
	l.calls.Add(1)
	return nil
}

// fakeClock fires timers only when Advance is called.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	done    bool
	stopped bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every timer that came due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.done && t.at <= c.now {
			t.done = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Pending returns the number of armed timers that have neither fired nor been stopped.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.stopped = true
	return true
}

// recordingMetrics captures MetricsRecorder calls.
type recordingMetrics struct {
	mu       sync.Mutex
	emits    []emitRecord
	handlers int
	errors   int
	waiters  []string
}

type emitRecord struct {
	channel  string
	handlers int
	err      error
}

func (m *recordingMetrics) RecordEmit(_ context.Context, channel string, handlers int, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emits = append(m.emits, emitRecord{channel: channel, handlers: handlers, err: err})
}

func (m *recordingMetrics) RecordHandler(_ context.Context, _ string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers++
	if err != nil {
		m.errors++
	}
}

func (m *recordingMetrics) RecordWaiter(_ context.Context, _, kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waiters = append(m.waiters, kind+":"+outcome)
}

func (m *recordingMetrics) waiterOutcomes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.waiters...)
}

// wrapListener is a comparable struct type that delegates to another listener.
type wrapListener struct {
	inner Listener[string, Void]
}

func (w wrapListener) HandleEvent(ctx context.Context, e *Instance[string, Void]) error {
	return w.inner.HandleEvent(ctx, e)
}
