package typedevent

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports false if the
	// callback already fired or the timer was already stopped.
	Stop() bool
}

// Clock arms the timers used by Expect deadlines.
// Inject a fake with WithClock to drive timeouts deterministically.
type Clock interface {
	// AfterFunc calls f in its own goroutine once d has elapsed.
	// f must not run before AfterFunc returns.
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
