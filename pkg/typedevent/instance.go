package typedevent

// Instance is the record of one emission. A single Instance is passed by
// pointer to every handler of that emission, so writes to the result slot
// and the canceled flag are visible to later handlers and to the emitter.
//
// Handlers of one emission run one after another on the emitting goroutine;
// an Instance must not be mutated from other goroutines while dispatch runs.
type Instance[A, R any] struct {
	channel   *Channel[A, R]
	id        string
	args      A
	result    R
	hasResult bool
	canceled  bool
}

// Channel returns the channel that emitted this instance.
func (e *Instance[A, R]) Channel() *Channel[A, R] {
	return e.channel
}

// ID returns the unique emission identifier.
func (e *Instance[A, R]) ID() string {
	return e.id
}

// Args returns the arguments the emission was made with.
func (e *Instance[A, R]) Args() A {
	return e.args
}

// Result returns the result slot and whether it holds a value.
func (e *Instance[A, R]) Result() (R, bool) {
	return e.result, e.hasResult
}

// ResultOr returns the result, or fallback when the slot is empty.
func (e *Instance[A, R]) ResultOr(fallback R) R {
	if !e.hasResult {
		return fallback
	}
	return e.result
}

// SetResult stores a result for later handlers and the emitter.
func (e *Instance[A, R]) SetResult(r R) {
	e.result = r
	e.hasResult = true
}

// ClearResult empties the result slot.
func (e *Instance[A, R]) ClearResult() {
	var zero R
	e.result = zero
	e.hasResult = false
}

// Canceled reports the advisory canceled flag. The dispatcher never reads it;
// handlers that care must check it themselves.
func (e *Instance[A, R]) Canceled() bool {
	return e.canceled
}

// Cancel sets the canceled flag.
func (e *Instance[A, R]) Cancel() {
	e.canceled = true
}

// SetCanceled sets or clears the canceled flag.
func (e *Instance[A, R]) SetCanceled(canceled bool) {
	e.canceled = canceled
}
