package typedevent

import (
	"context"
	"reflect"
)

// Void is the argument or result type of channels that carry no payload.
//
//	ready := typedevent.New[typedevent.Void, typedevent.Void]()
//	ready.Emit(ctx, typedevent.Void{})
type Void = struct{}

// Listener handles emissions of a channel.
//
// Returning an error aborts the emission: the error reaches the emitter
// and handlers registered after this one are not invoked.
type Listener[A, R any] interface {
	HandleEvent(ctx context.Context, e *Instance[A, R]) error
}

// HandlerFunc adapts a function to the Listener interface.
type HandlerFunc[A, R any] func(ctx context.Context, e *Instance[A, R]) error

// HandleEvent implements Listener.
func (f HandlerFunc[A, R]) HandleEvent(ctx context.Context, e *Instance[A, R]) error {
	return f(ctx, e)
}

// Predicate selects the emissions a conditional registration reacts to.
// A nil Predicate matches every emission.
type Predicate[A, R any] func(e *Instance[A, R]) bool

func (p Predicate[A, R]) match(e *Instance[A, R]) bool {
	return p == nil || p(e)
}

// identityKey returns the key used to collapse duplicate registrations of
// the same listener. Listeners whose value is not comparable get no key and
// are never collapsed. That includes every HandlerFunc and any comparable
// struct holding one in an interface field.
func identityKey(l any) (any, bool) {
	if !reflect.ValueOf(l).Comparable() {
		return nil, false
	}
	return l, true
}
