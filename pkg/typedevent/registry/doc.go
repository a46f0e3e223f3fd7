// Package registry provides a generic thread-safe registry that remembers
// insertion order.
//
// typedevent uses it as the handler registry of every channel: keys are
// registration IDs, values are handler entries, and dispatch iterates a
// snapshot taken with Values.
//
// # Basic Usage
//
//	r := registry.New[uint64, string]()
//	r.Register(1, "first")
//	r.Register(2, "second")
//	r.Register(1, "ignored") // already present, returns false
//
//	r.Values() // [first second]
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Values returns a
// snapshot, so Register and Delete may be called while iterating it without
// affecting the iteration itself:
//
//	for _, v := range r.Values() {
//	    r.Delete(idOf(v)) // won't affect current iteration
//	}
package registry
