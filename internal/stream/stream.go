// Package stream provides a current-value broadcast primitive: a value holder
// that remembers its latest value and pushes every change to registered
// subscribers. It is the backbone of the session and notification state.
package stream

import "sync"

// Value holds the most recent value of type T and a set of subscribers.
//
// All callbacks run synchronously on the goroutine that calls Set, so a
// subscriber observes changes in publication order. Subscribers must not call
// back into the same Value from inside their callback.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	nextID  int
	subs    map[int]func(T)
}

// New creates a Value seeded with initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[int]func(T)),
	}
}

// Get returns the most recently published value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set publishes a new value to all current subscribers.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.current = val
	fns := make([]func(T), 0, len(v.subs))
	for _, fn := range v.subs {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

// Subscribe registers fn and immediately invokes it with the current value.
// The returned cancel function removes the subscription; calling it more than
// once is harmless. The stream itself never completes.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	current := v.current
	v.mu.Unlock()

	fn(current)

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// Map returns a derived read-only view of parent: every published value is
// transformed through fn. The derived view keeps its own subscriber set and
// stays subscribed to the parent for the lifetime of the process, which is
// fine for the long-lived stores this package serves.
func Map[T, U any](parent *Value[T], fn func(T) U) *View[U] {
	derived := New(fn(parent.Get()))
	parent.Subscribe(func(val T) {
		derived.Set(fn(val))
	})
	return &View[U]{inner: derived}
}

// View is a read-only stream of derived values.
type View[U any] struct {
	inner *Value[U]
}

// Get returns the latest derived value.
func (w *View[U]) Get() U {
	return w.inner.Get()
}

// Subscribe registers fn for the derived values; see Value.Subscribe.
func (w *View[U]) Subscribe(fn func(U)) (cancel func()) {
	return w.inner.Subscribe(fn)
}
