// Package notify provides the subscriber-list primitive shared by the
// session store, the playback engine and the profile synchronizer:
// register a callback, get called once per state transition, unsubscribe
// with the returned func.
package notify

import "sync"

// Notifier fans a state snapshot out to registered subscribers.
// The zero value is not usable; call New.
type Notifier[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
}

// New creates an empty notifier.
func New[T any]() *Notifier[T] {
	return &Notifier[T]{subs: make(map[int]func(T))}
}

// Subscribe registers fn and returns its unsubscribe func.
// Unsubscribing twice is harmless.
func (n *Notifier[T]) Subscribe(fn func(T)) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Publish delivers state to every current subscriber, exactly once each.
// Callbacks run on the publisher's goroutine; they must not block.
func (n *Notifier[T]) Publish(state T) {
	n.mu.Lock()
	fns := make([]func(T), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
