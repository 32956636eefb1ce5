package worker

import "sync"

// Results collects values produced by jobs until the coordinator drains them.
type Results[T any] struct {
	mu    sync.Mutex
	items []T
}

// Push adds a value. Safe for concurrent use.
func (r *Results[T]) Push(v T) {
	r.mu.Lock()
	r.items = append(r.items, v)
	r.mu.Unlock()
}

// Drain removes and returns all collected values in arrival order.
func (r *Results[T]) Drain() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}

// Len returns the number of values waiting to be drained.
func (r *Results[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
