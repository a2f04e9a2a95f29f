package engine

import "sync"

// Ring is a generic, thread-safe, fixed-capacity circular buffer.
type Ring[T any] struct {
	mu    sync.RWMutex
	items []T
	head  int
	count int
	cap   int
}

// NewRing creates a Ring with the given capacity.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{
		items: make([]T, capacity),
		cap:   capacity,
	}
}

// Add inserts an item, overwriting the oldest if full.
func (r *Ring[T]) Add(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[r.head] = item
	r.head = (r.head + 1) % r.cap
	if r.count < r.cap {
		r.count++
	}
}

// Len returns the number of items currently held.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// All returns items in order from oldest to newest.
func (r *Ring[T]) All() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]T, r.count)
	start := 0
	if r.count == r.cap {
		start = r.head
	}
	for i := 0; i < r.count; i++ {
		result[i] = r.items[(start+i)%r.cap]
	}
	return result
}

// Last returns the most recently added item.
func (r *Ring[T]) Last() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var zero T
	if r.count == 0 {
		return zero, false
	}
	idx := (r.head - 1 + r.cap) % r.cap
	return r.items[idx], true
}

// Reset replaces the contents with the given items, keeping only the newest
// ones if there are more than the capacity.
func (r *Ring[T]) Reset(items []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(items) > r.cap {
		items = items[len(items)-r.cap:]
	}
	r.items = make([]T, r.cap)
	copy(r.items, items)
	r.count = len(items)
	r.head = r.count % r.cap
}
