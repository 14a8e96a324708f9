package store

import (
	"context"
	"fmt"
	"sync"

	dErrors "labcheckout/pkg/domain-errors"
)

// Error Contract:
// - Find and Update return a CodeNotFound error carrying the missing key
// - Add returns CodeCapacityExceeded when the registry is full and CodeConflict on a duplicate key
// - Update returns whatever the mutation returns, leaving the entity untouched

// Keyed is implemented by every entity a Registry can hold.
type Keyed interface {
	Key() string
}

// Registry is an insertion-ordered, in-memory collection of one entity type.
// A positive capacity is a hard limit; zero means the registry grows as needed.
// Lookups are linear scans and hand out copies; mutations happen under the lock.
type Registry[T Keyed] struct {
	mu       sync.RWMutex
	label    string
	capacity int
	items    []T
}

// NewRegistry creates an empty registry. label names the entity in error messages.
func NewRegistry[T Keyed](label string, capacity int) *Registry[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Registry[T]{
		label:    label,
		capacity: capacity,
		items:    make([]T, 0, capacity),
	}
}

func (r *Registry[T]) Add(_ context.Context, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := item.Key()
	if r.capacity > 0 && len(r.items) >= r.capacity {
		return &dErrors.Error{
			Code:    dErrors.CodeCapacityExceeded,
			Key:     key,
			Message: fmt.Sprintf("%s registry full (capacity %d)", r.label, r.capacity),
		}
	}
	if r.indexOf(key) >= 0 {
		return &dErrors.Error{
			Code:    dErrors.CodeConflict,
			Key:     key,
			Message: fmt.Sprintf("%s already registered: %s", r.label, key),
		}
	}
	r.items = append(r.items, item)
	return nil
}

func (r *Registry[T]) Find(_ context.Context, key string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(key)
	if i < 0 {
		var zero T
		return zero, r.notFound(key)
	}
	return r.items[i], nil
}

// Update applies mutate to the stored entity in place. If mutate fails, the
// stored entity is left as it was.
func (r *Registry[T]) Update(_ context.Context, key string, mutate func(*T) error) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(key)
	if i < 0 {
		var zero T
		return zero, r.notFound(key)
	}
	updated := r.items[i]
	if err := mutate(&updated); err != nil {
		return r.items[i], err
	}
	r.items[i] = updated
	return updated, nil
}

// List returns a snapshot of all entities in insertion order.
func (r *Registry[T]) List(_ context.Context) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]T(nil), r.items...)
}

func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Capacity returns the configured limit, zero when unbounded.
func (r *Registry[T]) Capacity() int {
	return r.capacity
}

// indexOf returns the first position holding key, or -1. Callers hold the lock.
func (r *Registry[T]) indexOf(key string) int {
	for i := range r.items {
		if r.items[i].Key() == key {
			return i
		}
	}
	return -1
}

func (r *Registry[T]) notFound(key string) error {
	return dErrors.NotFound(key, fmt.Sprintf("%s not found: %s", r.label, key))
}
