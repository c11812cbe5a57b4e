// Package registry provides a thread-safe keyed store with an optional
// entry limit. docmatch uses it for compiled regular expressions, compiled
// queries and the in-memory saved-query store.
package registry

import "sync"

// Registry is a thread-safe registry for values indexed by key.
// It uses sync.RWMutex for read-heavy workloads.
//
// A Registry created with a positive limit refuses new keys once full;
// existing keys can still be overwritten. Nothing is evicted.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	limit   int
}

// New creates a new empty, unbounded registry.
func New[K comparable, V any]() *Registry[K, V] {
	return NewBounded[K, V](0)
}

// NewBounded creates a registry holding at most limit entries.
// A limit <= 0 means unbounded.
func NewBounded[K comparable, V any](limit int) *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
		limit:   limit,
	}
}

// Register adds or updates a value. It reports false if the key is new and
// the registry is full.
func (r *Registry[K, V]) Register(key K, value V) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storeLocked(key, value)
}

func (r *Registry[K, V]) storeLocked(key K, value V) bool {
	if _, exists := r.entries[key]; !exists && r.limit > 0 && len(r.entries) >= r.limit {
		return false
	}
	r.entries[key] = value
	return true
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Delete removes a key from the registry and reports whether it was present.
func (r *Registry[K, V]) Delete(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key]
	delete(r.entries, key)
	return ok
}

// Keys returns all keys in the registry.
// The order is not guaranteed.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Limit returns the configured entry limit, 0 when unbounded.
func (r *Registry[K, V]) Limit() int {
	if r.limit < 0 {
		return 0
	}
	return r.limit
}

// Clear removes every entry.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[K]V)
}

// GetOrCompute returns the value for key, computing it with fn if absent.
// fn runs at most once per key under concurrent access. Errors from fn are
// returned and nothing is stored. A computed value is returned even when
// the registry is full and it could not be stored.
func (r *Registry[K, V]) GetOrCompute(key K, fn func() (V, error)) (V, error) {
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return v, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if v, ok := r.entries[key]; ok {
		return v, nil
	}

	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}
	r.storeLocked(key, v)
	return v, nil
}
