package store

import (
	"sort"
	"sync"
	"time"

	"github.com/randalmurphal/docmatch/pkg/docmatch/registry"
)

// MemoryStore is an in-memory query store for tests and one-shot runs.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.Mutex
	entries *registry.Registry[string, storedQuery]
	closed  bool
}

// storedQuery holds query data with metadata for List().
type storedQuery struct {
	data      []byte
	version   int
	updatedAt time.Time
}

func (q storedQuery) info(name string) Info {
	return Info{
		Name:      name,
		Version:   q.version,
		UpdatedAt: q.updatedAt,
		Size:      int64(len(q.data)),
	}
}

// NewMemoryStore creates a new in-memory query store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: registry.New[string, storedQuery](),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(name string, data []byte) error {
	if name == "" {
		return ErrNameRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	version := 1
	if prev, ok := m.entries.Get(name); ok {
		version = prev.version + 1
	}

	// Copy data to avoid retaining caller's slice
	stored := make([]byte, len(data))
	copy(stored, data)

	m.entries.Register(name, storedQuery{
		data:      stored,
		version:   version,
		updatedAt: time.Now().UTC(),
	})
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	q, ok := m.entries.Get(name)
	if !ok {
		return nil, ErrNotFound
	}

	result := make([]byte, len(q.data))
	copy(result, q.data)
	return result, nil
}

// Stat implements Store.
func (m *MemoryStore) Stat(name string) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Info{}, ErrStoreClosed
	}

	q, ok := m.entries.Get(name)
	if !ok {
		return Info{}, ErrNotFound
	}
	return q.info(name), nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	names := m.entries.Keys()
	sort.Strings(names)

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		if q, ok := m.entries.Get(name); ok {
			infos = append(infos, q.info(name))
		}
	}
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if !m.entries.Delete(name) {
		return ErrNotFound
	}
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries.Clear()
	return nil
}

// Len returns the number of saved queries.
func (m *MemoryStore) Len() int {
	return m.entries.Len()
}
