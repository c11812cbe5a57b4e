// Package store persists named queries so they can be evaluated later by name.
package store

import (
	"errors"
	"time"
)

// Store persists saved queries by name.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores data under name, replacing any earlier query of that name.
	// Each replacement increments the query's version.
	Save(name string, data []byte) error

	// Load retrieves a saved query.
	// Returns ErrNotFound if no query has that name.
	Load(name string) ([]byte, error)

	// Stat returns metadata for a saved query without loading it.
	// Returns ErrNotFound if no query has that name.
	Stat(name string) (Info, error)

	// List returns metadata for all saved queries, ordered by name.
	// Returns an empty slice (not error) if there are none.
	List() ([]Info, error)

	// Delete removes a saved query.
	// Returns ErrNotFound if no query has that name.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the query.
type Info struct {
	Name      string
	Version   int
	UpdatedAt time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no query is saved under the name.
	ErrNotFound = errors.New("saved query not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("query store closed")

	// ErrNameRequired indicates an empty query name.
	ErrNameRequired = errors.New("query name required")
)
