package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// FormatVersion is the current saved-query record format.
// Increment when making breaking changes to Record.
const FormatVersion = 1

// Record is the persisted form of a saved query.
type Record struct {
	Format  int             `json:"format"`
	Name    string          `json:"name"`
	Hash    string          `json:"hash,omitempty"`
	SavedAt time.Time       `json:"saved_at"`
	Query   json.RawMessage `json:"query"`
}

// Marshal serializes a record to JSON.
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalRecord deserializes a record and checks its format.
func UnmarshalRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode saved query: %w", err)
	}
	if r.Format != FormatVersion {
		return nil, fmt.Errorf("unsupported saved query format %d", r.Format)
	}
	return &r, nil
}
