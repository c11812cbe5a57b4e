package docmatch

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// cachedQuery pairs a compiled query with the canonical encoding it was
// compiled from.
type cachedQuery struct {
	canonical string
	query     *Query
}

// canonicalKey encodes query as JSON with sorted mapping keys and hashes it.
// Queries without a JSON encoding report false.
func canonicalKey(query any) (uint64, string, bool) {
	b, err := json.Marshal(query)
	if err != nil {
		return 0, "", false
	}
	return xxhash.Sum64(b), string(b), true
}

// QueryHash returns a stable hex digest of query, suitable for correlating
// log lines. Queries without a JSON encoding report false.
func QueryHash(query any) (string, bool) {
	key, _, ok := canonicalKey(query)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%016x", key), true
}

// plainJSON reports whether v is built only from the types encoding/json
// decodes into, so that its encoding identifies it. Strings and keys must be
// valid UTF-8; encoding/json replaces invalid bytes with U+FFFD.
func plainJSON(v any, remaining int) bool {
	if remaining < 0 {
		return false
	}
	switch t := v.(type) {
	case string:
		return utf8.ValidString(t)
	case nil, bool, float64, json.Number,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case []any:
		for _, item := range t {
			if !plainJSON(item, remaining-1) {
				return false
			}
		}
		return true
	case map[string]any:
		for k, item := range t {
			if !utf8.ValidString(k) || !plainJSON(item, remaining-1) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// cachedCompile compiles query, reusing an earlier compilation of an
// identical query when the cache is enabled.
func (e *Evaluator) cachedCompile(query any) (*Query, error) {
	if e.queries == nil {
		return e.Compile(query)
	}

	if !plainJSON(query, e.maxDepth) {
		return e.Compile(query)
	}
	key, canonical, ok := canonicalKey(query)
	if !ok {
		return e.Compile(query)
	}

	if hit, found := e.queries.Get(key); found && hit.canonical == canonical {
		e.metrics.RecordCacheLookup(context.Background(), true)
		return hit.query, nil
	}
	e.metrics.RecordCacheLookup(context.Background(), false)

	q, err := e.Compile(query)
	if err != nil {
		return nil, err
	}
	e.queries.Register(key, cachedQuery{canonical: canonical, query: q})
	return q, nil
}

// CacheLen returns the number of compiled queries currently cached.
func (e *Evaluator) CacheLen() int {
	if e.queries == nil {
		return 0
	}
	return e.queries.Len()
}
