package store

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
	"unicode/utf8"

	"github.com/randalmurphal/docmatch/pkg/docmatch"
	"github.com/randalmurphal/docmatch/pkg/docmatch/document"
)

// Put compiles query with ev and, if it is valid, saves it under name.
// Invalid queries are rejected with the compile error and nothing is saved.
// Queries holding strings that are not valid UTF-8 are rejected with
// docmatch.ErrInvalidPayload, since their JSON form would differ.
func Put(s Store, ev *docmatch.Evaluator, name string, query any) (Info, error) {
	if name == "" {
		return Info{}, ErrNameRequired
	}
	if _, err := ev.Compile(query); err != nil {
		return Info{}, err
	}
	if !validUTF8(reflect.ValueOf(query)) {
		return Info{}, fmt.Errorf("query %q: %w: string is not valid UTF-8", name, docmatch.ErrInvalidPayload)
	}

	raw, err := json.Marshal(query)
	if err != nil {
		return Info{}, fmt.Errorf("encode query %q: %w", name, err)
	}
	hash, _ := docmatch.QueryHash(query)

	rec := &Record{
		Format:  FormatVersion,
		Name:    name,
		Hash:    hash,
		SavedAt: time.Now().UTC(),
		Query:   raw,
	}
	data, err := rec.Marshal()
	if err != nil {
		return Info{}, fmt.Errorf("encode query %q: %w", name, err)
	}

	if err := s.Save(name, data); err != nil {
		return Info{}, err
	}
	return s.Stat(name)
}

// Get loads the query saved under name and compiles it with ev.
func Get(s Store, ev *docmatch.Evaluator, name string) (*docmatch.Query, error) {
	raw, err := Raw(s, name)
	if err != nil {
		return nil, err
	}
	return ev.Compile(raw)
}

// Raw loads the query saved under name without compiling it. Numbers are
// decoded as json.Number.
func Raw(s Store, name string) (any, error) {
	data, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	rec, err := UnmarshalRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	query, err := document.DecodeJSON(rec.Query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return query, nil
}

// validUTF8 reports whether every string and mapping key in v is valid UTF-8.
func validUTF8(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return utf8.ValidString(v.String())
	case reflect.Interface, reflect.Pointer:
		return v.IsNil() || validUTF8(v.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !validUTF8(v.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if !validUTF8(iter.Key()) || !validUTF8(iter.Value()) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
