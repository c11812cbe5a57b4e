// Package document decodes JSON, NDJSON and YAML input into documents and
// queries for docmatch.
//
// Decoded values use the shapes docmatch traverses: map[string]any, []any,
// string, bool, nil and json.Number. Numbers are kept as json.Number so
// large integers and decimals compare exactly.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decoding errors.
var (
	// ErrTrailingData indicates extra content after a single JSON value.
	ErrTrailingData = errors.New("unexpected data after JSON value")

	// ErrUnsupportedFormat indicates a file extension LoadFile or LoadQuery does not know.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// DecodeJSON decodes exactly one JSON value.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return v, nil
}

// DecodeStream reads a sequence of documents. The input is either one JSON
// array, whose elements are the documents, or any number of JSON values
// separated by whitespace or newlines (NDJSON).
func DecodeStream(r io.Reader) ([]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	docs := make([]any, 0)
	for i := 0; ; i++ {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode document %d: %w", i, err)
		}
		docs = append(docs, v)
	}

	if len(docs) == 1 {
		if arr, ok := docs[0].([]any); ok {
			return arr, nil
		}
	}
	return docs, nil
}

// DecodeYAML decodes one YAML document. Mapping keys are converted to
// strings and integers to json.Number so the result compares the same way
// as decoded JSON.
func DecodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return normalize(v), nil
}

// DecodeYAMLStream decodes every document of a multi-document YAML stream.
func DecodeYAMLStream(r io.Reader) ([]any, error) {
	dec := yaml.NewDecoder(r)

	docs := make([]any, 0)
	for i := 0; ; i++ {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode yaml document %d: %w", i, err)
		}
		docs = append(docs, normalize(v))
	}
	return docs, nil
}

// normalize rewrites YAML decoder output into JSON shapes.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	case int:
		return json.Number(fmt.Sprint(t))
	case int64:
		return json.Number(fmt.Sprint(t))
	case uint64:
		return json.Number(fmt.Sprint(t))
	default:
		return v
	}
}

// LoadFile reads every document in a file. The format is chosen by
// extension:
//
//	.json            one array of documents, or concatenated values
//	.ndjson, .jsonl  newline-delimited values
//	.yaml, .yml      one or more YAML documents
func LoadFile(path string) ([]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open documents: %w", err)
	}
	defer f.Close()

	var docs []any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".ndjson", ".jsonl":
		docs, err = DecodeStream(f)
	case ".yaml", ".yml":
		docs, err = DecodeYAMLStream(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// LoadQuery reads a single query from a .json, .yaml or .yml file.
func LoadQuery(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query: %w", err)
	}

	var q any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		q, err = DecodeJSON(data)
	case ".yaml", ".yml":
		q, err = DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// Encode writes v as one line of JSON.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
