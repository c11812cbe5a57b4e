package document_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/docmatch/pkg/docmatch"
	"github.com/randalmurphal/docmatch/pkg/docmatch/document"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    any
		wantErr bool
	}{
		{
			name:  "object",
			input: `{"a": 1, "b": [true, null, "x"]}`,
			want:  map[string]any{"a": json.Number("1"), "b": []any{true, nil, "x"}},
		},
		{
			name:  "large integer kept exact",
			input: `9007199254740993`,
			want:  json.Number("9007199254740993"),
		},
		{
			name:  "trailing whitespace",
			input: "{}\n\n",
			want:  map[string]any{},
		},
		{name: "trailing value", input: `{} {}`, wantErr: true},
		{name: "trailing garbage", input: `{} x`, wantErr: true},
		{name: "empty", input: ``, wantErr: true},
		{name: "malformed", input: `{"a":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := document.DecodeJSON([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeStream(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "array", input: `[{"a":1},{"a":2},{"a":3}]`, want: 3},
		{name: "ndjson", input: "{\"a\":1}\n{\"a\":2}\n", want: 2},
		{name: "concatenated", input: `{"a":1}{"a":2}`, want: 2},
		{name: "scalars", input: "1 2 3", want: 3},
		{name: "empty", input: "", want: 0},
		{name: "empty array", input: "[]", want: 0},
		{name: "two arrays are two documents", input: "[1] [2]", want: 2},
		{name: "broken line", input: "{\"a\":1}\n{\"a\":\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := document.DecodeStream(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	got, err := document.DecodeYAML([]byte(`
status: open
priority: 3
ratio: 0.5
tags: [ui, bug]
1: numeric key
nested:
  ok: true
`))
	require.NoError(t, err)

	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "open", m["status"])
	assert.Equal(t, json.Number("3"), m["priority"])
	assert.Equal(t, 0.5, m["ratio"])
	assert.Equal(t, []any{"ui", "bug"}, m["tags"])
	assert.Equal(t, "numeric key", m["1"])
	assert.Equal(t, map[string]any{"ok": true}, m["nested"])

	// YAML and JSON decode to values that compare equal.
	fromJSON, err := document.DecodeJSON([]byte(`{"status":"open","priority":3,"ratio":0.5}`))
	require.NoError(t, err)
	ok, err = docmatch.Evaluate(got, fromJSON)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = document.DecodeYAML([]byte("a: [unclosed"))
	assert.Error(t, err)
}

func TestDecodeYAMLStream(t *testing.T) {
	docs, err := document.DecodeYAMLStream(strings.NewReader("a: 1\n---\na: 2\n---\na: 3\n"))
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, map[string]any{"a": json.Number("2")}, docs[1])
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}

	tests := []struct {
		name    string
		path    string
		want    int
		wantErr error
	}{
		{name: "json array", path: write("a.json", `[{"a":1},{"a":2}]`), want: 2},
		{name: "ndjson", path: write("b.ndjson", "{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n"), want: 3},
		{name: "jsonl", path: write("c.jsonl", "{\"a\":1}\n"), want: 1},
		{name: "yaml", path: write("d.yaml", "a: 1\n---\na: 2\n"), want: 2},
		{name: "yml", path: write("e.yml", "a: 1\n"), want: 1},
		{name: "unknown extension", path: write("f.csv", "a,b"), wantErr: document.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := document.LoadFile(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, docs, tt.want)
		})
	}

	_, err := document.LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadQuery(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "q.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"status": {"$in": ["open", "new"]}}`), 0o600))
	q, err := document.LoadQuery(jsonPath)
	require.NoError(t, err)
	ok, err := docmatch.Evaluate(map[string]any{"status": "new"}, q)
	require.NoError(t, err)
	assert.True(t, ok)

	yamlPath := filepath.Join(dir, "q.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("priority:\n  $gte: 2\n"), 0o600))
	q, err = document.LoadQuery(yamlPath)
	require.NoError(t, err)
	ok, err = docmatch.Evaluate(map[string]any{"priority": 3}, q)
	require.NoError(t, err)
	assert.True(t, ok)

	ndjsonPath := filepath.Join(dir, "q.ndjson")
	require.NoError(t, os.WriteFile(ndjsonPath, []byte(`{}`), 0o600))
	_, err = document.LoadQuery(ndjsonPath)
	assert.ErrorIs(t, err, document.ErrUnsupportedFormat)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, document.Encode(&buf, map[string]any{"a": json.Number("1.50"), "s": "<b>"}))
	assert.Equal(t, "{\"a\":1.50,\"s\":\"<b>\"}\n", buf.String())
}
