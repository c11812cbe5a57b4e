package path_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/docmatch/pkg/docmatch/path"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []path.Step
	}{
		{"single key", "name", []path.Step{path.Key("name")}},
		{"dotted", "a.b.c", []path.Step{path.Key("a"), path.Key("b"), path.Key("c")}},
		{"index", "tags[0]", []path.Step{path.Key("tags"), path.Index(0)}},
		{"multi index", "matrix[1][2]", []path.Step{path.Key("matrix"), path.Index(1), path.Index(2)}},
		{"mixed", "a.b[1].c", []path.Step{path.Key("a"), path.Key("b"), path.Index(1), path.Key("c")}},
		{"leading index", "[0].name", []path.Step{path.Index(0), path.Key("name")}},
		{"empty segment", "a..b", []path.Step{path.Key("a"), path.Key(""), path.Key("b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := path.Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Steps())
			assert.Equal(t, tt.expr, p.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{"empty", "", path.ErrEmptyPath},
		{"unclosed", "a[0", path.ErrUnclosedBracket},
		{"negative", "a[-1]", path.ErrInvalidIndex},
		{"not a number", "a[x]", path.ErrInvalidIndex},
		{"empty brackets", "a[]", path.ErrInvalidIndex},
		{"trailing text", "a[0]b", path.ErrInvalidIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := path.Parse(tt.expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var syntaxErr *path.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.expr, syntaxErr.Path)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { path.MustParse("a[") })
	assert.NotPanics(t, func() { path.MustParse("a[1]") })
}

func TestResolve(t *testing.T) {
	doc := map[string]any{
		"a": map[string]any{
			"b": []any{10, 20},
		},
		"matrix": []any{
			[]any{1, 2},
			[]any{3, 4, 5},
		},
		"nothing": nil,
		"users": []any{
			map[string]any{"name": "ada"},
		},
	}

	tests := []struct {
		name      string
		expr      string
		want      any
		wantFound bool
	}{
		{"nested index", "a.b[1]", 20, true},
		{"missing key", "a.c", nil, false},
		{"whole branch", "a.b", []any{10, 20}, true},
		{"matrix", "matrix[1][2]", 5, true},
		{"index out of range", "a.b[2]", nil, false},
		{"index into map", "a[0]", nil, false},
		{"key into slice", "matrix.x", nil, false},
		{"explicit null", "nothing", nil, true},
		{"through null", "nothing.deeper", nil, false},
		{"object in array", "users[0].name", "ada", true},
		{"malformed", "a.b[", nil, false},
		{"key into scalar", "a.b[0].c", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := path.Resolve(doc, tt.expr)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_RootSequence(t *testing.T) {
	doc := []any{map[string]any{"id": "x"}}

	got, found := path.Resolve(doc, "[0].id")
	assert.True(t, found)
	assert.Equal(t, "x", got)

	_, found = path.Resolve(doc, "id")
	assert.False(t, found)
}

func TestResolve_NilDocument(t *testing.T) {
	_, found := path.Resolve(nil, "a.b")
	assert.False(t, found)
}

func TestPath_ZeroValue(t *testing.T) {
	var p path.Path
	got, found := p.Resolve("doc")
	assert.True(t, found)
	assert.Equal(t, "doc", got)
}

func TestIsPath(t *testing.T) {
	assert.True(t, path.IsPath("a.b"))
	assert.True(t, path.IsPath("a[0]"))
	assert.False(t, path.IsPath("plain"))
}

func TestStepKind_String(t *testing.T) {
	assert.Equal(t, "key", path.StepKey.String())
	assert.Equal(t, "index", path.StepIndex.String())
	assert.Equal(t, "unknown", path.StepKind(99).String())
}
