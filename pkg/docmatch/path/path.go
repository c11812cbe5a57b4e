// Package path parses and resolves dotted/bracketed path expressions such as
// "user.tags[0]" against JSON-shaped Go values.
//
// Resolution is total: a missing key, a nil intermediate, a type mismatch or an
// out-of-range index all report "not found" instead of failing.
package path

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for path parsing.
var (
	// ErrEmptyPath indicates an empty path expression.
	ErrEmptyPath = errors.New("empty path")

	// ErrUnclosedBracket indicates a '[' without a matching ']'.
	ErrUnclosedBracket = errors.New("unclosed bracket")

	// ErrInvalidIndex indicates bracket contents that are not a non-negative integer.
	ErrInvalidIndex = errors.New("invalid index")
)

// SyntaxError reports where a path expression failed to parse.
type SyntaxError struct {
	// Path is the full expression being parsed.
	Path string
	// Offset is the byte offset of the offending segment.
	Offset int
	// Err is one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("path %q at offset %d: %v", e.Path, e.Offset, e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// StepKind distinguishes mapping lookups from sequence indexing.
type StepKind int

const (
	// StepKey looks up a key in a map[string]any.
	StepKey StepKind = iota
	// StepIndex indexes into a []any.
	StepIndex
)

// String returns the step kind name.
func (k StepKind) String() string {
	switch k {
	case StepKey:
		return "key"
	case StepIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Step is a single typed path step.
type Step struct {
	Kind  StepKind
	Key   string
	Index int
}

// Key returns a mapping lookup step.
func Key(name string) Step {
	return Step{Kind: StepKey, Key: name}
}

// Index returns a sequence indexing step.
func Index(n int) Step {
	return Step{Kind: StepIndex, Index: n}
}

// String renders the step in path syntax.
func (s Step) String() string {
	if s.Kind == StepIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Path is a parsed path expression.
// The zero value resolves every document to itself.
type Path struct {
	raw   string
	steps []Step
}

// Parse parses a path expression.
//
// The expression is split on '.'; each segment is an optional bare key
// followed by zero or more bracketed non-negative integer indices:
//
//	a.b[0].c
//	matrix[1][2]
//	[0].name
//
// A segment with no bare key contributes only its indices.
func Parse(s string) (Path, error) {
	if s == "" {
		return Path{}, &SyntaxError{Path: s, Err: ErrEmptyPath}
	}

	steps := make([]Step, 0, strings.Count(s, ".")+strings.Count(s, "[")+1)
	offset := 0
	for _, segment := range strings.Split(s, ".") {
		parsed, err := parseSegment(s, segment, offset)
		if err != nil {
			return Path{}, err
		}
		steps = append(steps, parsed...)
		offset += len(segment) + 1
	}
	return Path{raw: s, steps: steps}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// parseSegment parses one '.'-delimited segment into its steps.
func parseSegment(full, segment string, offset int) ([]Step, error) {
	open := strings.IndexByte(segment, '[')
	if open < 0 {
		return []Step{Key(segment)}, nil
	}

	var steps []Step
	if open > 0 {
		steps = append(steps, Key(segment[:open]))
	}

	rest := segment[open:]
	pos := offset + open
	for rest != "" {
		if rest[0] != '[' {
			return nil, &SyntaxError{Path: full, Offset: pos, Err: ErrInvalidIndex}
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, &SyntaxError{Path: full, Offset: pos, Err: ErrUnclosedBracket}
		}
		n, err := parseIndex(rest[1:end])
		if err != nil {
			return nil, &SyntaxError{Path: full, Offset: pos, Err: err}
		}
		steps = append(steps, Index(n))
		pos += end + 1
		rest = rest[end+1:]
	}
	return steps, nil
}

// parseIndex accepts only plain decimal digits.
func parseIndex(s string) (int, error) {
	if s == "" {
		return 0, ErrInvalidIndex
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidIndex
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}
	return n, nil
}

// String returns the original expression.
func (p Path) String() string {
	return p.raw
}

// Steps returns a copy of the parsed steps.
func (p Path) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Resolve walks doc along the path.
// It returns false when any step cannot be taken.
func (p Path) Resolve(doc any) (any, bool) {
	cur := doc
	for _, step := range p.steps {
		next, ok := step.apply(cur)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// apply takes a single step from cur.
func (s Step) apply(cur any) (any, bool) {
	switch s.Kind {
	case StepKey:
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[s.Key]
		return v, ok
	case StepIndex:
		arr, ok := cur.([]any)
		if !ok || s.Index < 0 || s.Index >= len(arr) {
			return nil, false
		}
		return arr[s.Index], true
	default:
		return nil, false
	}
}

// Resolve parses expr and resolves it against doc.
// A malformed expression resolves to nothing.
func Resolve(doc any, expr string) (any, bool) {
	p, err := Parse(expr)
	if err != nil {
		return nil, false
	}
	return p.Resolve(doc)
}

// IsPath reports whether a field key must be resolved as a path rather than
// looked up directly.
func IsPath(key string) bool {
	return strings.ContainsAny(key, ".[")
}
