package docmatch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/randalmurphal/docmatch/pkg/docmatch/observability"
	"github.com/randalmurphal/docmatch/pkg/docmatch/path"
)

// refPrefix marks a query value as a reference into the root document.
const refPrefix = "$$"

// Query is a compiled query. It is immutable and safe for concurrent use.
type Query struct {
	ev   *Evaluator
	root node
}

// Match reports whether document satisfies the query. The document is also
// the root that "$$" references resolve against.
func (q *Query) Match(document any) (bool, error) {
	return q.root.match(&matchState{ev: q.ev, root: document}, document)
}

// matchState is the per-evaluation context threaded through every node.
// root never changes during one evaluation.
type matchState struct {
	ev   *Evaluator
	root any
}

// node is one element of a compiled query tree.
type node interface {
	match(s *matchState, cur any) (bool, error)
}

// valueSpec is a query value that is either a literal or, for "$$path"
// strings, a reference into the root document.
type valueSpec struct {
	literal any
	dynamic bool
	ref     *path.Path
}

// newValueSpec detects "$$path" references. A reference whose path does not
// parse is kept as a reference that never resolves.
func newValueSpec(raw any) valueSpec {
	s, ok := raw.(string)
	if !ok || !strings.HasPrefix(s, refPrefix) {
		return valueSpec{literal: raw}
	}
	spec := valueSpec{dynamic: true}
	if p, err := path.Parse(strings.TrimPrefix(s, refPrefix)); err == nil {
		spec.ref = &p
	}
	return spec
}

// resolve returns the literal, or the referenced root value. An
// unresolvable reference yields Undefined.
func (v valueSpec) resolve(root any) any {
	if !v.dynamic {
		return v.literal
	}
	if v.ref == nil {
		return Undefined
	}
	val, found := v.ref.Resolve(root)
	if !found {
		return Undefined
	}
	return val
}

// Compile validates query and compiles it into a reusable Query.
//
// Unsupported operators, malformed operator payloads and invalid regular
// expressions are reported here, wherever they appear in the query, as
// *QueryError values. Payloads given as "$$" references can only be
// checked when a document is matched.
func (e *Evaluator) Compile(query any) (*Query, error) {
	root, err := e.compile(query, "$", 0)
	if err != nil {
		observability.LogCompileError(e.logger, err)
		return nil, err
	}
	return &Query{ev: e, root: root}, nil
}

// compile builds the node for a query value found at loc.
func (e *Evaluator) compile(query any, loc string, depth int) (node, error) {
	if depth > e.maxDepth {
		return nil, queryErr(loc, "", ErrMaxDepthExceeded)
	}

	if seq, ok := asSequence(query); ok {
		children := make([]node, 0, len(seq))
		for i, sub := range seq {
			child, err := e.compile(sub, loc+"["+strconv.Itoa(i)+"]", depth+1)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return allNode(children), nil
	}

	m, ok := asMapping(query)
	if !ok {
		if e.strictShape {
			return nil, queryErr(loc, "", fmt.Errorf("%w: got %s", ErrMalformedQuery, kindOf(query)))
		}
		observability.LogMalformedQuery(e.logger, loc, kindOf(query))
		return neverNode{}, nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortKeys(keys)

	clauses := make([]node, 0, len(keys))
	for _, key := range keys {
		clause, err := e.compileClause(key, m[key], loc, depth)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return allNode(clauses), nil
}

// sortKeys orders mapping keys so that field keys come before '$' keys,
// each group sorted. Plain field mismatches then short-circuit before
// operators whose payloads are only checked at match time.
func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := strings.HasPrefix(keys[i], "$"), strings.HasPrefix(keys[j], "$")
		if a != b {
			return b
		}
		return keys[i] < keys[j]
	})
}

// compileClause builds the node for one key/value pair of a mapping query.
func (e *Evaluator) compileClause(key string, raw any, loc string, depth int) (node, error) {
	keyLoc := loc + "." + key
	value := newValueSpec(raw)

	switch {
	case key == keyAnd || key == keyOr || key == keyNot:
		if value.dynamic {
			return &dynamicLogicalNode{key: key, value: value, loc: keyLoc, depth: depth}, nil
		}
		return e.compileLogical(key, raw, keyLoc, depth)

	case strings.HasPrefix(key, "$"):
		op, ok := ParseOperator(key)
		if !ok {
			return nil, queryErr(keyLoc, key, ErrUnsupportedOperator)
		}
		if !value.dynamic {
			if err := e.checkPayload(op, raw); err != nil {
				return nil, queryErr(keyLoc, key, err)
			}
		}
		return &operatorNode{op: op, key: key, value: value, loc: keyLoc}, nil

	default:
		return e.compileField(key, raw, value, keyLoc, depth)
	}
}

// compileLogical builds $and, $or and $not nodes from a literal payload.
func (e *Evaluator) compileLogical(key string, raw any, loc string, depth int) (node, error) {
	if key == keyNot {
		if _, ok := asMapping(raw); !ok {
			return nil, queryErr(loc, key, fmt.Errorf("%w: %s requires a mapping, got %s", ErrInvalidPayload, key, kindOf(raw)))
		}
		sub, err := e.compile(raw, loc, depth+1)
		if err != nil {
			return nil, err
		}
		return notNode{sub: sub}, nil
	}

	seq, ok := asSequence(raw)
	if !ok {
		return nil, queryErr(loc, key, fmt.Errorf("%w: %s requires a sequence, got %s", ErrInvalidPayload, key, kindOf(raw)))
	}
	subs := make([]node, 0, len(seq))
	for i, item := range seq {
		sub, err := e.compile(item, loc+"["+strconv.Itoa(i)+"]", depth+1)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if key == keyOr {
		return anyNode(subs), nil
	}
	return allNode(subs), nil
}

// compileField builds the node for a field key.
func (e *Evaluator) compileField(key string, raw any, value valueSpec, loc string, depth int) (node, error) {
	f := &fieldNode{key: key, value: value, loc: loc, depth: depth}

	if path.IsPath(key) {
		p, err := path.Parse(key)
		if err != nil {
			observability.LogInvalidFieldPath(e.logger, key, err)
			f.unresolvable = true
		} else {
			f.path = &p
		}
	}

	if !value.dynamic {
		if _, ok := asMapping(raw); ok {
			sub, err := e.compile(raw, loc, depth+1)
			if err != nil {
				return nil, err
			}
			f.sub = sub
		}
	}
	return f, nil
}
