package docmatch

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/randalmurphal/docmatch/pkg/docmatch/observability"
	"github.com/randalmurphal/docmatch/pkg/docmatch/path"
	"github.com/randalmurphal/docmatch/pkg/docmatch/registry"
)

// Evaluator compiles and evaluates queries.
//
// Create with New() and configure with Option functions. An Evaluator is
// safe for concurrent use.
type Evaluator struct {
	regexes *registry.Registry[string, *regexp.Regexp]
	queries *registry.Registry[uint64, cachedQuery]

	maxDepth    int
	strictShape bool
	logger      *slog.Logger
	metrics     observability.MetricsRecorder
	spans       observability.SpanManager
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	cfg := defaultEvalConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Evaluator{
		regexes:     registry.NewBounded[string, *regexp.Regexp](cfg.regexCacheSize),
		maxDepth:    cfg.maxDepth,
		strictShape: cfg.strictShape,
		logger:      cfg.logger,
		metrics:     observability.NoopMetrics{},
		spans:       observability.NoopSpanManager{},
	}
	if cfg.cacheSize > 0 {
		e.queries = registry.NewBounded[uint64, cachedQuery](cfg.cacheSize)
	}
	if cfg.metricsEnabled {
		e.metrics = observability.NewMetricsRecorder()
	}
	if cfg.tracingEnabled {
		e.spans = observability.NewSpanManager()
	}
	return e
}

var defaultEvaluator = New()

// Evaluate reports whether document satisfies query, using an evaluator
// with default options.
//
//	ok, err := docmatch.Evaluate(
//	    map[string]any{"status": "open", "mirror": "open"},
//	    map[string]any{"mirror": map[string]any{"$eq": "$$status"}},
//	) // true, nil
func Evaluate(document, query any) (bool, error) {
	return defaultEvaluator.Evaluate(document, query)
}

// Evaluate reports whether document satisfies query.
//
// The query is compiled on first use and cached when it has a JSON
// encoding. Invalid queries return a *QueryError; a document that simply
// does not match returns false and no error.
func (e *Evaluator) Evaluate(document, query any) (bool, error) {
	start := time.Now()

	q, err := e.cachedCompile(query)
	if err != nil {
		e.metrics.RecordEvaluation(context.Background(), false, time.Since(start), err)
		return false, err
	}

	matched, err := q.Match(document)
	e.metrics.RecordEvaluation(context.Background(), matched, time.Since(start), err)
	return matched, err
}

// allNode is the AND of its children. Empty is vacuously true.
type allNode []node

func (n allNode) match(s *matchState, cur any) (bool, error) {
	for _, child := range n {
		ok, err := child.match(s, cur)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// anyNode is the OR of its children. Empty is false.
type anyNode []node

func (n anyNode) match(s *matchState, cur any) (bool, error) {
	for _, child := range n {
		ok, err := child.match(s, cur)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

type notNode struct {
	sub node
}

func (n notNode) match(s *matchState, cur any) (bool, error) {
	ok, err := n.sub.match(s, cur)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// neverNode stands for a query that is neither a mapping nor a sequence.
type neverNode struct{}

func (neverNode) match(*matchState, any) (bool, error) {
	return false, nil
}

// operatorNode applies a comparison operator to the current value.
type operatorNode struct {
	op    Operator
	key   string
	value valueSpec
	loc   string
}

func (n *operatorNode) match(s *matchState, cur any) (bool, error) {
	ok, err := s.ev.apply(n.op, cur, n.value.resolve(s.root), s.root)
	if err != nil {
		return false, queryErr(n.loc, n.key, err)
	}
	return ok, nil
}

// fieldNode narrows the current value to a field and matches it against a
// sub-query or compares it with a literal.
type fieldNode struct {
	key          string
	path         *path.Path
	unresolvable bool
	value        valueSpec
	sub          node
	loc          string
	depth        int
}

func (n *fieldNode) match(s *matchState, cur any) (bool, error) {
	nested := n.lookup(cur)

	if n.sub != nil {
		return n.sub.match(s, nested)
	}

	want := n.value.resolve(s.root)
	if n.value.dynamic {
		if _, ok := asMapping(want); ok {
			sub, err := s.ev.compile(want, n.loc, n.depth+1)
			if err != nil {
				return false, err
			}
			return sub.match(s, nested)
		}
	}

	eq, err := equalDepth(nested, want, s.ev.maxDepth)
	if err != nil {
		return false, queryErr(n.loc, n.key, err)
	}
	return eq, nil
}

// lookup resolves the field against the current value. Missing fields are
// Undefined.
func (n *fieldNode) lookup(cur any) any {
	if n.unresolvable {
		return Undefined
	}
	if n.path != nil {
		v, found := n.path.Resolve(cur)
		if !found {
			return Undefined
		}
		return v
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return Undefined
	}
	v, found := m[n.key]
	if !found {
		return Undefined
	}
	return v
}

// dynamicLogicalNode is a logical key whose payload is a "$$" reference.
// The referenced value is compiled when the document is matched.
type dynamicLogicalNode struct {
	key   string
	value valueSpec
	loc   string
	depth int
}

func (n *dynamicLogicalNode) match(s *matchState, cur any) (bool, error) {
	compiled, err := s.ev.compileLogical(n.key, n.value.resolve(s.root), n.loc, n.depth)
	if err != nil {
		return false, err
	}
	return compiled.match(s, cur)
}
