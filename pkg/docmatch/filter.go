package docmatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/docmatch/pkg/docmatch/observability"
)

// ErrNilContext indicates Filter was called with a nil context.
var ErrNilContext = errors.New("context cannot be nil")

// Filter returns the documents that satisfy query, in input order.
//
// The query is compiled once. Each document is matched as its own root.
// Cancellation is checked between documents; on cancellation or an
// invalid query the matches found so far are returned with the error.
//
// Example:
//
//	ev := docmatch.New(docmatch.WithLogger(logger), docmatch.WithTracing(true))
//	open, err := ev.Filter(ctx, tickets, map[string]any{"status": "open"})
func (e *Evaluator) Filter(ctx context.Context, documents []any, query any) (matches []any, runErr error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	runID := uuid.NewString()
	elapsed := observability.TimedOperation()
	start := time.Now()
	index := -1

	observability.LogFilterStart(e.logger, runID, len(documents))

	ctx, span := e.spans.StartFilterSpan(ctx, runID, len(documents))
	defer func() {
		e.spans.EndSpanWithError(span, runErr)

		durationMs := elapsed()
		e.metrics.RecordFilter(ctx, index+1, len(matches), time.Since(start), runErr)
		if runErr != nil {
			observability.LogFilterError(e.logger, runID, runErr, durationMs, index)
		} else {
			observability.LogFilterComplete(e.logger, runID, durationMs, index+1, len(matches))
		}
	}()

	q, err := e.cachedCompile(query)
	if err != nil {
		return nil, err
	}

	matches = make([]any, 0)
	for i, doc := range documents {
		select {
		case <-ctx.Done():
			return matches, ctx.Err()
		default:
		}

		index = i
		ok, err := e.matchOne(ctx, q, doc)
		if err != nil {
			return matches, err
		}
		if ok {
			matches = append(matches, doc)
			e.spans.AddSpanEvent(ctx, "document.matched", attribute.Int("index", i))
		}
	}
	return matches, nil
}

// matchOne matches a single document and records it.
func (e *Evaluator) matchOne(ctx context.Context, q *Query, doc any) (bool, error) {
	start := time.Now()
	ok, err := q.Match(doc)
	e.metrics.RecordEvaluation(ctx, ok, time.Since(start), err)
	return ok, err
}
