// Package observability provides structured logging, metrics, and tracing
// for docmatch query evaluation.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds filter run context to a logger.
// Returns a new logger with run_id and query_hash fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", "9f2c0e1d")
//	enriched.Info("matching") // includes run_id, query_hash
func EnrichLogger(logger *slog.Logger, runID, queryHash string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("query_hash", queryHash),
	)
}

// LogFilterStart logs the start of a batch filter run.
func LogFilterStart(logger *slog.Logger, runID string, documents int) {
	if logger == nil {
		return
	}
	logger.Info("filter run starting",
		slog.String("run_id", runID),
		slog.Int("documents", documents),
	)
}

// LogFilterComplete logs successful filter run completion.
func LogFilterComplete(logger *slog.Logger, runID string, durationMs float64, scanned, matched int) {
	if logger == nil {
		return
	}
	logger.Info("filter run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("scanned", scanned),
		slog.Int("matched", matched),
	)
}

// LogFilterError logs filter run failure.
func LogFilterError(logger *slog.Logger, runID string, err error, durationMs float64, index int) {
	if logger == nil {
		return
	}
	logger.Error("filter run failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.Int("document_index", index),
	)
}

// LogCompileError logs a query that failed to compile.
func LogCompileError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Debug("query rejected",
		slog.String("error", err.Error()),
	)
}

// LogMalformedQuery logs a query value that is neither a mapping nor a
// sequence. Such queries never match.
func LogMalformedQuery(logger *slog.Logger, location string, kind string) {
	if logger == nil {
		return
	}
	logger.Warn("query is not a mapping or sequence, treating as no match",
		slog.String("location", location),
		slog.String("kind", kind),
	)
}

// LogInvalidFieldPath logs a field key that could not be parsed as a path.
// The field resolves to nothing.
func LogInvalidFieldPath(logger *slog.Logger, key string, err error) {
	if logger == nil {
		return
	}
	logger.Debug("field path invalid, resolving as absent",
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
