package docmatch

import "log/slog"

// Defaults for Evaluator configuration.
const (
	// DefaultMaxDepth bounds query nesting and document nesting compared by
	// equality.
	DefaultMaxDepth = 64

	// DefaultCacheSize is the number of compiled queries Evaluate keeps.
	DefaultCacheSize = 256

	// DefaultRegexCacheSize is the number of compiled patterns kept.
	DefaultRegexCacheSize = 256
)

// evalConfig holds configuration for an Evaluator.
type evalConfig struct {
	maxDepth       int
	cacheSize      int
	regexCacheSize int
	strictShape    bool
	logger         *slog.Logger
	metricsEnabled bool
	tracingEnabled bool
}

// defaultEvalConfig returns the default evaluator configuration.
func defaultEvalConfig() evalConfig {
	return evalConfig{
		maxDepth:       DefaultMaxDepth,
		cacheSize:      DefaultCacheSize,
		regexCacheSize: DefaultRegexCacheSize,
	}
}

// Option configures an Evaluator.
type Option func(*evalConfig)

// WithMaxDepth sets the maximum nesting depth of queries and of documents
// compared by equality. Default: 64
//
// Queries or documents nested deeper fail with ErrMaxDepthExceeded instead
// of recursing without bound.
func WithMaxDepth(n int) Option {
	return func(c *evalConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithStrictQueryShape makes a query that is neither a mapping nor a
// sequence an ErrMalformedQuery error. By default such a query is logged
// and never matches.
func WithStrictQueryShape(strict bool) Option {
	return func(c *evalConfig) {
		c.strictShape = strict
	}
}

// WithCacheSize bounds the compiled-query cache used by Evaluate.
// Zero disables caching.
func WithCacheSize(n int) Option {
	return func(c *evalConfig) {
		if n >= 0 {
			c.cacheSize = n
		}
	}
}

// WithRegexCacheSize bounds the compiled regular expression cache.
// Zero means unbounded.
func WithRegexCacheSize(n int) Option {
	return func(c *evalConfig) {
		if n >= 0 {
			c.regexCacheSize = n
		}
	}
}

// WithLogger sets the logger for compile diagnostics and filter runs.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *evalConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(c *evalConfig) {
		c.metricsEnabled = enabled
	}
}

// WithTracing enables OpenTelemetry spans for Filter using the global
// tracer provider.
func WithTracing(enabled bool) Option {
	return func(c *evalConfig) {
		c.tracingEnabled = enabled
	}
}
