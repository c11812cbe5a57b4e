package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/randalmurphal/docmatch/pkg/docmatch"
)

// ErrInvalidSetting indicates a configuration value outside its allowed range.
var ErrInvalidSetting = errors.New("invalid setting")

// Settings is the evaluator and tooling configuration read from a Config.
type Settings struct {
	MaxDepth         int
	CacheSize        int
	RegexCacheSize   int
	StrictQueryShape bool

	LogLevel slog.Level
	Metrics  bool
	Tracing  bool

	StorePath     string
	FilterTimeout time.Duration
}

// DefaultSettings returns the settings used when a key is absent.
func DefaultSettings() Settings {
	return Settings{
		MaxDepth:       docmatch.DefaultMaxDepth,
		CacheSize:      docmatch.DefaultCacheSize,
		RegexCacheSize: docmatch.DefaultRegexCacheSize,
		LogLevel:       slog.LevelInfo,
	}
}

// Load reads Settings from cfg, applying defaults for absent keys.
func Load(cfg Config) (Settings, error) {
	def := DefaultSettings()

	s := Settings{
		MaxDepth:         cfg.Int("evaluator.max_depth", def.MaxDepth),
		CacheSize:        cfg.Int("evaluator.cache_size", def.CacheSize),
		RegexCacheSize:   cfg.Int("evaluator.regex_cache_size", def.RegexCacheSize),
		StrictQueryShape: cfg.Bool("evaluator.strict_query_shape", def.StrictQueryShape),
		Metrics:          cfg.Bool("observability.metrics", def.Metrics),
		Tracing:          cfg.Bool("observability.tracing", def.Tracing),
		StorePath:        cfg.String("store.path", def.StorePath),
		FilterTimeout:    cfg.Duration("filter.timeout", def.FilterTimeout),
	}

	level, err := ParseLogLevel(cfg.String("observability.log_level", "info"))
	if err != nil {
		return Settings{}, err
	}
	s.LogLevel = level

	switch {
	case s.MaxDepth <= 0:
		return Settings{}, fmt.Errorf("%w: evaluator.max_depth must be positive, got %d", ErrInvalidSetting, s.MaxDepth)
	case s.CacheSize < 0:
		return Settings{}, fmt.Errorf("%w: evaluator.cache_size must not be negative, got %d", ErrInvalidSetting, s.CacheSize)
	case s.RegexCacheSize < 0:
		return Settings{}, fmt.Errorf("%w: evaluator.regex_cache_size must not be negative, got %d", ErrInvalidSetting, s.RegexCacheSize)
	case s.FilterTimeout < 0:
		return Settings{}, fmt.Errorf("%w: filter.timeout must not be negative, got %s", ErrInvalidSetting, s.FilterTimeout)
	}
	return s, nil
}

// ParseLogLevel parses debug, info, warn or error, case-insensitively.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidSetting, s)
	}
}

// EvaluatorOptions converts the settings into docmatch options.
func (s Settings) EvaluatorOptions(logger *slog.Logger) []docmatch.Option {
	return []docmatch.Option{
		docmatch.WithMaxDepth(s.MaxDepth),
		docmatch.WithCacheSize(s.CacheSize),
		docmatch.WithRegexCacheSize(s.RegexCacheSize),
		docmatch.WithStrictQueryShape(s.StrictQueryShape),
		docmatch.WithLogger(logger),
		docmatch.WithMetrics(s.Metrics),
		docmatch.WithTracing(s.Tracing),
	}
}
