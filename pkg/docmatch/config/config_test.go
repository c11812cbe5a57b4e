package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/docmatch/pkg/docmatch"
	"github.com/randalmurphal/docmatch/pkg/docmatch/config"
)

// TestNew verifies Config creation from maps.
func TestNew(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"with values", map[string]any{"key": "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.NotNil(t, cfg.Raw())
		})
	}
}

// TestAccessors verifies typed extraction with defaults.
func TestAccessors(t *testing.T) {
	cfg := config.New(map[string]any{
		"name":    "alice",
		"retries": 3,
		"ratio":   2.0,
		"half":    2.5,
		"enabled": true,
		"timeout": "1m30s",
		"wait":    2,
		"store": map[string]any{
			"path": "/tmp/q.db",
			"opts": map[string]any{"wal": true},
		},
		"dotted.key": "literal",
	})

	assert.Equal(t, "alice", cfg.String("name", "x"))
	assert.Equal(t, "x", cfg.String("retries", "x"))
	assert.Equal(t, "x", cfg.String("missing", "x"))

	assert.Equal(t, 3, cfg.Int("retries", 0))
	assert.Equal(t, 2, cfg.Int("ratio", 0))
	assert.Equal(t, 9, cfg.Int("half", 9), "fractional floats are rejected")
	assert.Equal(t, 9, cfg.Int("name", 9))

	assert.True(t, cfg.Bool("enabled", false))
	assert.True(t, cfg.Bool("name", true))

	assert.Equal(t, 90*time.Second, cfg.Duration("timeout", 0))
	assert.Equal(t, 2*time.Second, cfg.Duration("wait", 0))
	assert.Equal(t, 2500*time.Millisecond, cfg.Duration("half", 0))
	assert.Equal(t, time.Second, cfg.Duration("name", time.Second))

	assert.Equal(t, "/tmp/q.db", cfg.String("store.path", ""))
	assert.True(t, cfg.Bool("store.opts.wal", false))
	assert.Equal(t, "literal", cfg.String("dotted.key", ""))

	assert.True(t, cfg.Has("store.opts"))
	assert.False(t, cfg.Has("store.nope"))
}

func TestSection(t *testing.T) {
	cfg := config.New(map[string]any{
		"store": map[string]any{"path": "q.db"},
		"flag":  true,
	})

	assert.Equal(t, "q.db", cfg.Section("store").String("path", ""))
	assert.Empty(t, cfg.Section("flag").Raw())
	assert.Empty(t, cfg.Section("missing").Raw())
}

func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
evaluator:
  max_depth: 10
  strict_query_shape: true
observability:
  log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Int("evaluator.max_depth", 0))
	assert.True(t, cfg.Bool("evaluator.strict_query_shape", false))

	cfg, err = config.FromYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Raw())

	_, err = config.FromYAML([]byte("evaluator: [unclosed"))
	assert.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"evaluator": {"cache_size": 0}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Int("evaluator.cache_size", 5))

	_, err = config.FromJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCMATCH_TEST_DIR", "/var/lib/docmatch")

	yamlPath := filepath.Join(dir, "docmatch.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("store:\n  path: ${DOCMATCH_TEST_DIR}/q.db\n"), 0o600))
	cfg, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/docmatch/q.db", cfg.String("store.path", ""))

	jsonPath := filepath.Join(dir, "docmatch.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"filter": {"timeout": "5s"}}`), 0o600))
	cfg, err = config.FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Duration("filter.timeout", 0))

	_, err = config.FromFile(filepath.Join(dir, "docmatch.toml"))
	assert.Error(t, err)

	tomlPath := filepath.Join(dir, "other.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("x = 1"), 0o600))
	_, err = config.FromFile(tomlPath)
	assert.ErrorContains(t, err, "unsupported config file extension")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := config.Load(config.New(nil))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultSettings(), s)
		assert.Equal(t, docmatch.DefaultMaxDepth, s.MaxDepth)
		assert.Equal(t, slog.LevelInfo, s.LogLevel)
	})

	t.Run("values", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte(`
evaluator:
  max_depth: 8
  cache_size: 0
  regex_cache_size: 16
  strict_query_shape: true
observability:
  log_level: WARN
  metrics: true
  tracing: true
store:
  path: q.db
filter:
  timeout: 2s
`))
		require.NoError(t, err)

		s, err := config.Load(cfg)
		require.NoError(t, err)
		assert.Equal(t, config.Settings{
			MaxDepth:         8,
			CacheSize:        0,
			RegexCacheSize:   16,
			StrictQueryShape: true,
			LogLevel:         slog.LevelWarn,
			Metrics:          true,
			Tracing:          true,
			StorePath:        "q.db",
			FilterTimeout:    2 * time.Second,
		}, s)
	})

	invalid := []struct {
		name string
		data map[string]any
	}{
		{"zero depth", map[string]any{"evaluator": map[string]any{"max_depth": 0}}},
		{"negative cache", map[string]any{"evaluator": map[string]any{"cache_size": -1}}},
		{"negative regex cache", map[string]any{"evaluator": map[string]any{"regex_cache_size": -1}}},
		{"negative timeout", map[string]any{"filter": map[string]any{"timeout": "-1s"}}},
		{"unknown level", map[string]any{"observability": map[string]any{"log_level": "loud"}}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(config.New(tt.data))
			assert.ErrorIs(t, err, config.ErrInvalidSetting)
		})
	}
}

func TestSettings_EvaluatorOptions(t *testing.T) {
	s := config.DefaultSettings()
	s.MaxDepth = 1
	s.StrictQueryShape = true

	ev := docmatch.New(s.EvaluatorOptions(nil)...)

	_, err := ev.Evaluate(map[string]any{}, map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}})
	assert.ErrorIs(t, err, docmatch.ErrMaxDepthExceeded)

	_, err = ev.Evaluate(map[string]any{}, "scalar")
	assert.ErrorIs(t, err, docmatch.ErrMalformedQuery)
}
