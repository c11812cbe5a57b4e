package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/randalmurphal/docmatch/pkg/docmatch"
	"github.com/randalmurphal/docmatch/pkg/docmatch/config"
	"github.com/randalmurphal/docmatch/pkg/docmatch/document"
	"github.com/randalmurphal/docmatch/pkg/docmatch/store"
)

var errNoStore = errors.New("no query store configured: set --db or store.path")

// env is the per-invocation state shared by commands.
type env struct {
	settings  config.Settings
	logger    *slog.Logger
	evaluator *docmatch.Evaluator
}

// setup loads settings from the global flags and builds the logger and
// evaluator.
func setup(c *cli.Context) (*env, error) {
	cfg := config.New(nil)
	if path := c.String("config"); path != "" {
		loaded, err := config.FromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	settings, err := config.Load(cfg)
	if err != nil {
		return nil, err
	}
	if db := c.String("db"); db != "" {
		settings.StorePath = db
	}
	if lvl := c.String("log-level"); lvl != "" {
		level, err := config.ParseLogLevel(lvl)
		if err != nil {
			return nil, err
		}
		settings.LogLevel = level
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: settings.LogLevel,
	}))

	return &env{
		settings:  settings,
		logger:    logger,
		evaluator: docmatch.New(settings.EvaluatorOptions(logger)...),
	}, nil
}

// openStore opens the configured SQLite query store.
func (e *env) openStore() (store.Store, error) {
	if e.settings.StorePath == "" {
		return nil, errNoStore
	}
	return store.NewSQLiteStore(e.settings.StorePath)
}

// queryFromFlags reads the query given by --query FILE or --expr JSON.
// ok is false when neither flag is set.
func queryFromFlags(c *cli.Context) (query any, ok bool, err error) {
	file, expr := c.String("query"), c.String("expr")
	switch {
	case file != "" && expr != "":
		return nil, false, fmt.Errorf("--query and --expr are mutually exclusive")
	case file != "":
		q, err := document.LoadQuery(file)
		return q, true, err
	case expr != "":
		q, err := document.DecodeJSON([]byte(expr))
		if err != nil {
			return nil, true, fmt.Errorf("--expr: %w", err)
		}
		return q, true, nil
	default:
		return nil, false, nil
	}
}
