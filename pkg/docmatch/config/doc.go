/*
Package config loads docmatch configuration from YAML or JSON files.

# Overview

Config wraps a map[string]any and provides typed accessor methods that
return a default when a key is missing or has the wrong type. Keys are path
expressions, so nested sections are read directly:

	cfg, err := config.FromFile("docmatch.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	depth := cfg.Int("evaluator.max_depth", 64)
	db := cfg.String("store.path", "")

# Settings

Load reads the known keys into Settings and validates them:

	evaluator:
	  max_depth: 64
	  cache_size: 256
	  regex_cache_size: 256
	  strict_query_shape: false
	observability:
	  log_level: info
	  metrics: false
	  tracing: false
	store:
	  path: ${HOME}/.docmatch/queries.db
	filter:
	  timeout: 30s

	settings, err := config.Load(cfg)
	ev := docmatch.New(settings.EvaluatorOptions(logger)...)

Environment references in files are expanded by FromFile.
*/
package config
