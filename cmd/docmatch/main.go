// Package main provides the docmatch CLI for evaluating filter queries
// against JSON and YAML documents.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:  "docmatch",
		Usage: "Filter JSON and YAML documents with MongoDB-style queries",
		Description: `Evaluates filter queries such as {"status": "open", "priority": {"$gte": 2}}
against documents read from files or standard input.

Queries can be given inline, read from a file, or saved by name in a SQLite
query store and reused.

Workflow:
  1. Save a query:   docmatch save --db q.db --name triage --query triage.yaml
  2. Run it:         docmatch match --db q.db --saved triage tickets.ndjson
  3. Inspect saved:  docmatch list --db q.db`,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or JSON configuration file",
				EnvVars: []string{"DOCMATCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite saved-query store (overrides store.path)",
				EnvVars: []string{"DOCMATCH_DB"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides observability.log_level)",
			},
		},
		Commands: []*cli.Command{
			matchCommand(),
			saveCommand(),
			listCommand(),
			deleteCommand(),
		},
	}
}
