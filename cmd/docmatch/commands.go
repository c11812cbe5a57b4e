package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/randalmurphal/docmatch/pkg/docmatch"
	"github.com/randalmurphal/docmatch/pkg/docmatch/document"
	"github.com/randalmurphal/docmatch/pkg/docmatch/observability"
	"github.com/randalmurphal/docmatch/pkg/docmatch/store"
)

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Query file (.json, .yaml, .yml)",
		},
		&cli.StringFlag{
			Name:    "expr",
			Aliases: []string{"e"},
			Usage:   "Inline JSON query",
		},
	}
}

func matchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Print the documents that satisfy a query",
		ArgsUsage: "[FILE...]",
		Description: `Reads documents from each FILE (.json, .ndjson, .jsonl, .yaml, .yml), or
from standard input as JSON or NDJSON when no file is given, and prints the
matching documents as NDJSON.

Example:
  docmatch match -e '{"status": "open"}' tickets.ndjson
  docmatch match --db q.db --saved triage --count tickets.json`,
		Flags: append(queryFlags(),
			&cli.StringFlag{
				Name:    "saved",
				Aliases: []string{"s"},
				Usage:   "Name of a saved query",
			},
			&cli.BoolFlag{
				Name:  "count",
				Usage: "Print only the number of matching documents",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort after this long (overrides filter.timeout)",
			},
		),
		Action: runMatch,
	}
}

func runMatch(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	query, err := resolveQuery(c, e)
	if err != nil {
		return err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := e.settings.FilterTimeout
	if c.IsSet("timeout") {
		timeout = c.Duration("timeout")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	hash, _ := docmatch.QueryHash(query)
	log := observability.EnrichLogger(e.logger, uuid.NewString(), hash)

	sources := c.Args().Slice()
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	total := 0
	for _, src := range sources {
		docs, err := readDocuments(c, src)
		if err != nil {
			return err
		}
		log.Debug("matching documents", "source", src, "documents", len(docs))

		matches, err := e.evaluator.Filter(ctx, docs, query)
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
		total += len(matches)

		if c.Bool("count") {
			continue
		}
		for _, m := range matches {
			if err := document.Encode(c.App.Writer, m); err != nil {
				return err
			}
		}
	}

	if c.Bool("count") {
		fmt.Fprintln(c.App.Writer, total)
	}
	return nil
}

// resolveQuery returns the query named by --query, --expr or --saved.
func resolveQuery(c *cli.Context, e *env) (any, error) {
	query, ok, err := queryFromFlags(c)
	if err != nil {
		return nil, err
	}

	name := c.String("saved")
	switch {
	case ok && name != "":
		return nil, fmt.Errorf("--saved cannot be combined with --query or --expr")
	case ok:
		return query, nil
	case name != "":
		s, err := e.openStore()
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return store.Raw(s, name)
	default:
		return nil, fmt.Errorf("one of --query, --expr or --saved is required")
	}
}

func readDocuments(c *cli.Context, src string) ([]any, error) {
	if src == "-" {
		docs, err := document.DecodeStream(c.App.Reader)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return docs, nil
	}
	return document.LoadFile(src)
}

func saveCommand() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Validate a query and save it by name",
		Description: `Compiles the query, rejecting unsupported operators and malformed
payloads, and stores it in the query store. Saving an existing name replaces
the query and increments its version.

Example:
  docmatch save --db q.db --name triage --query triage.yaml`,
		Flags: append(queryFlags(),
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Name to save the query under",
				Required: true,
			},
		),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			query, ok, err := queryFromFlags(c)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("one of --query or --expr is required")
			}

			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := store.Put(s, e.evaluator, c.String("name"), query)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "saved %s (version %d)\n", info.Name, info.Version)
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List saved queries",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			infos, err := s.List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tSIZE\tUPDATED")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
					info.Name, info.Version, info.Size, info.UpdatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a saved query",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Name of the saved query",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			name := c.String("name")
			if err := s.Delete(name); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			fmt.Fprintf(c.App.Writer, "deleted %s\n", name)
			return nil
		},
	}
}
