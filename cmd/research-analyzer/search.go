// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-analyzer/internal/search"
	"github.com/pdiddy/research-analyzer/internal/session"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search academic APIs and deduplicate the results",
	Long: `Search queries arXiv, Semantic Scholar, and OpenAlex concurrently,
keeps the top papers per source, and merges duplicate records across
sources. Progress goes to stderr; the ranked table (or JSON) to stdout.

With --session the raw and deduplicated papers are frozen into that
session. With --save the query and its results are written to a YAML
query file that --from-file can replay later.`,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.String("query", "", "free-text research question")
	f.String("author", "", "filter by author name")
	f.StringSlice("keywords", nil, "keywords (comma-separated)")
	f.String("from", "", "publication date range start (YYYY-MM-DD)")
	f.String("to", "", "publication date range end (YYYY-MM-DD)")
	f.Int("max-results", defaultMaxResults, "results requested from each backend")
	f.Int("top-per-source", 0, "keep only the N most cited papers per source (0 keeps all)")
	f.StringSlice("backends", nil, "backends to query: arxiv, semantic_scholar, openalex (default: all enabled)")
	f.String("from-file", "", "replay the query stored in a query file")
	f.String("save", "", "write the query and results to this YAML query file")
	f.String("output", "", "write the deduplicated papers to this JSON file")
	f.String("csl", "", "write a CSL-YAML bibliography of the results to this file")
	f.String("session", "", "freeze the results into this session")
	f.Bool("json", false, "print results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	query, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	if query.IsEmpty() {
		return fmt.Errorf("provide --query, --author, --keywords, or --from-file")
	}

	names, _ := cmd.Flags().GetStringSlice("backends")
	backends, err := buildBackends(cfg.Search, names)
	if err != nil {
		return err
	}

	out, err := search.Search(ctx, query, backends, cfg.Search, cfg.Dedup, os.Stderr)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		used := make([]string, len(backends))
		for i, b := range backends {
			used[i] = b.Name()
		}
		if err := search.WriteQueryFile(path, query, cfg.Search, used, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "query saved to %s\n", path)
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := writeOutput(path, out.Papers); err != nil {
			return err
		}
	}

	if path, _ := cmd.Flags().GetString("csl"); path != "" {
		if err := writeCSL(path, out.Papers); err != nil {
			return err
		}
	}

	if id, _ := cmd.Flags().GetString("session"); id != "" {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		meta, err := store.Freeze(ctx, id, session.Collection{
			Raw:        out.Raw,
			Papers:     out.Papers,
			Duplicates: out.Duplicates,
			Dropped:    out.Dropped,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "froze session %s (%d papers)\n", meta.ID, meta.Summary.TotalPapers)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return search.FormatJSON(out, os.Stdout)
	}
	search.FormatTable(out, os.Stdout)
	return nil
}

// queryFromFlags builds a Query from --from-file or the individual flags.
// Flags given alongside --from-file override the stored values.
func queryFromFlags(cmd *cobra.Command) (search.Query, error) {
	var q search.Query

	if path, _ := cmd.Flags().GetString("from-file"); path != "" {
		qf, err := search.ReadQueryFile(path)
		if err != nil {
			return q, err
		}
		if q, err = qf.Query.ToQuery(); err != nil {
			return q, err
		}
	}

	if v, _ := cmd.Flags().GetString("query"); v != "" {
		q.FreeText = v
	}
	if v, _ := cmd.Flags().GetString("author"); v != "" {
		q.Author = v
	}
	if v, _ := cmd.Flags().GetStringSlice("keywords"); len(v) > 0 {
		q.Keywords = v
	}

	var err error
	if q.DateFrom, err = dateFlag(cmd, "from", q.DateFrom); err != nil {
		return q, err
	}
	if q.DateTo, err = dateFlag(cmd, "to", q.DateTo); err != nil {
		return q, err
	}
	return q, nil
}

func dateFlag(cmd *cobra.Command, name string, fallback time.Time) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return fallback, fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", name, v)
	}
	return t, nil
}
