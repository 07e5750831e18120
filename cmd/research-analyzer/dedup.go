// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-analyzer/internal/dedup"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Merge duplicate paper records in a JSON file",
	Long: `Dedup reads papers from --input (a JSON list, or an object mapping
source names to lists), merges records describing the same work, and
writes the deduplicated list to --output or stdout.

Rules are tried in order for each record: id, doi, title, title-year,
authors-year. The first rule that matches decides the merge. When two
records merge, the one from the higher-priority source wins and absorbs
the other's missing fields.`,
	RunE: runDedup,
}

func init() {
	f := dedupCmd.Flags()
	f.String("input", "", "JSON file of papers")
	f.String("output", "", "output JSON file (default: stdout)")
	f.StringSlice("rules", nil, "rules to apply in order (default: all)")
	f.StringSlice("source-priority", nil, "sources from most to least preferred")
	f.Float64("fuzzy-threshold", 0, "token-set ratio for the title-year rule")
	f.Bool("matches", false, "list every merge on stderr")
	dedupCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(dedupCmd)
}

func runDedup(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	showMatches, _ := cmd.Flags().GetBool("matches")

	papers, err := readPapers(input)
	if err != nil {
		return err
	}

	res, err := deduplicate(papers, cfg.Dedup, os.Stderr, showMatches)
	if err != nil {
		return err
	}
	return writeOutput(output, res.Papers)
}

// deduplicate runs the deduplicator and reports its counts on w.
func deduplicate(papers []types.Paper, c types.DedupConfig, w io.Writer, showMatches bool) (dedup.Result, error) {
	d, err := dedup.New(c)
	if err != nil {
		return dedup.Result{}, err
	}
	res := d.Deduplicate(papers)

	fmt.Fprintf(w, "dedup: %d in, %d unique, %d duplicates, %d dropped\n",
		len(papers), len(res.Papers), res.Duplicates, res.Dropped)
	if showMatches {
		for _, m := range res.Matches {
			fmt.Fprintf(w, "  %-8s %s <- %s\n", m.Rule, m.KeptID, m.MergedID)
		}
	}
	return res, nil
}
