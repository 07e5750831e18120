// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-analyzer/internal/search"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Fetch papers citing a collection's papers",
	Long: `Expand looks up the papers that cite each seed in a collection, using
Semantic Scholar first and OpenAlex as a fallback. Every citing paper lists
its seed in references, so a later analysis sees real citation edges.

With --session and --extend the citing papers are merged into a new child
session. Otherwise they are written to --output or stdout.`,
	RunE: runExpand,
}

func init() {
	addCollectionFlags(expandCmd)
	f := expandCmd.Flags()
	f.Int("seeds", 10, "expand only the N most cited papers (0 expands all)")
	f.Int("per-seed", 20, "citing papers fetched per seed")
	f.Int("limit", 200, "total citing papers to collect (0 for no cap)")
	f.Bool("extend", false, "merge the citing papers into a child of --session")
	f.String("output", "", "output JSON file (default: stdout)")

	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	seedsN, _ := cmd.Flags().GetInt("seeds")
	perSeed, _ := cmd.Flags().GetInt("per-seed")
	limit, _ := cmd.Flags().GetInt("limit")
	extend, _ := cmd.Flags().GetBool("extend")
	output, _ := cmd.Flags().GetString("output")

	col, err := loadCollection(ctx, cmd)
	if err != nil {
		return err
	}
	if extend && col.SessionID == "" {
		return fmt.Errorf("--extend requires --session")
	}

	seeds := mostCited(col.Papers, seedsN)
	out, err := search.Expand(ctx, seeds, buildExpanders(cfg.Search), perSeed, limit, cfg.Search, os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "expand: %d citing papers from %d seeds (%d skipped, %d errors)\n",
		len(out.Papers), len(seeds), out.Skipped, len(out.Errors))

	if !extend {
		return writeOutput(output, out.Papers)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	child, res, err := store.Extend(ctx, col.SessionID, out.Papers, cfg.Dedup)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "dedup: %d in, %d unique, %d duplicates, %d dropped\n",
		len(col.Papers)+len(out.Papers), len(res.Papers), res.Duplicates, res.Dropped)
	fmt.Fprintf(os.Stdout, "extended %s into %s (%d papers)\n", col.SessionID, child.ID, child.Summary.TotalPapers)
	return nil
}

// mostCited returns the n papers with the highest citation counts, ties
// kept in collection order. n <= 0 returns all papers.
func mostCited(papers []types.Paper, n int) []types.Paper {
	if n <= 0 || n >= len(papers) {
		return papers
	}
	sorted := make([]types.Paper, len(papers))
	copy(sorted, papers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CitationCount > sorted[j].CitationCount
	})
	return sorted[:n]
}
