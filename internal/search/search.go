// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries academic APIs and returns a unified, deduplicated
// paper collection. It also expands a collection by following citations.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/research-analyzer/internal/dedup"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

const defaultMaxResults = 20

// Backend searches a single academic API. Each backend (arXiv, Semantic
// Scholar, OpenAlex) implements this interface.
type Backend interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Paper, error)
}

// Query holds the search parameters.
type Query struct {
	FreeText string
	Author   string
	Keywords []string
	DateFrom time.Time
	DateTo   time.Time
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return q.FreeText == "" && q.Author == "" && len(q.Keywords) == 0
}

// Text joins the query terms into one free-text string.
func (q Query) Text() string {
	var parts []string
	if q.FreeText != "" {
		parts = append(parts, q.FreeText)
	}
	if q.Author != "" {
		parts = append(parts, q.Author)
	}
	parts = append(parts, q.Keywords...)
	return strings.Join(parts, " ")
}

// Output holds the collection and the bookkeeping callers report.
type Output struct {
	// Raw is every paper returned by the backends, before filtering.
	Raw []types.Paper

	// Papers is the filtered, deduplicated collection.
	Papers []types.Paper

	Filtered      int
	Duplicates    int
	Dropped       int
	Matches       []dedup.Match
	BackendErrors []string
}

// Search fans out the query to all backends concurrently, keeps the top
// papers of each source, and deduplicates the rest. A failing backend is
// reported and skipped; Search fails only when every backend fails.
func Search(ctx context.Context, query Query, backends []Backend, cfg types.SearchConfig, dedupCfg types.DedupConfig, w io.Writer) (Output, error) {
	if query.IsEmpty() {
		return Output{}, fmt.Errorf("query is empty: provide a research question or structured parameters")
	}
	if len(backends) == 0 {
		return Output{}, fmt.Errorf("no search backends configured")
	}
	d, err := dedup.New(dedupCfg)
	if err != nil {
		return Output{}, err
	}

	type backendResult struct {
		index  int
		papers []types.Paper
		err    error
		name   string
	}

	ch := make(chan backendResult, len(backends))
	var wg sync.WaitGroup

	for i, b := range backends {
		if i > 0 && cfg.InterBackendDelay > 0 {
			select {
			case <-ctx.Done():
				return Output{}, fmt.Errorf("search canceled before backend %s: %w", b.Name(), ctx.Err())
			case <-time.After(cfg.InterBackendDelay):
			}
		}
		wg.Add(1)
		go func(i int, b Backend) {
			defer wg.Done()
			papers, err := b.Search(ctx, query, cfg)
			ch <- backendResult{index: i, papers: papers, err: err, name: b.Name()}
		}(i, b)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	// Collect per backend so the merged order does not depend on which
	// backend answered first.
	perBackend := make([][]types.Paper, len(backends))
	var out Output
	failed := 0
	for br := range ch {
		if br.err != nil {
			failed++
			out.BackendErrors = append(out.BackendErrors, fmt.Sprintf("%s: %v", br.name, br.err))
			fmt.Fprintf(w, "warning: backend %s failed: %v\n", br.name, br.err)
			continue
		}
		fmt.Fprintf(w, "%s: %d papers\n", br.name, len(br.papers))
		perBackend[br.index] = br.papers
	}
	if failed == len(backends) {
		return out, fmt.Errorf("all %d backends failed: %s", failed, strings.Join(out.BackendErrors, "; "))
	}

	for _, papers := range perBackend {
		out.Raw = append(out.Raw, papers...)
	}

	kept := TopPerSource(out.Raw, cfg.TopPerSource)
	out.Filtered = len(out.Raw) - len(kept)

	res := d.Deduplicate(kept)
	out.Papers = res.Papers
	out.Duplicates = res.Duplicates
	out.Dropped = res.Dropped
	out.Matches = res.Matches

	fmt.Fprintf(w, "dedup: %d in, %d unique, %d duplicates, %d dropped\n",
		len(kept), len(out.Papers), out.Duplicates, out.Dropped)
	return out, nil
}

// FormatTable writes the collection as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Year", "Cites", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, p := range out.Papers {
		year := ""
		if p.Year > 0 {
			year = fmt.Sprintf("%d", p.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %-6d  %s\n",
			i+1, Truncate(p.Title, 60), FormatAuthors(p.Authors), year, p.CitationCount, p.Source)
	}

	fmt.Fprintf(w, "\n%d papers", len(out.Papers))
	if out.Duplicates > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.Duplicates)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the collection as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	papers := out.Papers
	if papers == nil {
		papers = []types.Paper{}
	}
	return enc.Encode(papers)
}

// FormatAuthors abbreviates an author list to fit a 20-column cell.
func FormatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return Truncate(authors[0], 20)
	default:
		return Truncate(authors[0], 14) + " et al."
	}
}

// Truncate shortens s to max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
