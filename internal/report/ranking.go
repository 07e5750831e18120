// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders analysis results: ranking tables for the terminal,
// JSON and YAML result files, a markdown experiment report, and a CSL-YAML
// bibliography.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/research-analyzer/internal/search"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

// approximateNote explains synthetic-mode scores wherever they are shown.
const approximateNote = "note: no citation edges were available; scores are weighted by citation counts and only approximate influence"

// FormatRanking writes the top papers by PageRank as a table to w. top <= 0
// lists every paper.
func FormatRanking(w io.Writer, res types.AnalysisResult, papers []types.Paper, top int) {
	ranked := res.TopByPageRank(top)
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No papers to rank.")
		return
	}
	byID := indexPapers(papers)

	fmt.Fprintf(w, "%-4s  %-8s  %-8s  %-6s  %-50s  %-4s  %s\n",
		"Rank", "PageRank", "Between", "Degree", "Title", "Year", "Group")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range ranked {
		p := byID[r.ID]
		title := p.Title
		if title == "" {
			title = r.ID
		}
		year := ""
		if p.Year > 0 {
			year = fmt.Sprintf("%d", p.Year)
		}
		fmt.Fprintf(w, "%-4d  %-8.4f  %-8.4f  %-6.3f  %-50s  %-4s  %s\n",
			i+1, r.PageRank, r.Betweenness, r.Degree, search.Truncate(title, 50), year, r.Group)
	}

	g := res.Graph
	fmt.Fprintf(w, "\n%d papers, %d edges (%s mode", g.Nodes, g.Edges, g.Mode)
	if g.DroppedEdges > 0 {
		fmt.Fprintf(w, ", %d dangling references dropped", g.DroppedEdges)
	}
	fmt.Fprintln(w, ")")
	if !res.Convergence.Converged {
		fmt.Fprintf(w, "warning: PageRank did not converge after %d iterations (delta %.2g)\n",
			res.Convergence.Iterations, res.Convergence.Delta)
	}
	if g.Approximate {
		fmt.Fprintln(w, approximateNote)
	}
}

// FormatGroups writes each group with its size to w.
func FormatGroups(w io.Writer, res types.AnalysisResult) {
	if len(res.Groups) == 0 {
		fmt.Fprintln(w, "No groups.")
		return
	}
	fmt.Fprintf(w, "Groups by %s:\n", res.GroupBy)
	for _, g := range res.Groups {
		fmt.Fprintf(w, "  %-50s  %d\n", search.Truncate(g.Label, 50), len(g.Members))
	}
}

func indexPapers(papers []types.Paper) map[string]types.Paper {
	m := make(map[string]types.Paper, len(papers))
	for _, p := range papers {
		if _, ok := m[p.ID]; !ok {
			m[p.ID] = p
		}
	}
	return m
}
