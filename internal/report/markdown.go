// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/research-analyzer/internal/stats"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

// RankedPaper is one row of the report's ranking table.
type RankedPaper struct {
	Rank        int     `json:"rank" yaml:"rank"`
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Year        int     `json:"year,omitempty" yaml:"year,omitempty"`
	Venue       string  `json:"venue,omitempty" yaml:"venue,omitempty"`
	Citations   int     `json:"citations" yaml:"citations"`
	PageRank    float64 `json:"pagerank" yaml:"pagerank"`
	Betweenness float64 `json:"betweenness" yaml:"betweenness"`
	Degree      float64 `json:"degree" yaml:"degree"`
	Group       string  `json:"group,omitempty" yaml:"group,omitempty"`
}

// Report gathers everything an experiment report shows.
type Report struct {
	Title        string    `json:"title" yaml:"title"`
	SessionID    string    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	ExperimentID string    `json:"experiment_id,omitempty" yaml:"experiment_id,omitempty"`
	Created      time.Time `json:"created" yaml:"created"`

	Papers int                `json:"papers" yaml:"papers"`
	Graph  types.GraphSummary `json:"graph" yaml:"graph"`

	Convergence types.Convergence `json:"convergence" yaml:"convergence"`
	GroupBy     types.GroupBy     `json:"group_by" yaml:"group_by"`
	Groups      []types.Group     `json:"groups" yaml:"groups"`
	Top         []RankedPaper     `json:"top" yaml:"top"`

	Citations stats.DistributionStats `json:"citations" yaml:"citations"`
	Venues    stats.FrequencyStats    `json:"venues" yaml:"venues"`
	Temporal  stats.TemporalStats     `json:"temporal" yaml:"temporal"`

	// CitationsByYear is nil when fewer than two papers have a year.
	CitationsByYear *stats.CorrelationStats `json:"citations_by_year,omitempty" yaml:"citations_by_year,omitempty"`
}

// Build assembles a Report from a collection and its analysis.
func Build(title string, papers []types.Paper, res types.AnalysisResult, cfg types.StatsConfig) Report {
	r := Report{
		Title:       title,
		Created:     time.Now().UTC(),
		Papers:      len(papers),
		Graph:       res.Graph,
		Convergence: res.Convergence,
		GroupBy:     res.GroupBy,
		Groups:      res.Groups,
		Temporal:    stats.Temporal(papers),
	}

	byID := indexPapers(papers)
	for i, s := range res.TopByPageRank(cfg.TopN) {
		p := byID[s.ID]
		r.Top = append(r.Top, RankedPaper{
			Rank:        i + 1,
			ID:          s.ID,
			Title:       p.Title,
			Year:        p.Year,
			Venue:       p.Venue,
			Citations:   p.CitationCount,
			PageRank:    s.PageRank,
			Betweenness: s.Betweenness,
			Degree:      s.Degree,
			Group:       s.Group,
		})
	}

	cites, _ := stats.NumericField(papers, stats.FieldCitations)
	r.Citations = stats.Distribution(cites, cfg.HistogramBins)

	venues, _ := stats.CategoricalField(papers, stats.FieldVenue)
	r.Venues = stats.Frequency(venues, cfg.TopN)

	xs, ys, _ := stats.Pairs(papers, stats.FieldYear, stats.FieldCitations)
	if c, err := stats.Correlation(xs, ys); err == nil {
		r.CitationsByYear = &c
	}
	return r
}

// Markdown writes r as a markdown document to w.
func Markdown(w io.Writer, r Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	if r.SessionID != "" {
		fmt.Fprintf(&b, "- Session: `%s`\n", r.SessionID)
	}
	if r.ExperimentID != "" {
		fmt.Fprintf(&b, "- Experiment: `%s`\n", r.ExperimentID)
	}
	fmt.Fprintf(&b, "- Generated: %s\n", r.Created.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Papers: %d\n", r.Papers)
	fmt.Fprintf(&b, "- Citation graph: %d nodes, %d edges, %d dangling references dropped (%s mode)\n",
		r.Graph.Nodes, r.Graph.Edges, r.Graph.DroppedEdges, r.Graph.Mode)
	converged := "converged"
	if !r.Convergence.Converged {
		converged = "did not converge"
	}
	fmt.Fprintf(&b, "- PageRank: %s after %d iterations\n\n", converged, r.Convergence.Iterations)
	if r.Graph.Approximate {
		fmt.Fprintf(&b, "> **Approximate scores.** No citation edges were available, so PageRank is weighted by citation counts. Treat the ranking as popularity, not structural influence.\n\n")
	}

	b.WriteString("## Most influential papers\n\n")
	if len(r.Top) == 0 {
		b.WriteString("No papers.\n\n")
	} else {
		b.WriteString("| # | Title | Year | Citations | PageRank | Betweenness | Group |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, p := range r.Top {
			year := ""
			if p.Year > 0 {
				year = fmt.Sprintf("%d", p.Year)
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %d | %.4f | %.4f | %s |\n",
				p.Rank, escapeCell(p.Title), year, p.Citations, p.PageRank, p.Betweenness, escapeCell(p.Group))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Groups (%s)\n\n", r.GroupBy)
	if r.GroupBy != types.GroupByLabelPropagation {
		b.WriteString("Groups are buckets of a shared attribute, not detected communities.\n\n")
	}
	for _, g := range r.Groups {
		fmt.Fprintf(&b, "- %s: %d papers\n", escapeCell(g.Label), len(g.Members))
	}
	b.WriteString("\n")

	b.WriteString("## Citation distribution\n\n")
	c := r.Citations
	if c.Count == 0 {
		b.WriteString("No citation data.\n\n")
	} else {
		fmt.Fprintf(&b, "| Count | Mean | Median | Std dev | Q1 | Q3 | Max | Outliers |\n")
		b.WriteString("|---|---|---|---|---|---|---|---|\n")
		fmt.Fprintf(&b, "| %d | %.1f | %.1f | %.1f | %.1f | %.1f | %.0f | %d |\n\n",
			c.Count, c.Mean, c.Median, c.StdDev, c.Q1, c.Q3, c.Max, len(c.Outliers))
	}

	if len(r.Venues.Top) > 0 {
		b.WriteString("## Top venues\n\n")
		for _, v := range r.Venues.Top {
			fmt.Fprintf(&b, "- %s: %d (%.1f%%)\n", escapeCell(v.Value), v.Count, v.Percent)
		}
		b.WriteString("\n")
	}

	if len(r.Temporal.Years) > 0 {
		b.WriteString("## Publications per year\n\n")
		b.WriteString("| Year | Papers | Citations |\n|---|---|---|\n")
		for _, y := range r.Temporal.Years {
			fmt.Fprintf(&b, "| %d | %d | %d |\n", y.Year, y.Count, y.Citations)
		}
		if r.Temporal.Unknown > 0 {
			fmt.Fprintf(&b, "\n%d papers have no year.\n", r.Temporal.Unknown)
		}
		b.WriteString("\n")
	}

	if cy := r.CitationsByYear; cy != nil {
		fmt.Fprintf(&b, "Year vs. citations: r = %.3f over %d papers (%s).\n", cy.R, cy.N, cy.Interpretation)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
