// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// EdgeMode selects how the citation graph obtains its edges.
type EdgeMode string

const (
	// EdgeAuto uses explicit references when at least one resolves inside
	// the collection and falls back to synthetic weighting otherwise.
	EdgeAuto EdgeMode = "auto"

	// EdgeExplicit uses only References edges.
	EdgeExplicit EdgeMode = "explicit"

	// EdgeSynthetic ignores References and weights each paper by its
	// citation count. Scores under this mode approximate influence; they
	// are not PageRank over a real citation network.
	EdgeSynthetic EdgeMode = "synthetic"
)

// GroupBy selects the grouping applied by the graph analyzer.
type GroupBy string

const (
	GroupByVenue  GroupBy = "venue"
	GroupByYear   GroupBy = "year"
	GroupByAuthor GroupBy = "author"

	// GroupByLabelPropagation runs label propagation over the citation
	// edges. It is the only mode that looks at graph structure.
	GroupByLabelPropagation GroupBy = "label-propagation"
)

// ScoreRecord holds the per-paper output of one analysis run.
type ScoreRecord struct {
	PageRank    float64 `json:"pagerank" yaml:"pagerank"`
	Betweenness float64 `json:"betweenness" yaml:"betweenness"`
	Degree      float64 `json:"degree" yaml:"degree"`
	Group       string  `json:"group,omitempty" yaml:"group,omitempty"`
}

// Group is a set of papers sharing a grouping label.
type Group struct {
	Label   string   `json:"label" yaml:"label"`
	Members []string `json:"members" yaml:"members"`
}

// GraphSummary describes the graph an analysis ran over.
type GraphSummary struct {
	Nodes        int      `json:"nodes" yaml:"nodes"`
	Edges        int      `json:"edges" yaml:"edges"`
	DroppedEdges int      `json:"dropped_edges" yaml:"dropped_edges"`
	Mode         EdgeMode `json:"mode" yaml:"mode"`

	// Approximate is true when edges were synthesized from citation counts.
	Approximate bool `json:"approximate" yaml:"approximate"`
}

// Convergence reports how the PageRank iteration finished.
type Convergence struct {
	Converged  bool    `json:"converged" yaml:"converged"`
	Iterations int     `json:"iterations" yaml:"iterations"`
	Delta      float64 `json:"delta" yaml:"delta"`
}

// AnalysisResult is produced fresh by every analysis run and never mutated
// afterwards.
type AnalysisResult struct {
	Scores      map[string]ScoreRecord `json:"scores" yaml:"scores"`
	Groups      []Group                `json:"groups" yaml:"groups"`
	GroupBy     GroupBy                `json:"group_by" yaml:"group_by"`
	Graph       GraphSummary           `json:"graph" yaml:"graph"`
	Convergence Convergence            `json:"convergence" yaml:"convergence"`
}

// RankedScore pairs a paper ID with its score record.
type RankedScore struct {
	ID string `json:"id" yaml:"id"`
	ScoreRecord
}

// TopByPageRank returns up to n records ordered by descending PageRank.
// Ties are broken by ID so the order is deterministic. n <= 0 returns all.
func (r AnalysisResult) TopByPageRank(n int) []RankedScore {
	ranked := make([]RankedScore, 0, len(r.Scores))
	for id, s := range r.Scores {
		ranked = append(ranked, RankedScore{ID: id, ScoreRecord: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PageRank != ranked[j].PageRank {
			return ranked[i].PageRank > ranked[j].PageRank
		}
		return ranked[i].ID < ranked[j].ID
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
