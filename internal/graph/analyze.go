// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"fmt"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// Analyze builds the graph for papers and computes every score and the
// configured grouping. Zero fields in cfg take their defaults. The input
// is not modified and the result shares no state with it. An empty
// collection yields an empty result, not an error.
func Analyze(papers []types.Paper, cfg types.GraphConfig) (types.AnalysisResult, error) {
	cfg = withDefaults(cfg)

	switch cfg.EdgeMode {
	case types.EdgeAuto, types.EdgeExplicit, types.EdgeSynthetic:
	default:
		return types.AnalysisResult{}, fmt.Errorf("unknown edge mode %q", cfg.EdgeMode)
	}
	switch cfg.GroupBy {
	case types.GroupByVenue, types.GroupByYear, types.GroupByAuthor, types.GroupByLabelPropagation:
	default:
		return types.AnalysisResult{}, fmt.Errorf("unknown group-by %q", cfg.GroupBy)
	}

	g := Build(papers, cfg.EdgeMode)
	pr := PageRank(g, cfg)
	bc := Betweenness(g, cfg.NormalizeBetweenness)
	deg := DegreeCentrality(g)

	res := types.AnalysisResult{
		Scores:  make(map[string]types.ScoreRecord, g.Len()),
		Groups:  []types.Group{},
		GroupBy: cfg.GroupBy,
		Graph:   g.Summary(),
		Convergence: types.Convergence{
			Converged:  pr.Converged,
			Iterations: pr.Iterations,
			Delta:      pr.Delta,
		},
	}

	labels := make([]string, g.Len())
	if cfg.GroupBy == types.GroupByLabelPropagation {
		communities := LabelPropagation(g, cfg.LabelPropagationIterations)
		for i, c := range communities {
			labels[i] = communityLabel(c)
		}
		res.Groups = CommunityGroups(g, communities, cfg.MinGroupSize)
	} else {
		groups, err := GroupByAttribute(papers, cfg.GroupBy, cfg.MinGroupSize)
		if err != nil {
			return types.AnalysisResult{}, err
		}
		res.Groups = groups
		seen := make(map[string]bool)
		i := 0
		for _, p := range papers {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			labels[i], _ = AttributeLabel(p, cfg.GroupBy)
			i++
		}
	}

	for i := 0; i < g.Len(); i++ {
		res.Scores[g.ID(i)] = types.ScoreRecord{
			PageRank:    pr.Scores[i],
			Betweenness: bc[i],
			Degree:      deg[i],
			Group:       labels[i],
		}
	}
	return res, nil
}

func withDefaults(cfg types.GraphConfig) types.GraphConfig {
	def := types.DefaultGraphConfig()
	if cfg.Damping <= 0 || cfg.Damping >= 1 {
		cfg.Damping = def.Damping
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.GroupBy == "" {
		cfg.GroupBy = def.GroupBy
	}
	if cfg.EdgeMode == "" {
		cfg.EdgeMode = def.EdgeMode
	}
	if cfg.MinGroupSize <= 0 {
		cfg.MinGroupSize = def.MinGroupSize
	}
	if cfg.LabelPropagationIterations <= 0 {
		cfg.LabelPropagationIterations = def.LabelPropagationIterations
	}
	return cfg
}
