// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"math"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// PageRankResult holds scores indexed by node plus how the iteration ended.
type PageRankResult struct {
	Scores     []float64
	Iterations int

	// Delta is the L1 change of the last iteration.
	Delta     float64
	Converged bool
}

// PageRank runs power iteration from a uniform start. Rank held by nodes
// with no outgoing edges is spread over the teleport distribution, which
// is uniform for explicit graphs. The loop stops when the L1 change drops
// below cfg.Tolerance or after cfg.MaxIterations; the latter leaves
// Converged false. Scores always sum to 1 for a non-empty graph.
func PageRank(g *Graph, cfg types.GraphConfig) PageRankResult {
	n := g.Len()
	if n == 0 {
		return PageRankResult{Converged: true}
	}

	d := cfg.Damping
	if d <= 0 || d >= 1 {
		d = types.DefaultGraphConfig().Damping
	}
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = types.DefaultGraphConfig().Tolerance
	}
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = types.DefaultGraphConfig().MaxIterations
	}

	v := g.teleport
	if v == nil {
		v = make([]float64, n)
		for i := range v {
			v[i] = 1 / float64(n)
		}
	}

	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1 / float64(n)
	}
	next := make([]float64, n)

	res := PageRankResult{}
	for res.Iterations < maxIter {
		res.Iterations++

		dangling := 0.0
		for i := 0; i < n; i++ {
			if len(g.out[i]) == 0 {
				dangling += rank[i]
			}
		}
		for j := 0; j < n; j++ {
			next[j] = (1-d)*v[j] + d*dangling*v[j]
		}
		for i := 0; i < n; i++ {
			if len(g.out[i]) == 0 {
				continue
			}
			share := d * rank[i] / float64(len(g.out[i]))
			for _, j := range g.out[i] {
				next[j] += share
			}
		}

		delta := 0.0
		for i := range rank {
			delta += math.Abs(next[i] - rank[i])
		}
		rank, next = next, rank
		res.Delta = delta
		if delta < tol {
			res.Converged = true
			break
		}
	}

	total := 0.0
	for _, r := range rank {
		total += r
	}
	for i := range rank {
		rank[i] /= total
	}
	res.Scores = rank
	return res
}
