// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph builds a citation graph over a paper collection and computes
// PageRank, betweenness, and degree centrality, plus groupings of papers.
//
// Edges come from Paper.References when they resolve inside the collection.
// Most search APIs do not return reference lists, so the graph falls back to
// a synthetic mode with no edges in which each paper's teleport weight is
// proportional to its citation count. Scores in synthetic mode are an
// approximation of influence and are flagged as such in every result.
//
// Attribute grouping (venue, year, first author) is plain bucketing and
// does not look at the graph. Label propagation is the one grouping that
// uses edges.
package graph

import (
	"sort"

	"github.com/pdiddy/research-analyzer/internal/dedup"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

// Graph is a read-only directed view over a collection. Node i corresponds
// to the i-th distinct paper ID in collection order. An edge i→j means
// paper i cites paper j.
type Graph struct {
	ids       []string
	citations []int
	out       [][]int
	in        [][]int

	// teleport is the random-jump distribution; nil means uniform.
	teleport []float64

	edges   int
	dropped int
	mode    types.EdgeMode
}

// Build constructs the graph for papers. Papers repeating an earlier ID are
// ignored. References that do not resolve to a node, and self-citations,
// are counted as dropped rather than rejected.
func Build(papers []types.Paper, mode types.EdgeMode) *Graph {
	if mode == "" {
		mode = types.EdgeAuto
	}

	g := &Graph{}
	lookup := make(map[string]int)
	var nodes []types.Paper

	for _, p := range papers {
		if _, seen := lookup[p.ID]; seen {
			continue
		}
		idx := len(nodes)
		nodes = append(nodes, p)
		g.ids = append(g.ids, p.ID)
		g.citations = append(g.citations, p.CitationCount)
		lookup[p.ID] = idx
	}
	// Aliases and DOIs resolve references too, but never shadow a real ID.
	for idx, p := range nodes {
		keys := append([]string(nil), p.Aliases...)
		if doi := dedup.NormalizeDOI(p.DOI); doi != "" {
			keys = append(keys, doi, "doi:"+doi)
		}
		for _, k := range keys {
			if _, taken := lookup[k]; !taken {
				lookup[k] = idx
			}
		}
	}

	n := len(nodes)
	g.out = make([][]int, n)
	g.in = make([][]int, n)

	if mode != types.EdgeSynthetic {
		for i, p := range nodes {
			seen := make(map[int]bool)
			for _, ref := range p.References {
				j, ok := resolve(lookup, ref)
				if !ok || j == i {
					g.dropped++
					continue
				}
				if seen[j] {
					continue
				}
				seen[j] = true
				g.out[i] = append(g.out[i], j)
				g.in[j] = append(g.in[j], i)
				g.edges++
			}
		}
	}

	switch {
	case mode == types.EdgeSynthetic:
		g.mode = types.EdgeSynthetic
	case mode == types.EdgeAuto && g.edges == 0:
		g.mode = types.EdgeSynthetic
	default:
		g.mode = types.EdgeExplicit
	}

	if g.mode == types.EdgeSynthetic {
		for i := range g.out {
			g.out[i], g.in[i] = nil, nil
		}
		g.edges = 0
		g.teleport = citationWeights(g.citations)
	}
	return g
}

func resolve(lookup map[string]int, ref string) (int, bool) {
	if j, ok := lookup[ref]; ok {
		return j, true
	}
	if doi := dedup.NormalizeDOI(ref); doi != "" {
		j, ok := lookup[doi]
		return j, ok
	}
	return 0, false
}

// citationWeights returns (c+1)/Σ(c+1) per node so uncited papers keep a
// non-zero share.
func citationWeights(citations []int) []float64 {
	if len(citations) == 0 {
		return nil
	}
	w := make([]float64, len(citations))
	total := 0.0
	for i, c := range citations {
		if c < 0 {
			c = 0
		}
		w[i] = float64(c + 1)
		total += w[i]
	}
	for i := range w {
		w[i] /= total
	}
	return w
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.ids) }

// ID returns the paper ID of node i.
func (g *Graph) ID(i int) string { return g.ids[i] }

// Edges returns the number of distinct citation edges.
func (g *Graph) Edges() int { return g.edges }

// Mode returns the edge mode actually used.
func (g *Graph) Mode() types.EdgeMode { return g.mode }

// Approximate reports whether scores come from citation counts instead of
// real citation edges.
func (g *Graph) Approximate() bool { return g.mode == types.EdgeSynthetic }

// Successors returns the papers cited by node i.
func (g *Graph) Successors(i int) []int { return g.out[i] }

// Summary describes the graph for an AnalysisResult.
func (g *Graph) Summary() types.GraphSummary {
	return types.GraphSummary{
		Nodes:        g.Len(),
		Edges:        g.edges,
		DroppedEdges: g.dropped,
		Mode:         g.mode,
		Approximate:  g.Approximate(),
	}
}

// neighbors returns the undirected adjacency, each list sorted by node
// index and free of repeats.
func (g *Graph) neighbors() [][]int {
	adj := make([][]int, g.Len())
	for i := range adj {
		seen := make(map[int]bool)
		for _, j := range append(append([]int(nil), g.out[i]...), g.in[i]...) {
			if !seen[j] {
				seen[j] = true
				adj[i] = append(adj[i], j)
			}
		}
		sort.Ints(adj[i])
	}
	return adj
}
