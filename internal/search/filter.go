// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"sort"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// TopPerSource keeps the n highest-ranked papers of each source and returns
// them in their original order. Papers rank by citation count; arXiv
// reports no citations, so its papers rank by year instead. Ties keep
// original order. n <= 0 keeps everything.
func TopPerSource(papers []types.Paper, n int) []types.Paper {
	if n <= 0 {
		return append([]types.Paper(nil), papers...)
	}

	bySource := make(map[string][]int)
	var order []string
	for i, p := range papers {
		if _, ok := bySource[p.Source]; !ok {
			order = append(order, p.Source)
		}
		bySource[p.Source] = append(bySource[p.Source], i)
	}

	keep := make(map[int]bool)
	for _, src := range order {
		idx := bySource[src]
		key := func(i int) int { return papers[i].CitationCount }
		if src == types.SourceArxiv {
			key = func(i int) int { return papers[i].Year }
		}
		sort.SliceStable(idx, func(a, b int) bool { return key(idx[a]) > key(idx[b]) })
		if len(idx) > n {
			idx = idx[:n]
		}
		for _, i := range idx {
			keep[i] = true
		}
	}

	out := make([]types.Paper, 0, len(keep))
	for i, p := range papers {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
