// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"strconv"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// LabelPropagation detects communities on the undirected view of g. Every
// node starts with its own label; sweeps visit nodes in index order and
// adopt the most common neighbor label, keeping the current label when it
// is among the most common and otherwise taking the smallest. Sweeps stop
// when nothing changes or after maxIter. The returned community numbers
// start at 0 and follow first appearance in node order.
func LabelPropagation(g *Graph, maxIter int) []int {
	n := g.Len()
	if maxIter <= 0 {
		maxIter = types.DefaultGraphConfig().LabelPropagationIterations
	}
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}
	adj := g.neighbors()

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			if len(adj[i]) == 0 {
				continue
			}
			counts := make(map[int]int)
			best := 0
			for _, j := range adj[i] {
				counts[labels[j]]++
				if counts[labels[j]] > best {
					best = counts[labels[j]]
				}
			}
			if counts[labels[i]] == best {
				continue
			}
			pick := -1
			for l, c := range counts {
				if c == best && (pick < 0 || l < pick) {
					pick = l
				}
			}
			labels[i] = pick
			changed = true
		}
		if !changed {
			break
		}
	}

	renumber := make(map[int]int)
	out := make([]int, n)
	for i, l := range labels {
		c, ok := renumber[l]
		if !ok {
			c = len(renumber)
			renumber[l] = c
		}
		out[i] = c
	}
	return out
}

// CommunityGroups turns label propagation output into named groups,
// filtered by minSize and ordered like attribute groups.
func CommunityGroups(g *Graph, communities []int, minSize int) []types.Group {
	var groups []types.Group
	for i, c := range communities {
		for len(groups) <= c {
			groups = append(groups, types.Group{Label: communityLabel(len(groups))})
		}
		groups[c].Members = append(groups[c].Members, g.ID(i))
	}
	return sortGroups(filterGroups(groups, minSize))
}

func communityLabel(c int) string {
	return "Community " + strconv.Itoa(c+1)
}
