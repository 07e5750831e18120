// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

const unknownLabel = "Unknown"

// AttributeLabel returns the bucket label for p under an attribute
// grouping. Venue falls back to the source tag, then to Unknown.
func AttributeLabel(p types.Paper, by types.GroupBy) (string, error) {
	switch by {
	case types.GroupByVenue:
		v := strings.TrimSpace(p.Venue)
		if v == "" {
			v = strings.TrimSpace(p.Source)
		}
		if v == "" {
			v = unknownLabel
		}
		return "Venue: " + v, nil
	case types.GroupByYear:
		if p.Year <= 0 {
			return "Year: " + unknownLabel, nil
		}
		return "Year: " + strconv.Itoa(p.Year), nil
	case types.GroupByAuthor:
		a := p.FirstAuthor()
		if a == "" {
			a = unknownLabel
		}
		return "Author: " + a, nil
	}
	return "", fmt.Errorf("unknown attribute grouping %q", by)
}

// GroupByAttribute buckets papers by venue, year, or first author. This is
// bucketing, not community detection: the citation graph plays no part.
// Groups with fewer than minSize members are omitted. Groups are ordered
// by size descending, then label; members keep collection order.
func GroupByAttribute(papers []types.Paper, by types.GroupBy, minSize int) ([]types.Group, error) {
	index := make(map[string]int)
	var groups []types.Group
	seen := make(map[string]bool)
	for _, p := range papers {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		label, err := AttributeLabel(p, by)
		if err != nil {
			return nil, err
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, types.Group{Label: label})
		}
		groups[i].Members = append(groups[i].Members, p.ID)
	}
	return sortGroups(filterGroups(groups, minSize)), nil
}

func filterGroups(groups []types.Group, minSize int) []types.Group {
	out := []types.Group{}
	for _, g := range groups {
		if len(g.Members) >= minSize {
			out = append(out, g)
		}
	}
	return out
}

func sortGroups(groups []types.Group) []types.Group {
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].Members) != len(groups[j].Members) {
			return len(groups[i].Members) > len(groups[j].Members)
		}
		return groups[i].Label < groups[j].Label
	})
	return groups
}
