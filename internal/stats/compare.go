// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import "sort"

// GroupStats summarizes one group's metric values.
type GroupStats struct {
	Label  string  `json:"label" yaml:"label"`
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// CompareGroups summarizes each non-empty group, ordered by mean descending
// then label.
func CompareGroups(groups map[string][]float64) []GroupStats {
	out := make([]GroupStats, 0, len(groups))
	for label, values := range groups {
		if len(values) == 0 {
			continue
		}
		d := Distribution(values, 1)
		out = append(out, GroupStats{
			Label:  label,
			Count:  d.Count,
			Mean:   d.Mean,
			Median: d.Median,
			Min:    d.Min,
			Max:    d.Max,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Label < out[j].Label
	})
	return out
}
