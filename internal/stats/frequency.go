// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import "sort"

// ValueCount is one categorical value and how often it occurs.
type ValueCount struct {
	Value   string  `json:"value" yaml:"value"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// FrequencyStats counts the values of a categorical field.
type FrequencyStats struct {
	// Total is the number of non-empty values counted.
	Total  int          `json:"total" yaml:"total"`
	Unique int          `json:"unique" yaml:"unique"`
	Top    []ValueCount `json:"top" yaml:"top"`
}

// Frequency counts values, skipping empty strings, and returns the topN most
// frequent ordered by count descending then value. topN <= 0 returns all.
func Frequency(values []string, topN int) FrequencyStats {
	counts := make(map[string]int)
	total := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
		total++
	}

	top := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		top = append(top, ValueCount{Value: v, Count: c, Percent: 100 * float64(c) / float64(total)})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Value < top[j].Value
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	return FrequencyStats{Total: total, Unique: len(counts), Top: top}
}
