// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"math"
	"sort"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// YearCount is the number of papers published in one year.
type YearCount struct {
	Year      int `json:"year" yaml:"year"`
	Count     int `json:"count" yaml:"count"`
	Citations int `json:"citations" yaml:"citations"`
}

// Growth is the change in paper count between two consecutive listed years.
type Growth struct {
	From      int `json:"from" yaml:"from"`
	To        int `json:"to" yaml:"to"`
	PrevCount int `json:"prev_count" yaml:"prev_count"`
	CurrCount int `json:"curr_count" yaml:"curr_count"`

	// Rate is the percentage change, rounded to one decimal.
	Rate float64 `json:"rate" yaml:"rate"`
}

// TemporalStats groups a collection by publication year.
type TemporalStats struct {
	Years  []YearCount `json:"years" yaml:"years"`
	Growth []Growth    `json:"growth" yaml:"growth"`

	// Unknown counts papers without a year.
	Unknown int `json:"unknown" yaml:"unknown"`

	FirstYear int `json:"first_year,omitempty" yaml:"first_year,omitempty"`
	LastYear  int `json:"last_year,omitempty" yaml:"last_year,omitempty"`
}

// Temporal counts papers per year in ascending order and the growth between
// each pair of consecutive years that have papers.
func Temporal(papers []types.Paper) TemporalStats {
	byYear := make(map[int]*YearCount)
	st := TemporalStats{Years: []YearCount{}, Growth: []Growth{}}
	for _, p := range papers {
		if p.Year <= 0 {
			st.Unknown++
			continue
		}
		yc, ok := byYear[p.Year]
		if !ok {
			yc = &YearCount{Year: p.Year}
			byYear[p.Year] = yc
		}
		yc.Count++
		yc.Citations += p.CitationCount
	}

	for _, yc := range byYear {
		st.Years = append(st.Years, *yc)
	}
	sort.Slice(st.Years, func(i, j int) bool { return st.Years[i].Year < st.Years[j].Year })

	for i := 1; i < len(st.Years); i++ {
		prev, curr := st.Years[i-1], st.Years[i]
		rate := 100 * float64(curr.Count-prev.Count) / float64(prev.Count)
		st.Growth = append(st.Growth, Growth{
			From:      prev.Year,
			To:        curr.Year,
			PrevCount: prev.Count,
			CurrCount: curr.Count,
			Rate:      math.Round(rate*10) / 10,
		})
	}
	if len(st.Years) > 0 {
		st.FirstYear = st.Years[0].Year
		st.LastYear = st.Years[len(st.Years)-1].Year
	}
	return st
}
