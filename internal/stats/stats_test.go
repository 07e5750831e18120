// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

func TestDistribution_CitationExample(t *testing.T) {
	values := []float64{0, 10, 10, 100}
	d := Distribution(values, 10)

	assert.Equal(t, 4, d.Count)
	assert.Equal(t, 10.0, d.Median)
	assert.Equal(t, 30.0, d.Mean)
	assert.Equal(t, 0.0, d.Min)
	assert.Equal(t, 100.0, d.Max)
	assert.Equal(t, 7.5, d.Q1)
	assert.Equal(t, 32.5, d.Q3)
	assert.InDelta(t, 46.904, d.StdDev, 1e-3)
	assert.Equal(t, []float64{100}, d.Outliers)
	assert.Equal(t, []float64{0, 10, 10, 100}, values, "input must not be reordered")
}

func TestDistribution_OddMedianAndQuartiles(t *testing.T) {
	d := Distribution([]float64{5, 1, 3, 2, 4}, 0)
	assert.Equal(t, 3.0, d.Median)
	assert.Equal(t, 2.0, d.Q1)
	assert.Equal(t, 4.0, d.Q3)
	assert.InDelta(t, math.Sqrt(2.5), d.StdDev, 1e-12)
	assert.Len(t, d.Histogram, DefaultBins)
	assert.Empty(t, d.Outliers)
}

func TestDistribution_Histogram(t *testing.T) {
	d := Distribution([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	require.Len(t, d.Histogram, 5)

	counts := make([]int, 5)
	for i, b := range d.Histogram {
		counts[i] = b.Count
	}
	assert.Equal(t, []int{2, 2, 2, 2, 3}, counts, "last bin includes the maximum")
	assert.Equal(t, 0.0, d.Histogram[0].Lower)
	assert.Equal(t, 10.0, d.Histogram[4].Upper)
}

func TestDistribution_Degenerate(t *testing.T) {
	empty := Distribution(nil, 10)
	assert.Zero(t, empty.Count)
	assert.Empty(t, empty.Histogram)

	one := Distribution([]float64{7}, 10)
	assert.Equal(t, 7.0, one.Median)
	assert.Zero(t, one.StdDev)
	assert.Equal(t, []Bin{{Lower: 7, Upper: 7, Count: 1}}, one.Histogram)
}

func TestFrequency(t *testing.T) {
	f := Frequency([]string{"ICML", "NeurIPS", "", "ICML", "ACL", "NeurIPS", "ICML"}, 2)
	assert.Equal(t, 6, f.Total)
	assert.Equal(t, 3, f.Unique)
	require.Len(t, f.Top, 2)
	assert.Equal(t, "ICML", f.Top[0].Value)
	assert.Equal(t, 3, f.Top[0].Count)
	assert.InDelta(t, 50.0, f.Top[0].Percent, 1e-9)
	assert.Equal(t, "NeurIPS", f.Top[1].Value)

	all := Frequency([]string{"b", "a"}, 0)
	assert.Equal(t, []ValueCount{{Value: "a", Count: 1, Percent: 50}, {Value: "b", Count: 1, Percent: 50}}, all.Top)
}

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name      string
		xs, ys    []float64
		r         float64
		strength  string
		direction string
	}{
		{"perfect positive", []float64{1, 2, 3}, []float64{2, 4, 6}, 1, "strong", "positive"},
		{"perfect negative", []float64{1, 2, 3}, []float64{3, 2, 1}, -1, "strong", "negative"},
		{"moderate", []float64{1, 2, 3, 4}, []float64{1, 3, 1, 3}, 0.4472, "moderate", "positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Correlation(tt.xs, tt.ys)
			require.NoError(t, err)
			assert.True(t, c.Defined)
			assert.InDelta(t, tt.r, c.R, 1e-4)
			assert.Equal(t, tt.strength, c.Strength)
			assert.Equal(t, tt.direction, c.Direction)
			assert.Equal(t, tt.strength+" "+tt.direction+" correlation", c.Interpretation)
		})
	}
}

func TestCorrelation_Errors(t *testing.T) {
	_, err := Correlation([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Correlation([]float64{1, 2}, []float64{1})
	assert.Error(t, err)

	c, err := Correlation([]float64{1, 2, 3}, []float64{5, 5, 5})
	require.NoError(t, err)
	assert.False(t, c.Defined)
	assert.Zero(t, c.R)
}

func TestInterpret(t *testing.T) {
	s, d := Interpret(0.19)
	assert.Equal(t, "very weak", s)
	assert.Equal(t, "positive", d)
	s, d = Interpret(-0.2)
	assert.Equal(t, "weak", s)
	assert.Equal(t, "negative", d)
}

func TestCompareGroups(t *testing.T) {
	groups := CompareGroups(map[string][]float64{
		"ICML":    {10, 30},
		"NeurIPS": {100, 0, 50},
		"ACL":     {20},
		"empty":   nil,
	})
	require.Len(t, groups, 3)
	assert.Equal(t, GroupStats{Label: "NeurIPS", Count: 3, Mean: 50, Median: 50, Min: 0, Max: 100}, groups[0])
	assert.Equal(t, "ACL", groups[1].Label, "ties on mean break by label")
	assert.Equal(t, "ICML", groups[2].Label)
}

func TestTemporal(t *testing.T) {
	papers := []types.Paper{
		{ID: "1", Year: 2020, CitationCount: 5},
		{ID: "2", Year: 2022, CitationCount: 1},
		{ID: "3", Year: 2022},
		{ID: "4", Year: 2022},
		{ID: "5", Year: 2023},
		{ID: "6"},
	}
	st := Temporal(papers)

	assert.Equal(t, []YearCount{
		{Year: 2020, Count: 1, Citations: 5},
		{Year: 2022, Count: 3, Citations: 1},
		{Year: 2023, Count: 1},
	}, st.Years)
	assert.Equal(t, []Growth{
		{From: 2020, To: 2022, PrevCount: 1, CurrCount: 3, Rate: 200},
		{From: 2022, To: 2023, PrevCount: 3, CurrCount: 1, Rate: -66.7},
	}, st.Growth)
	assert.Equal(t, 1, st.Unknown)
	assert.Equal(t, 2020, st.FirstYear)
	assert.Equal(t, 2023, st.LastYear)

	empty := Temporal(nil)
	assert.Empty(t, empty.Years)
	assert.Empty(t, empty.Growth)
}

func TestFieldAccessors(t *testing.T) {
	papers := []types.Paper{
		{ID: "1", Title: "Attention", Year: 2017, CitationCount: 90, Authors: []string{"A", "B"}, Venue: "NeurIPS", Source: types.SourceArxiv},
		{ID: "2", Title: "Go", CitationCount: 3, Authors: []string{"B"}, Source: types.SourceOpenAlex},
	}

	years, err := NumericField(papers, FieldYear)
	require.NoError(t, err)
	assert.Equal(t, []float64{2017}, years, "unknown years are skipped")

	lengths, err := NumericField(papers, FieldTitleLength)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 2}, lengths)

	venues, err := CategoricalField(papers, FieldVenue)
	require.NoError(t, err)
	assert.Equal(t, []string{"NeurIPS", "Unknown"}, venues)

	authors, err := CategoricalField(papers, FieldAuthors)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "B"}, authors)

	xs, ys, err := Pairs(papers, FieldCitations, FieldYear)
	require.NoError(t, err)
	assert.Equal(t, []float64{90}, xs)
	assert.Equal(t, []float64{2017}, ys)

	groups, err := GroupValues(papers, FieldAuthors, FieldCitations)
	require.NoError(t, err)
	assert.Equal(t, map[string][]float64{"A": {90}, "B": {90, 3}}, groups)

	_, err = NumericField(papers, "venue")
	assert.Error(t, err)
	_, err = CategoricalField(papers, "citations")
	assert.Error(t, err)
	_, err = GroupValues(papers, "venue", "abstract")
	assert.Error(t, err)
}
