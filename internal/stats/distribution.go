// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats computes descriptive statistics over a paper collection:
// numeric distributions, categorical frequencies, Pearson correlation,
// per-group comparisons, and publication counts over time. Every function
// is pure and reads its input without modifying it.
package stats

import (
	"math"
	"sort"
)

// DefaultBins is the histogram bin count used when none is given.
const DefaultBins = 10

// Bin is one histogram bucket covering [Lower, Upper). The last bucket also
// includes its upper bound.
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// DistributionStats summarizes a numeric sample.
type DistributionStats struct {
	Count  int     `json:"count" yaml:"count"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`

	// StdDev is the sample standard deviation (n-1 denominator); 0 for n < 2.
	StdDev float64 `json:"std_dev" yaml:"std_dev"`

	Q1  float64 `json:"q1" yaml:"q1"`
	Q3  float64 `json:"q3" yaml:"q3"`
	IQR float64 `json:"iqr" yaml:"iqr"`

	Histogram []Bin `json:"histogram" yaml:"histogram"`

	// Outliers lie more than 1.5 IQR outside the quartiles, in ascending order.
	Outliers []float64 `json:"outliers" yaml:"outliers"`
}

// Distribution summarizes values. The median of an even-sized sample is the
// mean of the middle pair; quartiles interpolate linearly between ranks.
// An empty sample returns the zero value.
func Distribution(values []float64, bins int) DistributionStats {
	n := len(values)
	if n == 0 {
		return DistributionStats{Histogram: []Bin{}, Outliers: []float64{}}
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	total := 0.0
	for _, v := range sorted {
		total += v
	}
	mean := total / float64(n)

	st := DistributionStats{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   mean,
		Median: Quantile(sorted, 0.5),
		Q1:     Quantile(sorted, 0.25),
		Q3:     Quantile(sorted, 0.75),
	}
	st.IQR = st.Q3 - st.Q1

	if n > 1 {
		ss := 0.0
		for _, v := range sorted {
			ss += (v - mean) * (v - mean)
		}
		st.StdDev = math.Sqrt(ss / float64(n-1))
	}

	st.Histogram = histogram(sorted, bins)

	lo, hi := st.Q1-1.5*st.IQR, st.Q3+1.5*st.IQR
	st.Outliers = []float64{}
	for _, v := range sorted {
		if v < lo || v > hi {
			st.Outliers = append(st.Outliers, v)
		}
	}
	return st
}

// Quantile returns the q-quantile of an ascending sample by linear
// interpolation between the closest ranks. q is clamped to [0, 1].
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	q = math.Max(0, math.Min(1, q))
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func histogram(sorted []float64, bins int) []Bin {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		return []Bin{{Lower: lo, Upper: hi, Count: len(sorted)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range sorted {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}
