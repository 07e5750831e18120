// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData is returned when a statistic needs more points than given.
var ErrInsufficientData = errors.New("not enough data points")

// CorrelationStats is a Pearson coefficient with a plain-language reading.
type CorrelationStats struct {
	N int     `json:"n" yaml:"n"`
	R float64 `json:"r" yaml:"r"`

	// Defined is false when either sample has zero variance; R is then 0.
	Defined bool `json:"defined" yaml:"defined"`

	Strength       string `json:"strength" yaml:"strength"`
	Direction      string `json:"direction" yaml:"direction"`
	Interpretation string `json:"interpretation" yaml:"interpretation"`
}

// Correlation computes Pearson's r over paired samples.
func Correlation(xs, ys []float64) (CorrelationStats, error) {
	if len(xs) != len(ys) {
		return CorrelationStats{}, fmt.Errorf("correlation: %d x values but %d y values", len(xs), len(ys))
	}
	n := len(xs)
	if n < 2 {
		return CorrelationStats{}, fmt.Errorf("correlation needs at least 2 pairs, got %d: %w", n, ErrInsufficientData)
	}

	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var num, dx, dy float64
	for i := range xs {
		a, b := xs[i]-mx, ys[i]-my
		num += a * b
		dx += a * a
		dy += b * b
	}

	st := CorrelationStats{N: n}
	if dx == 0 || dy == 0 {
		st.Strength = "none"
		st.Direction = "none"
		st.Interpretation = "undefined (constant values)"
		return st, nil
	}

	st.Defined = true
	st.R = math.Max(-1, math.Min(1, num/math.Sqrt(dx*dy)))
	st.Strength, st.Direction = Interpret(st.R)
	st.Interpretation = fmt.Sprintf("%s %s correlation", st.Strength, st.Direction)
	return st, nil
}

// Interpret classifies |r| as strong (>= 0.7), moderate (>= 0.4), weak
// (>= 0.2), or very weak, and r's sign as positive or negative.
func Interpret(r float64) (strength, direction string) {
	switch a := math.Abs(r); {
	case a >= 0.7:
		strength = "strong"
	case a >= 0.4:
		strength = "moderate"
	case a >= 0.2:
		strength = "weak"
	default:
		strength = "very weak"
	}
	switch {
	case r > 0:
		direction = "positive"
	case r < 0:
		direction = "negative"
	default:
		direction = "none"
	}
	return strength, direction
}
