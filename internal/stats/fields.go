// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// Numeric field names accepted by NumericField.
const (
	FieldCitations   = "citations"
	FieldYear        = "year"
	FieldAuthors     = "authors"
	FieldTitleLength = "title_length"
)

// Categorical field names accepted by CategoricalField.
const (
	FieldVenue  = "venue"
	FieldSource = "source"
)

// NumericFields lists the fields NumericField understands.
var NumericFields = []string{FieldCitations, FieldYear, FieldAuthors, FieldTitleLength}

// CategoricalFields lists the fields CategoricalField understands.
var CategoricalFields = []string{FieldVenue, FieldYear, FieldSource, FieldAuthors}

// numericValue returns the value of field for p. ok is false when the paper
// has no value for it, as with an unknown year.
func numericValue(p types.Paper, field string) (v float64, ok bool, err error) {
	switch field {
	case FieldCitations:
		return float64(p.CitationCount), true, nil
	case FieldYear:
		return float64(p.Year), p.Year > 0, nil
	case FieldAuthors:
		return float64(len(p.Authors)), true, nil
	case FieldTitleLength:
		return float64(utf8.RuneCountInString(strings.TrimSpace(p.Title))), true, nil
	}
	return 0, false, fmt.Errorf("unknown numeric field %q (want one of %s)", field, strings.Join(NumericFields, ", "))
}

// categoryValues returns the labels of field for p. Authors yield one label
// per author; a missing venue or year yields "Unknown".
func categoryValues(p types.Paper, field string) ([]string, error) {
	switch field {
	case FieldVenue:
		if v := strings.TrimSpace(p.Venue); v != "" {
			return []string{v}, nil
		}
		return []string{"Unknown"}, nil
	case FieldYear:
		if p.Year > 0 {
			return []string{strconv.Itoa(p.Year)}, nil
		}
		return []string{"Unknown"}, nil
	case FieldSource:
		return []string{p.Source}, nil
	case FieldAuthors:
		out := make([]string, 0, len(p.Authors))
		for _, a := range p.Authors {
			if a = strings.TrimSpace(a); a != "" {
				out = append(out, a)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown categorical field %q (want one of %s)", field, strings.Join(CategoricalFields, ", "))
}

// NumericField extracts field from every paper that has a value for it.
func NumericField(papers []types.Paper, field string) ([]float64, error) {
	if _, _, err := numericValue(types.Paper{}, field); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(papers))
	for _, p := range papers {
		if v, ok, _ := numericValue(p, field); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// CategoricalField extracts the labels of field from every paper.
func CategoricalField(papers []types.Paper, field string) ([]string, error) {
	if _, err := categoryValues(types.Paper{}, field); err != nil {
		return nil, err
	}
	var out []string
	for _, p := range papers {
		vals, _ := categoryValues(p, field)
		out = append(out, vals...)
	}
	return out, nil
}

// Pairs extracts (x, y) from every paper that has values for both fields.
func Pairs(papers []types.Paper, xField, yField string) (xs, ys []float64, err error) {
	for _, f := range []string{xField, yField} {
		if _, _, err := numericValue(types.Paper{}, f); err != nil {
			return nil, nil, err
		}
	}
	for _, p := range papers {
		x, okx, _ := numericValue(p, xField)
		y, oky, _ := numericValue(p, yField)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys, nil
}

// GroupValues collects metric values per label of groupField. A paper with
// several labels (authors) contributes to each of them.
func GroupValues(papers []types.Paper, groupField, metricField string) (map[string][]float64, error) {
	if _, err := categoryValues(types.Paper{}, groupField); err != nil {
		return nil, err
	}
	if _, _, err := numericValue(types.Paper{}, metricField); err != nil {
		return nil, err
	}
	groups := make(map[string][]float64)
	for _, p := range papers {
		v, ok, _ := numericValue(p, metricField)
		if !ok {
			continue
		}
		labels, _ := categoryValues(p, groupField)
		for _, l := range labels {
			groups[l] = append(groups[l], v)
		}
	}
	return groups, nil
}
