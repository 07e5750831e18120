// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// QueryFile is the on-disk representation of a search query and its
// collection, so a search can be reloaded without re-querying APIs.
type QueryFile struct {
	Query   QueryParams     `yaml:"query"`
	Config  QueryFileConfig `yaml:"config"`
	Papers  []types.Paper   `yaml:"papers"`
	Summary QuerySummary    `yaml:"summary"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	FreeText string   `yaml:"free_text,omitempty"`
	Author   string   `yaml:"author,omitempty"`
	Keywords []string `yaml:"keywords,omitempty"`
	DateFrom string   `yaml:"date_from,omitempty"`
	DateTo   string   `yaml:"date_to,omitempty"`
}

// QueryFileConfig stores the search configuration that produced the papers.
type QueryFileConfig struct {
	MaxResults   int      `yaml:"max_results"`
	TopPerSource int      `yaml:"top_per_source,omitempty"`
	Backends     []string `yaml:"backends,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total         int       `yaml:"total"`
	Raw           int       `yaml:"raw"`
	Filtered      int       `yaml:"filtered"`
	Duplicates    int       `yaml:"duplicates"`
	Dropped       int       `yaml:"dropped"`
	BackendErrors []string  `yaml:"backend_errors,omitempty"`
	Timestamp     time.Time `yaml:"timestamp"`
}

const dateFmt = "2006-01-02"

// NewQueryParams converts a Query into its serializable form.
func NewQueryParams(q Query) QueryParams {
	p := QueryParams{FreeText: q.FreeText, Author: q.Author, Keywords: q.Keywords}
	if !q.DateFrom.IsZero() {
		p.DateFrom = q.DateFrom.Format(dateFmt)
	}
	if !q.DateTo.IsZero() {
		p.DateTo = q.DateTo.Format(dateFmt)
	}
	return p
}

// WriteQueryFile saves query parameters and the collection to a YAML file.
func WriteQueryFile(path string, query Query, cfg types.SearchConfig, backends []string, out Output) error {
	qf := QueryFile{
		Query: NewQueryParams(query),
		Config: QueryFileConfig{
			MaxResults:   cfg.MaxResults,
			TopPerSource: cfg.TopPerSource,
			Backends:     backends,
		},
		Papers: out.Papers,
		Summary: QuerySummary{
			Total:         len(out.Papers),
			Raw:           len(out.Raw),
			Filtered:      out.Filtered,
			Duplicates:    out.Duplicates,
			Dropped:       out.Dropped,
			BackendErrors: out.BackendErrors,
			Timestamp:     time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToQuery converts stored QueryParams back into a Query struct.
func (p QueryParams) ToQuery() (Query, error) {
	q := Query{
		FreeText: p.FreeText,
		Author:   p.Author,
		Keywords: p.Keywords,
	}
	if p.DateFrom != "" {
		t, err := time.Parse(dateFmt, p.DateFrom)
		if err != nil {
			return q, fmt.Errorf("invalid date_from %q: %w", p.DateFrom, err)
		}
		q.DateFrom = t
	}
	if p.DateTo != "" {
		t, err := time.Parse(dateFmt, p.DateTo)
		if err != nil {
			return q, fmt.Errorf("invalid date_to %q: %w", p.DateTo, err)
		}
		q.DateTo = t
	}
	return q, nil
}
