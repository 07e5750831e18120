// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// SessionStatus tracks a session through its lifecycle.
type SessionStatus string

const (
	SessionCreated   SessionStatus = "created"
	SessionFrozen    SessionStatus = "frozen"
	SessionExtended  SessionStatus = "extended"
	SessionCompleted SessionStatus = "completed"
)

// HasCollection reports whether a session in this status owns a frozen
// deduplicated collection.
func (s SessionStatus) HasCollection() bool {
	return s == SessionFrozen || s == SessionExtended || s == SessionCompleted
}

// SearchType distinguishes quick searches from comprehensive ones.
type SearchType string

const (
	SearchQuick         SearchType = "quick"
	SearchComprehensive SearchType = "comprehensive"
)

// SearchParameters records how a session's papers were gathered.
type SearchParameters struct {
	Query        string   `json:"query" yaml:"query"`
	Categories   []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	YearFrom     int      `json:"year_from,omitempty" yaml:"year_from,omitempty"`
	YearTo       int      `json:"year_to,omitempty" yaml:"year_to,omitempty"`
	MinCitations int      `json:"min_citations,omitempty" yaml:"min_citations,omitempty"`
	Sources      []string `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// ResultsSummary is filled once a session's collection is frozen.
type ResultsSummary struct {
	TotalPapers   int            `json:"total_papers" yaml:"total_papers"`
	YearFrom      int            `json:"year_from,omitempty" yaml:"year_from,omitempty"`
	YearTo        int            `json:"year_to,omitempty" yaml:"year_to,omitempty"`
	TopVenues     map[string]int `json:"top_venues,omitempty" yaml:"top_venues,omitempty"`
	Duplicates    int            `json:"duplicates" yaml:"duplicates"`
	Dropped       int            `json:"dropped" yaml:"dropped"`
	CitationTotal int            `json:"citation_total" yaml:"citation_total"`
}

// SessionMetadata describes one search session. A session owns exactly one
// Collection; extending a session creates a child session rather than
// editing the parent's papers.
type SessionMetadata struct {
	ID            string           `json:"session_id" yaml:"session_id"`
	Created       time.Time        `json:"timestamp" yaml:"timestamp"`
	Topic         string           `json:"topic" yaml:"topic"`
	SearchType    SearchType       `json:"search_type" yaml:"search_type"`
	Parameters    SearchParameters `json:"search_parameters" yaml:"search_parameters"`
	Summary       ResultsSummary   `json:"results_summary" yaml:"results_summary"`
	ParentSession string           `json:"parent_session,omitempty" yaml:"parent_session,omitempty"`
	ChildSessions []string         `json:"child_sessions" yaml:"child_sessions"`
	Status        SessionStatus    `json:"status" yaml:"status"`
}

// Experiment records one analysis run over a session's collection.
type Experiment struct {
	ID         string    `json:"experiment_id" yaml:"experiment_id"`
	SessionID  string    `json:"session_id" yaml:"session_id"`
	Created    time.Time `json:"timestamp" yaml:"timestamp"`
	Algorithms []string  `json:"algorithms" yaml:"algorithms"`
	Notes      string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// DecodePapers parses an input document into a flat list of papers. Two
// layouts are accepted: a JSON array of paper objects, or an object mapping
// source names to arrays (the multi-search output layout). In the second
// form sources are visited in sorted order and each paper without a Source
// inherits its key. Anything else wraps ErrInvalidInput.
func DecodePapers(data []byte) ([]Paper, error) {
	var list []Paper
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var bySource map[string][]Paper
	if err := json.Unmarshal(data, &bySource); err != nil {
		return nil, fmt.Errorf("%w: expected a list of papers or a map of source to papers", ErrInvalidInput)
	}

	keys := make([]string, 0, len(bySource))
	for k := range bySource {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, p := range bySource[k] {
			if p.Source == "" {
				p.Source = k
			}
			list = append(list, p)
		}
	}
	return list, nil
}
