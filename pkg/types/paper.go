// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-analyzer
// pipeline: paper records and collections produced by search, the session
// and experiment bookkeeping records, analysis results, and stage
// configuration.
package types

import (
	"errors"
	"strings"
)

// Source tags identify which academic API produced a Paper.
const (
	SourceArxiv           = "arxiv"
	SourceSemanticScholar = "semantic_scholar"
	SourceOpenAlex        = "openalex"
)

// ErrInvalidInput reports a structurally invalid input document, e.g. a
// JSON file that is neither a list of papers nor a map of source to papers.
var ErrInvalidInput = errors.New("invalid input document")

// Paper is a single paper record gathered from one source. Records from
// different sources describing the same work are collapsed by dedup.
type Paper struct {
	// ID is the source-qualified identifier (e.g. "arxiv:2301.00001").
	ID string `json:"id" yaml:"id"`

	// DOI is the bare DOI without resolver prefix, if known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Title is the paper title. Records without one are dropped by dedup.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year; 0 means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Venue    string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// CitationCount is the number of citing works reported by the source.
	CitationCount int `json:"citations" yaml:"citations"`

	// Source is the tag of the API that produced the record.
	Source string `json:"source" yaml:"source"`

	// URL is the canonical landing page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// References lists identifiers (IDs or DOIs) of papers this one cites.
	// OpenAlex works and citation expansion fill it; it is the only source
	// of explicit citation edges.
	References []string `json:"references,omitempty" yaml:"references,omitempty"`

	// Aliases lists other identifiers of the same work: cross-source IDs a
	// backend reports and IDs of records dedup merged into this one.
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// HasTitle reports whether the record carries a usable title.
func (p Paper) HasTitle() bool {
	return strings.TrimSpace(p.Title) != ""
}

// FilledFields counts non-empty metadata fields. Dedup uses it to prefer
// the more informative record when sources tie.
func (p Paper) FilledFields() int {
	n := 0
	for _, s := range []string{p.ID, p.DOI, p.Title, p.Abstract, p.Venue, p.URL, p.Source} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	if len(p.Authors) > 0 {
		n++
	}
	if p.Year > 0 {
		n++
	}
	if p.CitationCount > 0 {
		n++
	}
	if len(p.References) > 0 {
		n++
	}
	return n
}

// FirstAuthor returns the first listed author, or "" when none is known.
func (p Paper) FirstAuthor() string {
	if len(p.Authors) == 0 {
		return ""
	}
	return strings.TrimSpace(p.Authors[0])
}
