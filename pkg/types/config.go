// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-analyzer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is the number of results requested from each backend (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// TopPerSource keeps only the N most cited papers from each source
	// before deduplication. Zero keeps everything.
	TopPerSource int `json:"top_per_source" yaml:"top_per_source" mapstructure:"top_per_source"`

	EnableArxiv           bool `json:"enable_arxiv" yaml:"enable_arxiv" mapstructure:"enable_arxiv"`
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar" mapstructure:"enable_semantic_scholar"`
	EnableOpenAlex        bool `json:"enable_openalex" yaml:"enable_openalex" mapstructure:"enable_openalex"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// OpenAlexEmail is sent as mailto for the OpenAlex polite pool.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`

	// InterBackendDelay is the delay between API calls to different backends (default 1s).
	InterBackendDelay time.Duration `json:"inter_backend_delay" yaml:"inter_backend_delay" mapstructure:"inter_backend_delay"`
}

// DedupConfig holds the matching thresholds and tie-break order used by dedup.
type DedupConfig struct {
	// SourcePriority orders sources from most to least preferred when two
	// records describe the same paper. Unlisted sources rank last.
	SourcePriority []string `json:"source_priority" yaml:"source_priority" mapstructure:"source_priority"`

	// FuzzyTitleThreshold is the minimum token-set ratio for the title+year rule (default 0.9).
	FuzzyTitleThreshold float64 `json:"fuzzy_title_threshold" yaml:"fuzzy_title_threshold" mapstructure:"fuzzy_title_threshold"`

	// AuthorTitleThreshold is the weaker title ratio the author+year rule requires (default 0.6).
	AuthorTitleThreshold float64 `json:"author_title_threshold" yaml:"author_title_threshold" mapstructure:"author_title_threshold"`

	// AuthorOverlap is the fraction of the shorter surname set that must
	// overlap for the author+year rule (default 0.5).
	AuthorOverlap float64 `json:"author_overlap" yaml:"author_overlap" mapstructure:"author_overlap"`

	// Rules names the matching rules to apply, in order. Empty selects all.
	Rules []string `json:"rules,omitempty" yaml:"rules,omitempty" mapstructure:"rules"`
}

// DefaultDedupConfig returns the thresholds documented for the deduplicator.
func DefaultDedupConfig() DedupConfig {
	return DedupConfig{
		SourcePriority:       []string{SourceSemanticScholar, SourceArxiv, SourceOpenAlex},
		FuzzyTitleThreshold:  0.9,
		AuthorTitleThreshold: 0.6,
		AuthorOverlap:        0.5,
	}
}

// GraphConfig holds settings for the graph analyzer.
type GraphConfig struct {
	// Damping is the PageRank damping factor (default 0.85).
	Damping float64 `json:"damping" yaml:"damping" mapstructure:"damping"`

	// Tolerance stops PageRank once the L1 change between iterations drops below it.
	Tolerance float64 `json:"tolerance" yaml:"tolerance" mapstructure:"tolerance"`

	// MaxIterations caps PageRank iterations (default 100).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations" mapstructure:"max_iterations"`

	// NormalizeBetweenness divides betweenness by (n-1)(n-2).
	NormalizeBetweenness bool `json:"normalize_betweenness" yaml:"normalize_betweenness" mapstructure:"normalize_betweenness"`

	GroupBy  GroupBy  `json:"group_by" yaml:"group_by" mapstructure:"group_by"`
	EdgeMode EdgeMode `json:"edge_mode" yaml:"edge_mode" mapstructure:"edge_mode"`

	// MinGroupSize drops attribute groups smaller than this (default 1).
	MinGroupSize int `json:"min_group_size" yaml:"min_group_size" mapstructure:"min_group_size"`

	// LabelPropagationIterations caps label propagation sweeps (default 50).
	LabelPropagationIterations int `json:"label_propagation_iterations" yaml:"label_propagation_iterations" mapstructure:"label_propagation_iterations"`
}

// DefaultGraphConfig returns the analyzer defaults.
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		Damping:                    0.85,
		Tolerance:                  1e-6,
		MaxIterations:              100,
		NormalizeBetweenness:       true,
		GroupBy:                    GroupByVenue,
		EdgeMode:                   EdgeAuto,
		MinGroupSize:               1,
		LabelPropagationIterations: 50,
	}
}

// StatsConfig holds settings for statistical summaries.
type StatsConfig struct {
	TopN          int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`
	HistogramBins int `json:"histogram_bins" yaml:"histogram_bins" mapstructure:"histogram_bins"`
}

// SessionConfig locates the session and experiment artifacts.
type SessionConfig struct {
	// ArtifactsDir holds one directory per session, experiments/, and index.db.
	ArtifactsDir string `json:"artifacts_dir" yaml:"artifacts_dir" mapstructure:"artifacts_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Dedup   DedupConfig   `json:"dedup" yaml:"dedup" mapstructure:"dedup"`
	Graph   GraphConfig   `json:"graph" yaml:"graph" mapstructure:"graph"`
	Stats   StatsConfig   `json:"stats" yaml:"stats" mapstructure:"stats"`
	Session SessionConfig `json:"session" yaml:"session" mapstructure:"session"`
}
