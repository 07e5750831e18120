// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-analyzer/internal/search"
	"github.com/pdiddy/research-analyzer/internal/session"
	"github.com/pdiddy/research-analyzer/internal/stats"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultDelay      = 1 * time.Second
	defaultUserAgent  = "research-analyzer/0.1"
	defaultMaxResults = 20
	defaultTopN       = 20
	defaultArtifacts  = "artifacts"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("search.timeout", defaultTimeout)
	v.SetDefault("search.user_agent", defaultUserAgent)
	v.SetDefault("search.max_results", defaultMaxResults)
	v.SetDefault("search.top_per_source", 0)
	v.SetDefault("search.enable_arxiv", true)
	v.SetDefault("search.enable_semantic_scholar", true)
	v.SetDefault("search.enable_openalex", true)
	v.SetDefault("search.semantic_scholar_api_key", "")
	v.SetDefault("search.openalex_email", "")
	v.SetDefault("search.inter_backend_delay", defaultDelay)

	d := types.DefaultDedupConfig()
	v.SetDefault("dedup.source_priority", d.SourcePriority)
	v.SetDefault("dedup.fuzzy_title_threshold", d.FuzzyTitleThreshold)
	v.SetDefault("dedup.author_title_threshold", d.AuthorTitleThreshold)
	v.SetDefault("dedup.author_overlap", d.AuthorOverlap)
	v.SetDefault("dedup.rules", []string{})

	g := types.DefaultGraphConfig()
	v.SetDefault("graph.damping", g.Damping)
	v.SetDefault("graph.tolerance", g.Tolerance)
	v.SetDefault("graph.max_iterations", g.MaxIterations)
	v.SetDefault("graph.normalize_betweenness", g.NormalizeBetweenness)
	v.SetDefault("graph.group_by", string(g.GroupBy))
	v.SetDefault("graph.edge_mode", string(g.EdgeMode))
	v.SetDefault("graph.min_group_size", g.MinGroupSize)
	v.SetDefault("graph.label_propagation_iterations", g.LabelPropagationIterations)

	v.SetDefault("stats.top_n", defaultTopN)
	v.SetDefault("stats.histogram_bins", stats.DefaultBins)

	v.SetDefault("session.artifacts_dir", defaultArtifacts)
}

// flagKeys maps flag names to configuration keys. Only the running
// command's flags are bound, so commands may share a key.
var flagKeys = map[string]string{
	"artifacts":       "session.artifacts_dir",
	"max-results":     "search.max_results",
	"top-per-source":  "search.top_per_source",
	"rules":           "dedup.rules",
	"source-priority": "dedup.source_priority",
	"fuzzy-threshold": "dedup.fuzzy_title_threshold",
	"damping":         "graph.damping",
	"tolerance":       "graph.tolerance",
	"max-iterations":  "graph.max_iterations",
	"group-by":        "graph.group_by",
	"edge-mode":       "graph.edge_mode",
	"min-group-size":  "graph.min_group_size",
	"top":             "stats.top_n",
	"bins":            "stats.histogram_bins",
}

// bindFlags binds the flags in flags that have a configuration key, so a
// flag set on the command line overrides file and environment values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("binding --%s: %w", f.Name, bindErr)
		}
	})
	return err
}

// loadConfig decodes the whole configuration tree held by v.
func loadConfig(v *viper.Viper) (types.PipelineConfig, error) {
	var c types.PipelineConfig
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding configuration: %w", err)
	}
	return c, nil
}

// allBackends lists backend names in the order results are reported.
var allBackends = []string{types.SourceArxiv, types.SourceSemanticScholar, types.SourceOpenAlex}

// buildBackends constructs the named backends, or every enabled backend
// when names is empty.
func buildBackends(c types.SearchConfig, names []string) ([]search.Backend, error) {
	if len(names) == 0 {
		if c.EnableArxiv {
			names = append(names, types.SourceArxiv)
		}
		if c.EnableSemanticScholar {
			names = append(names, types.SourceSemanticScholar)
		}
		if c.EnableOpenAlex {
			names = append(names, types.SourceOpenAlex)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no search backends enabled")
	}

	client := &http.Client{Timeout: c.Timeout}
	var backends []search.Backend
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case types.SourceArxiv:
			backends = append(backends, &search.ArxivBackend{Client: client})
		case types.SourceSemanticScholar, "s2", "semantic-scholar":
			backends = append(backends, &search.SemanticScholarBackend{Client: client, APIKey: c.SemanticScholarAPIKey})
		case types.SourceOpenAlex:
			backends = append(backends, &search.OpenAlexBackend{Client: client, Email: c.OpenAlexEmail})
		default:
			return nil, fmt.Errorf("unknown backend %q (want one of %s)", name, strings.Join(allBackends, ", "))
		}
	}
	return backends, nil
}

// buildExpanders returns the citation sources, Semantic Scholar first.
func buildExpanders(c types.SearchConfig) []search.Expander {
	client := &http.Client{Timeout: c.Timeout}
	return []search.Expander{
		&search.SemanticScholarBackend{Client: client, APIKey: c.SemanticScholarAPIKey},
		&search.OpenAlexBackend{Client: client, Email: c.OpenAlexEmail},
	}
}

func openStore() (*session.Store, error) {
	return session.Open(cfg.Session)
}

// readPapers loads a paper list from a JSON file in either accepted layout.
func readPapers(path string) ([]types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	papers, err := types.DecodePapers(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return papers, nil
}
