// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-analyzer/internal/stats"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

const (
	analysisDistribution = "distribution"
	analysisFrequency    = "frequency"
	analysisCorrelation  = "correlation"
	analysisCompare      = "compare"
	analysisTemporal     = "temporal"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Descriptive statistics over a collection",
	Long: `Stats summarizes one field of a collection.

  distribution  numeric summary and histogram of --field
  frequency     most common values of --field
  correlation   Pearson r between --field and --against
  compare       --field summarized per value of --by
  temporal      papers and citations per year with growth rates

Numeric fields: citations, year, authors (count), title_length.
Categorical fields: venue, year, source, authors (one entry per author).
Output is YAML unless --json is given.`,
	RunE: runStats,
}

func init() {
	addCollectionFlags(statsCmd)
	f := statsCmd.Flags()
	f.String("analysis", analysisDistribution, "distribution, frequency, correlation, compare, or temporal")
	f.String("field", stats.FieldCitations, "field to summarize")
	f.String("against", stats.FieldYear, "second numeric field for correlation")
	f.String("by", stats.FieldVenue, "grouping field for compare")
	f.Int("bins", 0, "histogram bins (default 10)")
	f.Int("top", 0, "values listed by frequency (default 20)")
	f.Bool("json", false, "output as JSON")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	analysis, _ := cmd.Flags().GetString("analysis")
	field, _ := cmd.Flags().GetString("field")
	against, _ := cmd.Flags().GetString("against")
	by, _ := cmd.Flags().GetString("by")
	asJSON, _ := cmd.Flags().GetBool("json")

	col, err := loadCollection(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	if analysis == analysisFrequency && !cmd.Flags().Changed("field") {
		field = stats.FieldVenue
	}

	var other string
	switch analysis {
	case analysisCorrelation:
		other = against
	case analysisCompare:
		other = by
	}
	out, err := computeStats(col.Papers, analysis, field, other, cfg.Stats)
	if err != nil {
		return err
	}
	return writeEncoded(os.Stdout, out, asJSON)
}

// computeStats runs one analysis. other is the second field for
// correlation and the grouping field for compare; it is ignored otherwise.
func computeStats(papers []types.Paper, analysis, field, other string, c types.StatsConfig) (any, error) {
	switch strings.ToLower(analysis) {
	case analysisDistribution:
		values, err := stats.NumericField(papers, field)
		if err != nil {
			return nil, err
		}
		return stats.Distribution(values, c.HistogramBins), nil

	case analysisFrequency:
		values, err := stats.CategoricalField(papers, field)
		if err != nil {
			return nil, err
		}
		return stats.Frequency(values, c.TopN), nil

	case analysisCorrelation:
		xs, ys, err := stats.Pairs(papers, field, other)
		if err != nil {
			return nil, err
		}
		corr, err := stats.Correlation(xs, ys)
		if err != nil {
			return nil, fmt.Errorf("correlating %s with %s: %w", field, other, err)
		}
		return corr, nil

	case analysisCompare:
		groups, err := stats.GroupValues(papers, other, field)
		if err != nil {
			return nil, err
		}
		return stats.CompareGroups(groups), nil

	case analysisTemporal:
		return stats.Temporal(papers), nil

	default:
		return nil, fmt.Errorf("unknown analysis %q (want %s, %s, %s, %s, or %s)", analysis,
			analysisDistribution, analysisFrequency, analysisCorrelation, analysisCompare, analysisTemporal)
	}
}
