// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-analyzer/internal/graph"
	"github.com/pdiddy/research-analyzer/internal/report"
	"github.com/pdiddy/research-analyzer/internal/session"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank a collection by citation-graph centrality",
	Long: `Analyze builds a citation graph over a collection and computes
PageRank, betweenness, and degree centrality for every paper, then groups
papers by venue, year, first author, or label propagation.

When no paper references another paper in the collection, scores are
derived from citation counts instead and the results are marked
approximate.

With --session the run is recorded as an experiment under
artifacts/experiments/<id>/. With --input, --output-dir chooses where
results.json, results.yaml, and report.md go.`,
	RunE: runAnalyze,
}

func init() {
	addCollectionFlags(analyzeCmd)
	f := analyzeCmd.Flags()
	f.Float64("damping", 0, "PageRank damping factor (default 0.85)")
	f.Float64("tolerance", 0, "PageRank L1 convergence tolerance (default 1e-6)")
	f.Int("max-iterations", 0, "PageRank iteration cap (default 100)")
	f.String("group-by", "", "venue, year, author, or label-propagation (default venue)")
	f.String("edge-mode", "", "auto, explicit, or synthetic (default auto)")
	f.Int("min-group-size", 0, "drop groups smaller than this")
	f.Int("top", 0, "papers shown in the ranking (default 20)")
	f.String("notes", "", "notes stored with the experiment")
	f.String("output-dir", "", "directory for results when reading --input")
	f.String("csl", "", "also write a CSL-YAML bibliography of the collection")
	f.Bool("json", false, "print the analysis result as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	notes, _ := cmd.Flags().GetString("notes")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	cslPath, _ := cmd.Flags().GetString("csl")
	asJSON, _ := cmd.Flags().GetBool("json")

	col, err := loadCollection(ctx, cmd)
	if err != nil {
		return err
	}

	var res types.AnalysisResult
	if col.SessionID != "" {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var exp types.Experiment
		exp, res, err = analyzeSession(ctx, store, col, cfg, notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "experiment %s written to %s\n", exp.ID, store.ExperimentDir(exp.ID))
	} else {
		res, err = graph.Analyze(col.Papers, cfg.Graph)
		if err != nil {
			return err
		}
		if outputDir != "" {
			rep := report.Build(col.Title, col.Papers, res, cfg.Stats)
			if err := writeAnalysis(outputDir, res, rep); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "results written to %s\n", outputDir)
		}
	}

	if cslPath != "" {
		if err := writeCSL(cslPath, col.Papers); err != nil {
			return err
		}
	}

	if asJSON {
		return report.WriteJSON(os.Stdout, res)
	}
	report.FormatRanking(os.Stdout, res, col.Papers, cfg.Stats.TopN)
	report.FormatGroups(os.Stdout, res)
	return nil
}

// analyzeSession runs the analyzer over a session's collection and records
// the run as an experiment.
func analyzeSession(ctx context.Context, repo session.Repository, col collection, c types.PipelineConfig, notes string) (types.Experiment, types.AnalysisResult, error) {
	res, err := graph.Analyze(col.Papers, c.Graph)
	if err != nil {
		return types.Experiment{}, types.AnalysisResult{}, err
	}

	exp, err := repo.CreateExperiment(ctx, col.SessionID, algorithms(res), notes)
	if err != nil {
		return types.Experiment{}, types.AnalysisResult{}, err
	}
	rep := report.Build(col.Title, col.Papers, res, c.Stats)
	if err := repo.SaveAnalysis(ctx, exp.ID, res, rep); err != nil {
		return types.Experiment{}, types.AnalysisResult{}, err
	}
	return exp, res, nil
}

// algorithms names what an analysis computed, for the experiment record.
func algorithms(res types.AnalysisResult) []string {
	return []string{
		"pagerank",
		"betweenness",
		"degree",
		"edges:" + string(res.Graph.Mode),
		"group-by:" + string(res.GroupBy),
	}
}

func writeAnalysis(dir string, res types.AnalysisResult, rep report.Report) error {
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"results.json", func(w io.Writer) error { return report.WriteJSON(w, res) }},
		{"results.yaml", func(w io.Writer) error { return report.WriteYAML(w, res) }},
		{"report.md", func(w io.Writer) error { return report.Markdown(w, rep) }},
	}
	for _, f := range files {
		if err := report.WriteFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}
	return nil
}
