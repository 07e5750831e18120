// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-analyzer CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-analyzer/internal/httputil"
	"github.com/pdiddy/research-analyzer/internal/secrets"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is the merged configuration (defaults, config file, environment,
// flags), decoded once before any command runs.
var cfg types.PipelineConfig

var rootCmd = &cobra.Command{
	Use:   "research-analyzer",
	Short: "Search, deduplicate, and analyze academic paper collections",
	Long: `research-analyzer gathers papers from arXiv, Semantic Scholar, and
OpenAlex, merges duplicate records across sources, and ranks the resulting
collection with citation-graph centrality and descriptive statistics.

Collections live in sessions under the artifacts directory. A session is
frozen once its deduplicated papers are written and can later be extended
into a child session. Each analysis run is stored as an experiment with
results.json, results.yaml, and report.md.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		httputil.Progress = os.Stderr

		s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}

		if err := bindFlags(viper.GetViper(), cmd.Flags()); err != nil {
			return err
		}
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		s.Apply(&c.Search)
		cfg = c
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-analyzer.yaml or ~/.config/research-analyzer/research-analyzer.yaml)")
	rootCmd.PersistentFlags().String("artifacts", "", "artifacts directory holding sessions and experiments (default: artifacts)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if used := configureViper(viper.GetViper(), cfgFile); used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

// configureViper registers defaults, the config file search path, and the
// environment prefix on v, then reads the config file if one exists. It
// returns the path of the file read, if any.
func configureViper(v *viper.Viper, cfgFile string) string {
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("research-analyzer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "research-analyzer"))
		}
	}

	v.SetEnvPrefix("RESEARCH_ANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
		return ""
	}
	return v.ConfigFileUsed()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
