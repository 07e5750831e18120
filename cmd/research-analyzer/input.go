// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-analyzer/internal/report"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

// addCollectionFlags registers the --session/--input pair used by commands
// that read a collection.
func addCollectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("session", "", "read the frozen collection of this session")
	cmd.Flags().String("input", "", "read papers from a JSON file (list or {source: [...]})")
	cmd.MarkFlagsMutuallyExclusive("session", "input")
	cmd.MarkFlagsOneRequired("session", "input")
}

// collection is a loaded paper list and where it came from.
type collection struct {
	Papers    []types.Paper
	Title     string
	SessionID string
}

func loadCollection(ctx context.Context, cmd *cobra.Command) (collection, error) {
	sessionID, _ := cmd.Flags().GetString("session")
	input, _ := cmd.Flags().GetString("input")

	if sessionID != "" {
		store, err := openStore()
		if err != nil {
			return collection{}, err
		}
		defer store.Close()

		meta, err := store.GetSession(ctx, sessionID)
		if err != nil {
			return collection{}, err
		}
		papers, err := store.LoadPapers(ctx, sessionID)
		if err != nil {
			return collection{}, err
		}
		return collection{Papers: papers, Title: meta.Topic, SessionID: sessionID}, nil
	}

	papers, err := readPapers(input)
	if err != nil {
		return collection{}, err
	}
	title := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return collection{Papers: papers, Title: title}, nil
}

// writeOutput writes JSON to path, or to stdout when path is empty or "-".
func writeOutput(path string, v any) error {
	if path == "" || path == "-" {
		return report.WriteJSON(os.Stdout, v)
	}
	return report.WriteFile(path, func(w io.Writer) error {
		return report.WriteJSON(w, v)
	})
}

// writeEncoded writes v to stdout as JSON or YAML.
func writeEncoded(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		return report.WriteJSON(w, v)
	}
	return report.WriteYAML(w, v)
}

func requireFlag(cmd *cobra.Command, name string) (string, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	return v, nil
}

// writeCSL writes a CSL-YAML bibliography of papers to path.
func writeCSL(path string, papers []types.Paper) error {
	return report.WriteFile(path, func(w io.Writer) error {
		return report.FormatCSL(w, papers)
	})
}
