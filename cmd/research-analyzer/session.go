// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-analyzer/internal/session"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create, extend, and inspect search sessions",
	Long: `Session manages the search sessions stored under the artifacts
directory. A new session holds only metadata until its papers are frozen,
either by "search --session" or by "session freeze". A frozen collection
never changes; "session extend" merges more papers into a child session
and records the lineage on both sides.`,
}

// --- create subcommand ---

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty session",
	RunE:  runSessionCreate,
}

func runSessionCreate(cmd *cobra.Command, args []string) error {
	topic, err := requireFlag(cmd, "topic")
	if err != nil {
		return err
	}
	id, _ := cmd.Flags().GetString("id")
	kind, _ := cmd.Flags().GetString("search-type")
	query, _ := cmd.Flags().GetString("query")
	categories, _ := cmd.Flags().GetStringSlice("categories")
	sources, _ := cmd.Flags().GetStringSlice("sources")
	yearFrom, _ := cmd.Flags().GetInt("year-from")
	yearTo, _ := cmd.Flags().GetInt("year-to")
	minCitations, _ := cmd.Flags().GetInt("min-citations")

	searchType := types.SearchType(kind)
	if searchType != types.SearchQuick && searchType != types.SearchComprehensive {
		return fmt.Errorf("invalid --search-type %q: want quick or comprehensive", kind)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	meta, err := store.CreateSession(cmd.Context(), session.NewSession{
		ID:         id,
		Topic:      topic,
		SearchType: searchType,
		Parameters: types.SearchParameters{
			Query:        query,
			Categories:   categories,
			YearFrom:     yearFrom,
			YearTo:       yearTo,
			MinCitations: minCitations,
			Sources:      sources,
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "created session %s\n", meta.ID)
	return nil
}

// --- freeze subcommand ---

var sessionFreezeCmd = &cobra.Command{
	Use:   "freeze <session-id>",
	Short: "Deduplicate papers from a file and freeze them into a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionFreeze,
}

func runSessionFreeze(cmd *cobra.Command, args []string) error {
	input, err := requireFlag(cmd, "input")
	if err != nil {
		return err
	}
	raw, err := readPapers(input)
	if err != nil {
		return err
	}
	res, err := deduplicate(raw, cfg.Dedup, os.Stderr, false)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	meta, err := store.Freeze(cmd.Context(), args[0], session.Collection{
		Raw:        raw,
		Papers:     res.Papers,
		Duplicates: res.Duplicates,
		Dropped:    res.Dropped,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "froze session %s (%d papers)\n", meta.ID, meta.Summary.TotalPapers)
	return nil
}

// --- extend subcommand ---

var sessionExtendCmd = &cobra.Command{
	Use:   "extend <parent-session-id>",
	Short: "Merge new papers into a child of a frozen session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionExtend,
}

func runSessionExtend(cmd *cobra.Command, args []string) error {
	var papers []types.Paper
	if input, _ := cmd.Flags().GetString("new-papers"); input != "" {
		var err error
		if papers, err = readPapers(input); err != nil {
			return err
		}
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	child, res, err := store.Extend(cmd.Context(), args[0], papers, cfg.Dedup)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "dedup: %d unique, %d duplicates, %d dropped\n",
		len(res.Papers), res.Duplicates, res.Dropped)
	fmt.Fprintf(os.Stdout, "extended %s into %s (%d papers)\n", args[0], child.ID, child.Summary.TotalPapers)
	return nil
}

// --- update subcommand ---

var sessionUpdateCmd = &cobra.Command{
	Use:   "update <session-id>",
	Short: "Recompute a session's results summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		meta, err := store.UpdateSummary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "updated session %s: %d papers, status %s\n",
			meta.ID, meta.Summary.TotalPapers, meta.Status)
		return nil
	},
}

// --- list subcommand ---

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	RunE:  runSessionList,
}

func runSessionList(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	topic, _ := cmd.Flags().GetString("topic")
	parent, _ := cmd.Flags().GetString("parent")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.ListSessions(cmd.Context(), session.ListFilter{
		Status: types.SessionStatus(status),
		Topic:  topic,
		Parent: parent,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	if asJSON {
		return writeEncoded(os.Stdout, entries, true)
	}
	formatSessions(os.Stdout, entries)
	return nil
}

func formatSessions(w io.Writer, entries []session.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return
	}
	fmt.Fprintf(w, "%-48s  %-10s  %-13s  %6s  %-16s  %s\n", "Session", "Status", "Type", "Papers", "Created", "Topic")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 120))
	for _, e := range entries {
		fmt.Fprintf(w, "%-48s  %-10s  %-13s  %6d  %-16s  %s\n",
			e.ID, e.Status, e.SearchType, e.TotalPapers,
			e.Created.Local().Format("2006-01-02 15:04"), e.Topic)
	}
	fmt.Fprintf(w, "\n%d sessions\n", len(entries))
}

// --- show subcommand ---

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's metadata and experiments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		meta, err := store.GetSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		exps, err := store.ListExperiments(cmd.Context(), meta.ID)
		if err != nil {
			return err
		}

		view := struct {
			Session     types.SessionMetadata `json:"session" yaml:"session"`
			Experiments []types.Experiment    `json:"experiments" yaml:"experiments"`
		}{meta, exps}
		return writeEncoded(os.Stdout, view, asJSON)
	},
}

func init() {
	sessionCreateCmd.Flags().String("topic", "", "research topic (required)")
	sessionCreateCmd.Flags().String("id", "", "explicit session id (default: generated from time and topic)")
	sessionCreateCmd.Flags().String("search-type", string(types.SearchQuick), "quick or comprehensive")
	sessionCreateCmd.Flags().String("query", "", "search query used (default: topic)")
	sessionCreateCmd.Flags().StringSlice("categories", nil, "arXiv categories")
	sessionCreateCmd.Flags().StringSlice("sources", nil, "sources searched")
	sessionCreateCmd.Flags().Int("year-from", 0, "start year")
	sessionCreateCmd.Flags().Int("year-to", 0, "end year")
	sessionCreateCmd.Flags().Int("min-citations", 0, "minimum citations")

	sessionFreezeCmd.Flags().String("input", "", "JSON file of raw papers (required)")

	sessionExtendCmd.Flags().String("new-papers", "", "JSON file of papers to merge")

	sessionListCmd.Flags().String("status", "", "filter by status: created, frozen, extended, completed")
	sessionListCmd.Flags().String("topic", "", "filter by topic substring")
	sessionListCmd.Flags().String("parent", "", "list children of this session")
	sessionListCmd.Flags().Int("limit", 0, "maximum sessions to list")
	sessionListCmd.Flags().Bool("json", false, "output as JSON")

	sessionShowCmd.Flags().Bool("json", false, "output as JSON instead of YAML")

	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionFreezeCmd)
	sessionCmd.AddCommand(sessionExtendCmd)
	sessionCmd.AddCommand(sessionUpdateCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	rootCmd.AddCommand(sessionCmd)
}
