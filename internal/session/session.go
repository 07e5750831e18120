// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/pdiddy/research-analyzer/internal/dedup"
	"github.com/pdiddy/research-analyzer/internal/report"
	"github.com/pdiddy/research-analyzer/internal/stats"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

const (
	topicWords = 3
	topVenues  = 5
)

// Repository loads, saves, and lists sessions and experiments. Commands
// receive one instead of touching the artifacts tree directly.
type Repository interface {
	CreateSession(ctx context.Context, req NewSession) (types.SessionMetadata, error)
	GetSession(ctx context.Context, id string) (types.SessionMetadata, error)
	ListSessions(ctx context.Context, f ListFilter) ([]Entry, error)
	LoadPapers(ctx context.Context, id string) ([]types.Paper, error)
	Freeze(ctx context.Context, id string, c Collection) (types.SessionMetadata, error)
	Extend(ctx context.Context, parentID string, papers []types.Paper, cfg types.DedupConfig) (types.SessionMetadata, dedup.Result, error)
	UpdateSummary(ctx context.Context, id string) (types.SessionMetadata, error)
	CreateExperiment(ctx context.Context, sessionID string, algorithms []string, notes string) (types.Experiment, error)
	GetExperiment(ctx context.Context, id string) (types.Experiment, error)
	ListExperiments(ctx context.Context, sessionID string) ([]types.Experiment, error)
	SaveAnalysis(ctx context.Context, experimentID string, res types.AnalysisResult, rep report.Report) error
	Close() error
}

// NewSession describes a session to create. ID is generated from Topic
// when empty.
type NewSession struct {
	ID         string
	Topic      string
	SearchType types.SearchType
	Parameters types.SearchParameters
}

// Collection is what Freeze writes: the raw search output and its
// deduplicated form.
type Collection struct {
	Raw        []types.Paper
	Papers     []types.Paper
	Duplicates int
	Dropped    int
}

// NewSessionID builds session_<YYYYMMDD_HHMMSS>_<first topic words>.
// Topic words are lowercased and stripped of anything but letters and
// digits.
func NewSessionID(topic string, now time.Time) string {
	id := "session_" + now.UTC().Format("20060102_150405")
	words := strings.FieldsFunc(strings.ToLower(topic), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) > topicWords {
		words = words[:topicWords]
	}
	if len(words) > 0 {
		id += "_" + strings.Join(words, "_")
	}
	return id
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && filepath.Base(id) == id && id != experimentsDir
}

func (s *Store) exists(id string) bool {
	_, err := os.Stat(filepath.Join(s.dir, id))
	return err == nil
}

// uniqueID appends _2, _3, ... to base until no session directory uses it.
func (s *Store) uniqueID(base string) string {
	id := base
	for n := 2; s.exists(id); n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}

// CreateSession writes metadata for a new, empty session. An explicit ID
// that is already taken returns ErrExists.
func (s *Store) CreateSession(ctx context.Context, req NewSession) (types.SessionMetadata, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return types.SessionMetadata{}, fmt.Errorf("%w: session topic is empty", types.ErrInvalidInput)
	}
	now := s.now().UTC()

	id := req.ID
	if id == "" {
		id = s.uniqueID(NewSessionID(req.Topic, now))
	} else {
		if !validID(id) {
			return types.SessionMetadata{}, fmt.Errorf("%w: invalid session id %q", types.ErrInvalidInput, id)
		}
		if s.exists(id) {
			return types.SessionMetadata{}, fmt.Errorf("session %s: %w", id, ErrExists)
		}
	}

	kind := req.SearchType
	if kind == "" {
		kind = types.SearchQuick
	}
	params := req.Parameters
	if params.Query == "" {
		params.Query = req.Topic
	}

	meta := types.SessionMetadata{
		ID:            id,
		Created:       now,
		Topic:         req.Topic,
		SearchType:    kind,
		Parameters:    params,
		ChildSessions: []string{},
		Status:        types.SessionCreated,
	}
	if err := s.saveSessions(ctx, meta); err != nil {
		return types.SessionMetadata{}, err
	}
	return meta, nil
}

// GetSession reads a session's metadata.json.
func (s *Store) GetSession(_ context.Context, id string) (types.SessionMetadata, error) {
	if !validID(id) {
		return types.SessionMetadata{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	var meta types.SessionMetadata
	if err := readJSON(filepath.Join(s.dir, id, metadataFile), &meta); err != nil {
		if errors.Is(err, ErrNotFound) {
			return types.SessionMetadata{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return types.SessionMetadata{}, err
	}
	if meta.ChildSessions == nil {
		meta.ChildSessions = []string{}
	}
	return meta, nil
}

// LoadPapers returns the session's deduplicated collection.
func (s *Store) LoadPapers(ctx context.Context, id string) ([]types.Paper, error) {
	meta, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !meta.Status.HasCollection() {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFrozen)
	}
	var papers []types.Paper
	if err := readJSON(filepath.Join(s.dir, id, dedupFile), &papers); err != nil {
		return nil, err
	}
	return papers, nil
}

// Freeze writes raw.json and deduplicated.json for a session that has no
// collection yet. After this the collection never changes; a second call
// returns ErrFrozen.
func (s *Store) Freeze(ctx context.Context, id string, c Collection) (types.SessionMetadata, error) {
	meta, err := s.GetSession(ctx, id)
	if err != nil {
		return types.SessionMetadata{}, err
	}
	if meta.Status != types.SessionCreated {
		return types.SessionMetadata{}, fmt.Errorf("session %s (%s): %w", id, meta.Status, ErrFrozen)
	}

	if err := s.writeCollection(id, c); err != nil {
		return types.SessionMetadata{}, err
	}
	meta.Summary = Summarize(c.Papers, c.Duplicates, c.Dropped)
	meta.Status = types.SessionFrozen
	if err := s.saveSessions(ctx, meta); err != nil {
		return types.SessionMetadata{}, err
	}
	return meta, nil
}

func (s *Store) writeCollection(id string, c Collection) error {
	raw, papers := c.Raw, c.Papers
	if raw == nil {
		raw = []types.Paper{}
	}
	if papers == nil {
		papers = []types.Paper{}
	}
	if err := writeJSON(filepath.Join(s.dir, id, rawFile), raw); err != nil {
		return err
	}
	return writeJSON(filepath.Join(s.dir, id, dedupFile), papers)
}

// Extend merges the parent's collection with papers through the
// deduplicator and stores the result as a new frozen child session. The
// parent keeps its papers; only its lineage and status change.
func (s *Store) Extend(ctx context.Context, parentID string, papers []types.Paper, cfg types.DedupConfig) (types.SessionMetadata, dedup.Result, error) {
	parent, err := s.GetSession(ctx, parentID)
	if err != nil {
		return types.SessionMetadata{}, dedup.Result{}, err
	}
	existing, err := s.LoadPapers(ctx, parentID)
	if err != nil {
		return types.SessionMetadata{}, dedup.Result{}, err
	}

	d, err := dedup.New(cfg)
	if err != nil {
		return types.SessionMetadata{}, dedup.Result{}, err
	}
	raw := make([]types.Paper, 0, len(existing)+len(papers))
	raw = append(raw, existing...)
	raw = append(raw, papers...)
	res := d.Deduplicate(raw)

	now := s.now().UTC()
	topic := parent.Topic + " (extended)"
	child := types.SessionMetadata{
		ID:            s.uniqueID(NewSessionID(topic, now)),
		Created:       now,
		Topic:         topic,
		SearchType:    parent.SearchType,
		Parameters:    parent.Parameters,
		Summary:       Summarize(res.Papers, res.Duplicates, res.Dropped),
		ParentSession: parentID,
		ChildSessions: []string{},
		Status:        types.SessionFrozen,
	}
	if err := s.writeCollection(child.ID, Collection{Raw: raw, Papers: res.Papers}); err != nil {
		return types.SessionMetadata{}, dedup.Result{}, err
	}

	parent.ChildSessions = append(parent.ChildSessions, child.ID)
	parent.Status = types.SessionExtended
	if err := s.saveSessions(ctx, child, parent); err != nil {
		return types.SessionMetadata{}, dedup.Result{}, err
	}
	return child, res, nil
}

// UpdateSummary recomputes the results summary from the frozen collection.
// A frozen session becomes completed; extended sessions keep their status.
func (s *Store) UpdateSummary(ctx context.Context, id string) (types.SessionMetadata, error) {
	meta, err := s.GetSession(ctx, id)
	if err != nil {
		return types.SessionMetadata{}, err
	}
	papers, err := s.LoadPapers(ctx, id)
	if err != nil {
		return types.SessionMetadata{}, err
	}

	meta.Summary = Summarize(papers, meta.Summary.Duplicates, meta.Summary.Dropped)
	if meta.Status == types.SessionFrozen {
		meta.Status = types.SessionCompleted
	}
	if err := s.saveSessions(ctx, meta); err != nil {
		return types.SessionMetadata{}, err
	}
	return meta, nil
}

// Summarize computes a results summary for a deduplicated collection.
func Summarize(papers []types.Paper, duplicates, dropped int) types.ResultsSummary {
	sum := types.ResultsSummary{
		TotalPapers: len(papers),
		Duplicates:  duplicates,
		Dropped:     dropped,
	}

	var venues []string
	for _, p := range papers {
		sum.CitationTotal += p.CitationCount
		if p.Venue != "" {
			venues = append(venues, p.Venue)
		}
		if p.Year <= 0 {
			continue
		}
		if sum.YearFrom == 0 || p.Year < sum.YearFrom {
			sum.YearFrom = p.Year
		}
		if p.Year > sum.YearTo {
			sum.YearTo = p.Year
		}
	}

	if top := stats.Frequency(venues, topVenues).Top; len(top) > 0 {
		sum.TopVenues = make(map[string]int, len(top))
		for _, vc := range top {
			sum.TopVenues[vc.Value] = vc.Count
		}
	}
	return sum
}

// CreateExperiment registers a new analysis run over a session with a
// frozen collection.
func (s *Store) CreateExperiment(ctx context.Context, sessionID string, algorithms []string, notes string) (types.Experiment, error) {
	meta, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return types.Experiment{}, err
	}
	if !meta.Status.HasCollection() {
		return types.Experiment{}, fmt.Errorf("session %s: %w", sessionID, ErrNotFrozen)
	}
	if algorithms == nil {
		algorithms = []string{}
	}

	exp := types.Experiment{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Created:    s.now().UTC(),
		Algorithms: algorithms,
		Notes:      notes,
	}
	if err := s.insertExperiment(ctx, exp); err != nil {
		return types.Experiment{}, err
	}
	return exp, nil
}

// GetExperiment reads an experiment's metadata.
func (s *Store) GetExperiment(_ context.Context, id string) (types.Experiment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return types.Experiment{}, fmt.Errorf("experiment %q: %w", id, ErrNotFound)
	}
	var exp types.Experiment
	if err := readJSON(filepath.Join(s.dir, experimentsDir, id, experimentFile), &exp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return types.Experiment{}, fmt.Errorf("experiment %s: %w", id, ErrNotFound)
		}
		return types.Experiment{}, err
	}
	return exp, nil
}

// ExperimentDir returns the directory holding an experiment's outputs.
func (s *Store) ExperimentDir(id string) string {
	return filepath.Join(s.dir, experimentsDir, id)
}

// SaveAnalysis writes results.json, results.yaml and report.md for an
// experiment.
func (s *Store) SaveAnalysis(ctx context.Context, experimentID string, res types.AnalysisResult, rep report.Report) error {
	exp, err := s.GetExperiment(ctx, experimentID)
	if err != nil {
		return err
	}
	rep.SessionID = exp.SessionID
	rep.ExperimentID = exp.ID

	dir := s.ExperimentDir(exp.ID)
	writes := []struct {
		name  string
		write func(io.Writer) error
	}{
		{resultsJSONFile, func(w io.Writer) error { return report.WriteJSON(w, res) }},
		{resultsYAMLFile, func(w io.Writer) error { return report.WriteYAML(w, res) }},
		{reportFile, func(w io.Writer) error { return report.Markdown(w, rep) }},
	}
	for _, f := range writes {
		if err := report.WriteFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}
	return nil
}
