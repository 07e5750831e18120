// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session persists search sessions and analysis experiments.
//
// Each session is a directory under the artifacts root holding
// metadata.json, raw.json and deduplicated.json. Experiments live under
// experiments/<id>/. An SQLite index (index.db) mirrors the metadata so
// sessions and experiments can be listed and filtered without walking the
// tree; the JSON files remain the source of truth.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-analyzer/internal/report"
	"github.com/pdiddy/research-analyzer/pkg/types"
)

const (
	metadataFile     = "metadata.json"
	rawFile          = "raw.json"
	dedupFile        = "deduplicated.json"
	experimentsDir   = "experiments"
	experimentFile   = "experiment.json"
	resultsJSONFile  = "results.json"
	resultsYAMLFile  = "results.yaml"
	reportFile       = "report.md"
	dbFile           = "index.db"
	defaultArtifacts = "artifacts"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrFrozen    = errors.New("session is frozen")
	ErrNotFrozen = errors.New("session has no frozen collection")
	ErrExists    = errors.New("already exists")
)

// Store is the filesystem and SQLite backed Repository.
type Store struct {
	db  *sql.DB
	dir string

	// now is swapped in tests to control generated session ids.
	now func() time.Time
}

var _ Repository = (*Store)(nil)

// Open creates the artifacts directory if needed and opens index.db inside
// it, creating the schema on first use.
func Open(cfg types.SessionConfig) (*Store, error) {
	dir := cfg.ArtifactsDir
	if dir == "" {
		dir = defaultArtifacts
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifacts directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Dir returns the artifacts root.
func (s *Store) Dir() string {
	return s.dir
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created TEXT NOT NULL,
			topic TEXT NOT NULL,
			search_type TEXT,
			status TEXT NOT NULL,
			parent TEXT,
			total_papers INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_parent ON sessions(parent)`,
		`CREATE TABLE IF NOT EXISTS experiments (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			created TEXT NOT NULL,
			algorithms TEXT,
			notes TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_experiments_session ON experiments(session_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *Store) upsertSession(ctx context.Context, tx *sql.Tx, m types.SessionMetadata) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, created, topic, search_type, status, parent, total_papers)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			topic=excluded.topic, search_type=excluded.search_type,
			status=excluded.status, parent=excluded.parent,
			total_papers=excluded.total_papers`,
		m.ID, formatTime(m.Created), m.Topic, string(m.SearchType),
		string(m.Status), m.ParentSession, m.Summary.TotalPapers,
	)
	if err != nil {
		return fmt.Errorf("upserting session %s: %w", m.ID, err)
	}
	return nil
}

// saveSessions writes each metadata file and mirrors it into the index in
// one transaction.
func (s *Store) saveSessions(ctx context.Context, metas ...types.SessionMetadata) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range metas {
		if err := s.upsertSession(ctx, tx, m); err != nil {
			return err
		}
	}
	for _, m := range metas {
		if err := writeJSON(filepath.Join(s.dir, m.ID, metadataFile), m); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Entry is one row of the session index.
type Entry struct {
	ID          string              `json:"session_id" yaml:"session_id"`
	Created     time.Time           `json:"timestamp" yaml:"timestamp"`
	Topic       string              `json:"topic" yaml:"topic"`
	SearchType  types.SearchType    `json:"search_type" yaml:"search_type"`
	Status      types.SessionStatus `json:"status" yaml:"status"`
	Parent      string              `json:"parent_session,omitempty" yaml:"parent_session,omitempty"`
	TotalPapers int                 `json:"total_papers" yaml:"total_papers"`
}

// ListFilter narrows ListSessions. Zero fields match everything.
type ListFilter struct {
	Status types.SessionStatus

	// Topic matches as a case-insensitive substring.
	Topic string

	Parent string
	Limit  int
}

func (f ListFilter) query() sq.SelectBuilder {
	q := sq.Select("id", "created", "topic", "search_type", "status", "parent", "total_papers").
		From("sessions").
		OrderBy("created DESC", "id")
	if f.Status != "" {
		q = q.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.Topic != "" {
		q = q.Where(sq.Like{"lower(topic)": "%" + strings.ToLower(f.Topic) + "%"})
	}
	if f.Parent != "" {
		q = q.Where(sq.Eq{"parent": f.Parent})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	return q
}

// ListSessions returns index entries, newest first.
func (s *Store) ListSessions(ctx context.Context, f ListFilter) ([]Entry, error) {
	query, args, err := f.query().ToSql()
	if err != nil {
		return nil, fmt.Errorf("building session query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e                     Entry
			created, kind, status string
			parent                sql.NullString
		)
		if err := rows.Scan(&e.ID, &created, &e.Topic, &kind, &status, &parent, &e.TotalPapers); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		e.Created = parseTime(created)
		e.SearchType = types.SearchType(kind)
		e.Status = types.SessionStatus(status)
		e.Parent = parent.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return entries, nil
}

// ListExperiments returns experiments newest first. An empty sessionID
// lists all of them.
func (s *Store) ListExperiments(ctx context.Context, sessionID string) ([]types.Experiment, error) {
	q := sq.Select("id", "session_id", "created", "algorithms", "notes").
		From("experiments").
		OrderBy("created DESC", "id")
	if sessionID != "" {
		q = q.Where(sq.Eq{"session_id": sessionID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building experiment query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing experiments: %w", err)
	}
	defer rows.Close()

	exps := []types.Experiment{}
	for rows.Next() {
		var (
			e                 types.Experiment
			created           string
			algorithms, notes sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &created, &algorithms, &notes); err != nil {
			return nil, fmt.Errorf("scanning experiment row: %w", err)
		}
		e.Created = parseTime(created)
		e.Notes = notes.String
		if algorithms.String != "" {
			if err := json.Unmarshal([]byte(algorithms.String), &e.Algorithms); err != nil {
				return nil, fmt.Errorf("decoding algorithms for %s: %w", e.ID, err)
			}
		}
		exps = append(exps, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating experiments: %w", err)
	}
	return exps, nil
}

func (s *Store) insertExperiment(ctx context.Context, e types.Experiment) error {
	algorithms, _ := json.Marshal(e.Algorithms)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO experiments (id, session_id, created, algorithms, notes) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, formatTime(e.Created), string(algorithms), e.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting experiment %s: %w", e.ID, err)
	}
	if err := writeJSON(filepath.Join(s.dir, experimentsDir, e.ID, experimentFile), e); err != nil {
		return err
	}
	return tx.Commit()
}

// timeLayout is fixed width so index rows sort by time as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func writeJSON(path string, v any) error {
	return report.WriteFile(path, func(w io.Writer) error {
		return report.WriteJSON(w, v)
	})
}

// readJSON decodes path into v. A missing file wraps ErrNotFound.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
