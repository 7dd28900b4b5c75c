/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package store persists extraction runs and their stage records in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/llm-d/liquid-extraction/pkg/core"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Run outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// RunRecord is one persisted run.
type RunRecord struct {
	ID          uuid.UUID     `json:"id" yaml:"id"`
	Name        string        `json:"name,omitempty" yaml:"name,omitempty"`
	StartedAt   time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Outcome     string        `json:"outcome" yaml:"outcome"`
	Error       string        `json:"error,omitempty" yaml:"error,omitempty"`
	Fingerprint string        `json:"fingerprint" yaml:"fingerprint"`

	Feed          core.Stream           `json:"feed" yaml:"feed"`
	Solvent       core.EffectiveSolvent `json:"solvent" yaml:"solvent"`
	StagesPlanned int                   `json:"stagesPlanned" yaml:"stagesPlanned"`

	Stages    []core.StageRecord   `json:"stages,omitempty" yaml:"stages,omitempty"`
	Composite core.CompositeResult `json:"composite" yaml:"composite"`
}

// Filter restricts List results.
type Filter struct {
	Outcome string
	Since   time.Time
	Limit   int
}

// Store is a SQLite-backed run history. It is safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT,
		started_at DATETIME NOT NULL,
		duration_ns INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT,
		fingerprint TEXT NOT NULL,
		feed_mass REAL NOT NULL,
		feed_x REAL NOT NULL,
		feed_n REAL NOT NULL,
		solvent_mass REAL NOT NULL,
		solvent_ys REAL NOT NULL,
		solvent_ns REAL NOT NULL,
		stages_planned INTEGER NOT NULL,
		total_extract_mass REAL NOT NULL,
		extract_composition REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stages (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		stage INTEGER NOT NULL,
		raffinate_x REAL NOT NULL,
		extract_y REAL NOT NULL,
		extract_mass REAL NOT NULL,
		record TEXT NOT NULL,
		PRIMARY KEY (run_id, stage)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores a run and its stages in one transaction. A zero ID is replaced
// by a new random UUID; a zero StartedAt by the current time.
func (s *Store) Save(ctx context.Context, r *RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, started_at, duration_ns, outcome, error, fingerprint,
			feed_mass, feed_x, feed_n, solvent_mass, solvent_ys, solvent_ns,
			stages_planned, total_extract_mass, extract_composition)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID.String(), r.Name, r.StartedAt.UTC(), int64(r.Duration), r.Outcome, r.Error, r.Fingerprint,
		r.Feed.Mass, r.Feed.X, r.Feed.N, r.Solvent.Mass, r.Solvent.Ys, r.Solvent.Ns,
		r.StagesPlanned, r.Composite.TotalExtractMass, r.Composite.ExtractComposition)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stages (run_id, stage, raffinate_x, extract_y, extract_mass, record)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, st := range r.Stages {
		record, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("failed to encode stage %d: %w", st.Stage, err)
		}
		if _, err := stmt.ExecContext(ctx, r.ID.String(), st.Stage,
			st.TieLine.Raffinate.X, st.TieLine.Extract.X, st.ExtractMass(), string(record)); err != nil {
			return fmt.Errorf("failed to insert stage %d: %w", st.Stage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const runColumns = `id, name, started_at, duration_ns, outcome, error, fingerprint,
	feed_mass, feed_x, feed_n, solvent_mass, solvent_ys, solvent_ns,
	stages_planned, total_extract_mass, extract_composition`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunRecord, error) {
	var (
		r        RunRecord
		id       string
		name     sql.NullString
		errText  sql.NullString
		duration int64
	)
	if err := row.Scan(&id, &name, &r.StartedAt, &duration, &r.Outcome, &errText, &r.Fingerprint,
		&r.Feed.Mass, &r.Feed.X, &r.Feed.N, &r.Solvent.Mass, &r.Solvent.Ys, &r.Solvent.Ns,
		&r.StagesPlanned, &r.Composite.TotalExtractMass, &r.Composite.ExtractComposition); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	r.ID = parsed
	r.Name = name.String
	r.Error = errText.String
	r.Duration = time.Duration(duration)
	r.StartedAt = r.StartedAt.UTC()
	return &r, nil
}

// List returns run summaries, newest first. Stage records are not loaded.
func (s *Store) List(ctx context.Context, filter Filter) ([]*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	var args []any
	if filter.Outcome != "" {
		query += " AND outcome = ?"
		args = append(args, filter.Outcome)
	}
	if !filter.Since.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, filter.Since.UTC())
	}
	query += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns a run with its stage records.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id.String())
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT record FROM stages WHERE run_id = ? ORDER BY stage`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query stages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		var st core.StageRecord
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			return nil, fmt.Errorf("failed to decode stage: %w", err)
		}
		r.Stages = append(r.Stages, st)
	}
	return r, rows.Err()
}

// FindByFingerprint returns the most recent successful run with fingerprint.
func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) (*RunRecord, error) {
	s.mu.RLock()
	row := s.db.QueryRowContext(ctx, `SELECT id FROM runs WHERE fingerprint = ? AND outcome = ?
		ORDER BY started_at DESC LIMIT 1`, fingerprint, OutcomeSucceeded)
	var id string
	err := row.Scan(&id)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: fingerprint %s", ErrNotFound, fingerprint)
		}
		return nil, fmt.Errorf("failed to find run: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	return s.Get(ctx, parsed)
}

// Prune deletes runs started before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
