// Package sqlite persists run summaries and per-compound verdicts.  The
// store is optional: the text report is the primary output and the pipeline
// treats recording failures as non-fatal.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/molsift/molsift/pkg/errors"
	"github.com/molsift/molsift/pkg/types/compound"
)

// Store manages the results SQLite database.  One Store serves one run at a
// time; BeginRun assigns the run every subsequent record belongs to.
type Store struct {
	db    *sql.DB
	runID string
}

// Run is a persisted batch summary.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Skipped    int
}

// Verdict is one persisted rule outcome for one compound.
type Verdict struct {
	Name       string
	Notation   string
	Rule       string
	Violations int
	Detail     string
}

// Skip is one persisted skip note.
type Skip struct {
	Name     string
	Notation string
	Reason   string
}

// Open opens or creates the results database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStoreFailure, "opening results database").
			WithDetail("path=" + path)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			processed INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS verdicts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			notation TEXT NOT NULL,
			rule TEXT NOT NULL,
			violations INTEGER NOT NULL,
			detail TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verdicts_run_id ON verdicts(run_id)`,
		`CREATE TABLE IF NOT EXISTS skips (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			notation TEXT NOT NULL,
			reason TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_skips_run_id ON skips(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, errors.CodeStoreFailure, "executing schema statement")
		}
	}
	return nil
}

// BeginRun registers a new run and makes it current.  Returns the run ID.
func (s *Store) BeginRun(ctx context.Context) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeStoreFailure, "registering run")
	}
	s.runID = id
	return id, nil
}

// FinishRun stamps the current run with its final counts.
func (s *Store) FinishRun(ctx context.Context, processed, skipped int) error {
	if s.runID == "" {
		return errors.New(errors.CodeStoreFailure, "no run in progress")
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, skipped = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), processed, skipped, s.runID,
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeStoreFailure, "finishing run")
	}
	return nil
}

// RecordResult stores one row per rule verdict for a processed compound.
// Implements the pipeline's Recorder.
func (s *Store) RecordResult(ctx context.Context, in compound.CompoundInput, rec *compound.DescriptorRecord, verdicts []compound.RuleVerdict) error {
	if s.runID == "" {
		return errors.New(errors.CodeStoreFailure, "no run in progress")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.CodeStoreFailure, "starting transaction")
	}
	defer tx.Rollback()

	for _, v := range verdicts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO verdicts (run_id, name, notation, rule, violations, detail)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.runID, rec.Name, in.Notation, v.RuleName, len(v.Violations),
			strings.Join(v.Violations, "; "),
		)
		if err != nil {
			return errors.Wrap(err, errors.CodeStoreFailure, "inserting verdict")
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.CodeStoreFailure, "committing verdicts")
	}
	return nil
}

// RecordSkip stores one skip note.  Implements the pipeline's Recorder.
func (s *Store) RecordSkip(ctx context.Context, in compound.CompoundInput, reason string) error {
	if s.runID == "" {
		return errors.New(errors.CodeStoreFailure, "no run in progress")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO skips (run_id, name, notation, reason) VALUES (?, ?, ?, ?)`,
		s.runID, in.DisplayName(), in.Notation, reason,
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeStoreFailure, "inserting skip")
	}
	return nil
}

// GetRun loads a persisted run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var run Run
	var started, finished sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, processed, skipped FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &started, &finished, &run.Processed, &run.Skipped)
	if err != nil {
		return Run{}, errors.Wrap(err, errors.CodeStoreFailure, "loading run").WithDetail("id=" + id)
	}
	if started.Valid {
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started.String)
	}
	if finished.Valid {
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
	}
	return run, nil
}

// Verdicts loads every verdict of a run, in insertion order.
func (s *Store) Verdicts(ctx context.Context, runID string) ([]Verdict, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, notation, rule, violations, detail FROM verdicts WHERE run_id = ? ORDER BY rowid`, runID,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStoreFailure, "querying verdicts")
	}
	defer rows.Close()

	var out []Verdict
	for rows.Next() {
		var v Verdict
		if err := rows.Scan(&v.Name, &v.Notation, &v.Rule, &v.Violations, &v.Detail); err != nil {
			return nil, errors.Wrap(err, errors.CodeStoreFailure, "scanning verdict")
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeStoreFailure, "iterating verdicts")
	}
	return out, nil
}

// Skips loads every skip note of a run, in insertion order.
func (s *Store) Skips(ctx context.Context, runID string) ([]Skip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, notation, reason FROM skips WHERE run_id = ? ORDER BY rowid`, runID,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStoreFailure, "querying skips")
	}
	defer rows.Close()

	var out []Skip
	for rows.Next() {
		var sk Skip
		if err := rows.Scan(&sk.Name, &sk.Notation, &sk.Reason); err != nil {
			return nil, errors.Wrap(err, errors.CodeStoreFailure, "scanning skip")
		}
		out = append(out, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeStoreFailure, "iterating skips")
	}
	return out, nil
}
