// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps an optional SQLite history of check runs and their
// findings, so documentation drift can be followed across runs.
// Implements: findings history (check --record, history runs|list|export);
//
//	DESIGN.md § Archive.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/snipcheck/pkg/types"
)

const (
	dbFile            = "history.db"
	defaultMaxResults = 50

	// timeFormat is fixed-width so started_at sorts lexically.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the history SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int

	// now is overridden in tests.
	now func() time.Time
}

// NewStore opens or creates the history database at dir/history.db and
// creates the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = types.DefaultConfig().Archive.Dir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        dir,
		maxResults: maxResults,
		now:        time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			documents INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			findings INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS findings (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			section TEXT,
			block_index INTEGER,
			line INTEGER,
			severity TEXT NOT NULL,
			rule TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_run_id ON findings(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_severity ON findings(severity)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_rule ON findings(rule)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one recorded check run.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Documents int       `json:"documents" yaml:"documents"`
	Failed    int       `json:"failed" yaml:"failed"`
	Findings  int       `json:"findings" yaml:"findings"`
}

// Record stores the results of one check run and returns the new run.
// Documents that failed extraction count toward Failed; their errors are
// not stored as findings.
func (s *Store) Record(ctx context.Context, results []types.CheckResult) (Run, error) {
	run := Run{
		ID:        uuid.New().String(),
		StartedAt: s.now().UTC(),
		Documents: len(results),
	}
	for _, r := range results {
		if r.Error != "" {
			run.Failed++
		}
		run.Findings += len(r.Findings)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, documents, failed, findings) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(timeFormat), run.Documents, run.Failed, run.Findings,
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (run_id, path, section, block_index, line, severity, rule, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		for _, f := range r.Findings {
			_, err := stmt.ExecContext(ctx,
				run.ID, f.Path, f.SectionTitle, f.BlockIndex, f.Line,
				string(f.Severity), f.Rule, f.Message,
			)
			if err != nil {
				return Run{}, fmt.Errorf("inserting finding for %s: %w", f.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, documents, failed, findings FROM runs
		 ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started string
		)
		if err := rows.Scan(&r.ID, &started, &r.Documents, &r.Failed, &r.Findings); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(timeFormat, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
