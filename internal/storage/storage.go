// Package storage keeps a SQLite history of generate and capture runs.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tkturners/thumbgen/internal/report"
)

// Store persists run summaries.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one stored run without its per-record outcomes.
type Run struct {
	RunID     string
	Operation string
	Started   time.Time
	Finished  time.Time
	OutputDir string
	Succeeded int
	Failed    int
	Skipped   int
}

// Open creates or opens the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; runs are serial anyway.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record stores a finished summary with its outcomes.
func (s *Store) Record(ctx context.Context, summary *report.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	finished := summary.Finished
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO runs
		(run_id, operation, started_at, finished_at, output_dir, succeeded, failed, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.Operation,
		formatTime(summary.Started),
		formatTime(finished),
		summary.OutputDir,
		summary.Succeeded,
		summary.Failed,
		summary.Skipped,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runPK, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for i, o := range summary.Outcomes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO outcomes
			(run_pk, seq, record_id, status, path, error) VALUES (?, ?, ?, ?, ?, ?)`,
			runPK, i, o.ID, string(o.Status), o.Path, o.Error,
		); err != nil {
			return fmt.Errorf("insert outcome %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, operation, started_at, finished_at, output_dir,
		succeeded, failed, skipped FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run               Run
			started, finished string
		)
		if err := rows.Scan(&run.RunID, &run.Operation, &started, &finished, &run.OutputDir,
			&run.Succeeded, &run.Failed, &run.Skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Started = parseTime(started)
		run.Finished = parseTime(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Failures returns the failed outcomes of every stored run with runID.
func (s *Store) Failures(ctx context.Context, runID string) ([]report.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT o.record_id, o.status, o.path, o.error
		FROM outcomes o JOIN runs r ON r.id = o.run_pk
		WHERE r.run_id = ? AND o.status = ?
		ORDER BY r.id, o.seq`, runID, string(report.StatusFailed))
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []report.Outcome
	for rows.Next() {
		var (
			o      report.Outcome
			status string
		)
		if err := rows.Scan(&o.ID, &status, &o.Path, &o.Error); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Status = report.Status(status)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return out, nil
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id NOT IN
		(SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
