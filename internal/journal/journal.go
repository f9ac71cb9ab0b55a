// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal records batch extraction runs in a SQLite database so
// past runs and their per-file outcomes can be listed and exported. The
// journal is write-only from the extractor's point of view: it never
// decides which files are processed.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/extract-documents/pkg/types"
)

// Store manages the journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at path, creating parent
// directories and the schema if they do not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	s := &Store{db: db}
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			condition TEXT NOT NULL,
			extracted INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			unsupported INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			output_path TEXT NOT NULL,
			status TEXT NOT NULL,
			elements INTEGER NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_name ON files(name)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one batch report and its file results in a single
// transaction and returns the new run ID.
func (s *Store) Record(ctx context.Context, report types.BatchReport) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, input_dir, output_dir, condition, extracted, failed, unsupported)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		formatTime(report.StartedAt), formatTime(report.FinishedAt),
		report.InputDir, report.OutputDir, string(report.Condition),
		report.Extracted(), report.Failed(), report.Unsupported(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (run_id, seq, name, output_path, status, elements, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range report.Files {
		_, err := stmt.ExecContext(ctx,
			runID, i, f.Name, f.OutputPath, string(f.Status),
			f.Elements, f.Error, f.Duration.Milliseconds(),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting file %s: %w", f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
