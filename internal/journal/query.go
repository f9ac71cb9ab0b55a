// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pdiddy/extract-documents/pkg/types"
)

const defaultLimit = 20

// Run is a journal row summarizing one batch run.
type Run struct {
	ID          int64                `json:"id" yaml:"id"`
	StartedAt   time.Time            `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time            `json:"finished_at" yaml:"finished_at"`
	InputDir    string               `json:"input_dir" yaml:"input_dir"`
	OutputDir   string               `json:"output_dir" yaml:"output_dir"`
	Condition   types.BatchCondition `json:"condition" yaml:"condition"`
	Extracted   int                  `json:"extracted" yaml:"extracted"`
	Failed      int                  `json:"failed" yaml:"failed"`
	Unsupported int                  `json:"unsupported" yaml:"unsupported"`
}

// Recent returns up to limit runs, newest first. A non-positive limit uses
// the default of 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_dir, output_dir, condition, extracted, failed, unsupported
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished string
			condition         string
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.InputDir, &r.OutputDir,
			&condition, &r.Extracted, &r.Failed, &r.Unsupported); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Condition = types.BatchCondition(condition)
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Files returns the file results recorded for runID in processing order.
func (s *Store) Files(ctx context.Context, runID int64) ([]types.FileResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, output_path, status, elements, error, duration_ms
		 FROM files WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files for run %d: %w", runID, err)
	}
	defer rows.Close()

	var files []types.FileResult
	for rows.Next() {
		var (
			f      types.FileResult
			status string
			errMsg sql.NullString
			ms     int64
		)
		if err := rows.Scan(&f.Name, &f.OutputPath, &status, &f.Elements, &errMsg, &ms); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		f.Status = types.FileStatus(status)
		f.Error = errMsg.String
		f.Duration = time.Duration(ms) * time.Millisecond
		files = append(files, f)
	}
	return files, rows.Err()
}

// LastResult returns the most recent recorded result for the input file
// name, and false if it has never been processed.
func (s *Store) LastResult(ctx context.Context, name string) (types.FileResult, bool, error) {
	var (
		f      types.FileResult
		status string
		errMsg sql.NullString
		ms     int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, output_path, status, elements, error, duration_ms
		 FROM files WHERE name = ? ORDER BY run_id DESC LIMIT 1`, name,
	).Scan(&f.Name, &f.OutputPath, &status, &f.Elements, &errMsg, &ms)
	if err == sql.ErrNoRows {
		return types.FileResult{}, false, nil
	}
	if err != nil {
		return types.FileResult{}, false, fmt.Errorf("querying last result for %s: %w", name, err)
	}
	f.Status = types.FileStatus(status)
	f.Error = errMsg.String
	f.Duration = time.Duration(ms) * time.Millisecond
	return f, true, nil
}
