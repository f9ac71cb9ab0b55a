// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FileStatus is the outcome of extracting a single input file.
type FileStatus string

const (
	FileExtracted   FileStatus = "extracted"
	FileFailed      FileStatus = "failed"
	FileUnsupported FileStatus = "unsupported"
)

// BatchCondition describes how a batch run ended before or after the
// per-file loop.
type BatchCondition string

const (
	BatchOK           BatchCondition = "ok"
	BatchInputMissing BatchCondition = "input_missing"
	BatchNoFiles      BatchCondition = "no_files"
)

// FileResult records what happened to one input file.
type FileResult struct {
	// Name is the input filename (no directory).
	Name string `json:"name" yaml:"name"`

	// OutputPath is where the text was (or would have been) written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	Status FileStatus `json:"status" yaml:"status"`

	// Elements is the number of content elements the partitioner returned.
	Elements int `json:"elements" yaml:"elements"`

	// Error is the failure detail; empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// OK reports whether the file was written.
func (r FileResult) OK() bool {
	return r.Status == FileExtracted
}

// BatchReport aggregates the per-file results of one run.
type BatchReport struct {
	InputDir   string         `json:"input_dir" yaml:"input_dir"`
	OutputDir  string         `json:"output_dir" yaml:"output_dir"`
	Condition  BatchCondition `json:"condition" yaml:"condition"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	Files      []FileResult   `json:"files" yaml:"files"`
}

// Extracted returns the number of files written.
func (r BatchReport) Extracted() int {
	return r.count(FileExtracted)
}

// Failed returns the number of files that failed for reasons other than an
// unsupported format.
func (r BatchReport) Failed() int {
	return r.count(FileFailed)
}

// Unsupported returns the number of files the partitioner rejected as an
// unsupported format.
func (r BatchReport) Unsupported() int {
	return r.count(FileUnsupported)
}

// Total returns the number of files attempted.
func (r BatchReport) Total() int {
	return len(r.Files)
}

// HasFailures reports whether any file was not written.
func (r BatchReport) HasFailures() bool {
	return r.Extracted() < r.Total()
}

func (r BatchReport) count(s FileStatus) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}
