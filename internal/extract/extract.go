// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract runs the batch extraction: every regular file in an input
// directory is partitioned and its elements are written as plain text to
// an output directory, one file per input. A failing file is recorded and
// reported; it never stops the batch.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/extract-documents/internal/partition"
	"github.com/pdiddy/extract-documents/pkg/types"
)

// ExtractAndSave partitions every regular file in cfg.InputDir and writes
// the joined element text to cfg.OutputDir. Progress lines go to w.
//
// A missing input directory or an empty one is reported on w and returned
// as a report with the matching condition and a nil error. Per-file failures
// are recorded in the report. The returned error is non-nil only when the
// output directory cannot be created, the input directory cannot be listed,
// or ctx is cancelled; the partial report is returned alongside it.
func ExtractAndSave(ctx context.Context, p partition.Partitioner, cfg types.ExtractionConfig, w io.Writer) (types.BatchReport, error) {
	cfg = withDefaults(cfg)
	report := types.BatchReport{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Condition: types.BatchOK,
		StartedAt: time.Now().UTC(),
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return finish(report), fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	files, err := ListFiles(cfg.InputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(w, "Error: The input directory '%s' was not found.\n", cfg.InputDir)
			report.Condition = types.BatchInputMissing
			return finish(report), nil
		}
		return finish(report), err
	}

	if len(files) == 0 {
		fmt.Fprintf(w, "No files found in the '%s' directory.\n", cfg.InputDir)
		report.Condition = types.BatchNoFiles
		return finish(report), nil
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return finish(report), err
		}
		report.Files = append(report.Files, ExtractFile(ctx, p, cfg, name, w))
	}

	report = finish(report)
	log.Info().
		Int("extracted", report.Extracted()).
		Int("failed", report.Failed()).
		Int("unsupported", report.Unsupported()).
		Int("total", report.Total()).
		Msg("batch complete")
	return report, nil
}

// ExtractFile partitions the single input file name (relative to
// cfg.InputDir) and writes its text. Every failure is captured in the
// returned result and reported on w.
func ExtractFile(ctx context.Context, p partition.Partitioner, cfg types.ExtractionConfig, name string, w io.Writer) types.FileResult {
	cfg = withDefaults(cfg)
	inPath := filepath.Join(cfg.InputDir, name)
	outPath := filepath.Join(cfg.OutputDir, OutputName(name, cfg.OutputExt))
	result := types.FileResult{Name: name, OutputPath: outPath}

	fmt.Fprintf(w, "Processing %s...\n", name)
	start := time.Now()

	elements, err := p.Partition(ctx, inPath, cfg.PartitionOptions)
	if err == nil {
		result.Elements = len(elements)
		err = writeFileAtomic(outPath, []byte(types.JoinElements(elements, cfg.Separator)))
	}
	result.Duration = time.Since(start)

	if err != nil {
		result.Status = types.FileFailed
		if errors.Is(err, partition.ErrUnsupportedFormat) {
			result.Status = types.FileUnsupported
		}
		result.Error = err.Error()
		fmt.Fprintf(w, "--- ERROR processing %s: %v ---\n", name, err)
		log.Debug().Err(err).Str("file", name).Str("status", string(result.Status)).Msg("extraction failed")
		return result
	}

	result.Status = types.FileExtracted
	fmt.Fprintf(w, "Successfully saved extracted text to %s\n", outPath)
	log.Debug().
		Str("file", name).
		Int("elements", result.Elements).
		Dur("took", result.Duration).
		Msg("extracted")
	return result
}

// ListFiles returns the names of the regular files in dir, sorted by name.
// Symlinks are followed: a link to a file is listed, a link to a directory
// is not. Entries that cannot be stat'ed are skipped.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Debug().Err(err).Str("entry", entry.Name()).Msg("skipping unreadable link")
			continue
		}
		if info.Mode().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// OutputName replaces the extension of name with ext. A name without an
// extension gains ext. Leading dots belong to the stem, so ".env" becomes
// ".env.txt".
func OutputName(name, ext string) string {
	trimmed := strings.TrimLeft(name, ".")
	stem := name[:len(name)-len(filepath.Ext(trimmed))]
	return stem + ext
}

// writeFileAtomic writes data to a temporary file beside path and renames it
// into place, so a failed write never leaves a truncated output.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

func withDefaults(cfg types.ExtractionConfig) types.ExtractionConfig {
	if cfg.InputDir == "" {
		cfg.InputDir = types.DefaultInputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = types.DefaultOutputDir
	}
	if cfg.OutputExt == "" {
		cfg.OutputExt = types.DefaultOutputExt
	}
	if cfg.Separator == "" {
		cfg.Separator = types.DefaultSeparator
	}
	return cfg
}

func finish(r types.BatchReport) types.BatchReport {
	r.FinishedAt = time.Now().UTC()
	return r
}
