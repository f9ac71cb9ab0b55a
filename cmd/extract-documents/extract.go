// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/extract-documents/internal/extract"
	"github.com/pdiddy/extract-documents/internal/journal"
	"github.com/pdiddy/extract-documents/internal/partition"
	"github.com/pdiddy/extract-documents/internal/secrets"
	"github.com/pdiddy/extract-documents/pkg/types"
)

func runExtract(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(viper.GetViper())
	if err != nil {
		return err
	}
	opts.Partitioner.APIKey = secrets.Resolve(loadedSecrets, secrets.KeyUnstructuredAPI, opts.Partitioner.APIKey)

	p, err := partition.New(opts.Partitioner)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, p, opts, cmd.OutOrStdout())
}

// run executes one batch and its follow-up bookkeeping. Failed files only
// produce an error when opts.Strict is set.
func run(ctx context.Context, p partition.Partitioner, opts runOptions, w io.Writer) error {
	log.Debug().
		Str("input", opts.Extraction.InputDir).
		Str("output", opts.Extraction.OutputDir).
		Str("strategy", string(opts.Extraction.Strategy)).
		Strs("languages", opts.Extraction.Languages).
		Bool("infer_tables", opts.Extraction.InferTableStructure).
		Str("backend", string(opts.Partitioner.Backend)).
		Msg("starting extraction")

	report, runErr := extract.ExtractAndSave(ctx, p, opts.Extraction, w)

	// Bookkeeping runs even for an interrupted batch so the partial
	// report is kept.
	if err := saveReport(context.WithoutCancel(ctx), report, opts); err != nil {
		log.Warn().Err(err).Msg("could not save run report")
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(w, "\nExtraction process finished.")

	if opts.Strict && report.HasFailures() {
		return fmt.Errorf("%d of %d file(s) failed extraction", report.Total()-report.Extracted(), report.Total())
	}
	return nil
}

func saveReport(ctx context.Context, report types.BatchReport, opts runOptions) error {
	if opts.ReportPath != "" {
		if err := extract.WriteReport(opts.ReportPath, report); err != nil {
			return err
		}
	}
	if opts.JournalPath == "" {
		return nil
	}

	store, err := journal.Open(opts.JournalPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Record(ctx, report)
	if err != nil {
		return err
	}
	log.Debug().Int64("run", id).Str("journal", opts.JournalPath).Msg("recorded run")
	return nil
}
