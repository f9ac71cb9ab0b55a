// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/extract-documents/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past extraction runs from the journal",
	Long: `History reads the SQLite journal written by runs started with --journal
and lists recent runs with their counts. Use --run to show one run's files,
--file to show the last outcome for one input file, or --export to write
recent runs to a YAML file.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("journal", "extract-journal.db", "path to the SQLite journal")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show the files of this run ID")
	historyCmd.Flags().String("file", "", "show the most recent result for this input filename")
	historyCmd.Flags().String("export", "", "write recent runs with their files to this YAML path")
	historyCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("journal")
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetInt64("run")
	file, _ := cmd.Flags().GetString("file")
	exportPath, _ := cmd.Flags().GetString("export")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	w := cmd.OutOrStdout()

	switch {
	case exportPath != "":
		if err := store.ExportYAML(ctx, exportPath, limit); err != nil {
			return err
		}
		fmt.Fprintf(w, "exported to %s\n", exportPath)
		return nil

	case file != "":
		result, ok, err := store.LastResult(ctx, file)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(w, "%s has not been processed\n", file)
			return nil
		}
		if asJSON {
			return writeJSON(w, result)
		}
		fmt.Fprintf(w, "%-11s %s -> %s (%d elements, %s)\n",
			result.Status, result.Name, result.OutputPath, result.Elements, result.Duration)
		if result.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", result.Error)
		}
		return nil

	case runID != 0:
		files, err := store.Files(ctx, runID)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(w, files)
		}
		for _, f := range files {
			fmt.Fprintf(w, "%-11s %s", f.Status, f.Name)
			if f.Error != "" {
				fmt.Fprintf(w, ": %s", f.Error)
			}
			fmt.Fprintln(w)
		}
		return nil
	}

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "#%d %s  %s -> %s  %s  extracted: %d, failed: %d, unsupported: %d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.InputDir, r.OutputDir,
			r.Condition, r.Extracted, r.Failed, r.Unsupported)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
