// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/extract-documents/pkg/types"
)

// Config keys. Nested keys map to YAML sections and to environment
// variables with dots replaced by underscores, e.g.
// EXTRACT_DOCUMENTS_PARTITIONER_API_KEY.
const (
	keyVerbose     = "verbose"
	keyInputDir    = "input_dir"
	keyOutputDir   = "output_dir"
	keyStrategy    = "strategy"
	keyLanguages   = "languages"
	keyInferTables = "infer_table_structure"
	keyReport      = "report"
	keyJournal     = "journal"
	keyStrict      = "strict"
	keyBackend     = "partitioner.backend"
	keyAPIURL      = "partitioner.url"
	keyAPIKey      = "partitioner.api_key"
	keyTimeout     = "partitioner.timeout"
	keyMaxRetries  = "partitioner.max_retries"
	keyImage       = "partitioner.image"
)

// runOptions is everything a run needs beyond the partitioner itself.
type runOptions struct {
	Extraction  types.ExtractionConfig
	Partitioner types.PartitionerConfig
	ReportPath  string
	JournalPath string
	Strict      bool
}

// addExtractFlags registers the extraction flags on cmd and binds each to
// its config key.
func addExtractFlags(cmd *cobra.Command) {
	ec := types.DefaultExtractionConfig()
	pc := types.DefaultPartitionerConfig()
	f := cmd.Flags()

	f.String("input", ec.InputDir, "directory of documents to extract")
	f.String("output", ec.OutputDir, "directory for extracted .txt files (created if missing)")
	f.String("strategy", string(ec.Strategy), "partition strategy: auto, fast, hi_res, or ocr_only")
	f.StringSlice("languages", ec.Languages, "OCR language hints (Tesseract codes)")
	f.Bool("infer-tables", ec.InferTableStructure, "infer table structure")
	f.String("backend", string(pc.Backend), "partitioner backend: api or container")
	f.String("api-url", pc.URL, "partition API endpoint")
	f.Duration("timeout", pc.Timeout, "timeout for a single partition request")
	f.Int("max-retries", pc.MaxRetries, "retries on rate-limited or overloaded responses (0 disables)")
	f.String("image", pc.Image, "partition container image")
	f.String("report", "", "write a YAML batch report to this path")
	f.String("journal", "", "record runs in this SQLite journal")
	f.Bool("strict", false, "exit non-zero when any file fails")

	for key, flag := range map[string]string{
		keyInputDir:    "input",
		keyOutputDir:   "output",
		keyStrategy:    "strategy",
		keyLanguages:   "languages",
		keyInferTables: "infer-tables",
		keyBackend:     "backend",
		keyAPIURL:      "api-url",
		keyTimeout:     "timeout",
		keyMaxRetries:  "max-retries",
		keyImage:       "image",
		keyReport:      "report",
		keyJournal:     "journal",
		keyStrict:      "strict",
	} {
		mustBind(key, f.Lookup(flag))
	}
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// setDefaults registers the built-in defaults on v so values resolve even
// when no flags are bound.
func setDefaults(v *viper.Viper) {
	ec := types.DefaultExtractionConfig()
	pc := types.DefaultPartitionerConfig()

	v.SetDefault(keyInputDir, ec.InputDir)
	v.SetDefault(keyOutputDir, ec.OutputDir)
	v.SetDefault(keyStrategy, string(ec.Strategy))
	v.SetDefault(keyLanguages, ec.Languages)
	v.SetDefault(keyInferTables, ec.InferTableStructure)
	v.SetDefault(keyBackend, string(pc.Backend))
	v.SetDefault(keyAPIURL, pc.URL)
	v.SetDefault(keyTimeout, pc.Timeout)
	v.SetDefault(keyMaxRetries, pc.MaxRetries)
	v.SetDefault(keyImage, pc.Image)
}

// loadOptions resolves run options from v (flags, environment, config file,
// then defaults).
func loadOptions(v *viper.Viper) (runOptions, error) {
	setDefaults(v)

	ec := types.DefaultExtractionConfig()
	ec.InputDir = v.GetString(keyInputDir)
	ec.OutputDir = v.GetString(keyOutputDir)
	ec.Strategy = types.Strategy(v.GetString(keyStrategy))
	ec.Languages = splitList(v.GetStringSlice(keyLanguages))
	ec.InferTableStructure = v.GetBool(keyInferTables)

	switch ec.Strategy {
	case types.StrategyAuto, types.StrategyFast, types.StrategyHiRes, types.StrategyOCROnly:
	default:
		return runOptions{}, fmt.Errorf("unknown strategy %q (want auto, fast, hi_res, or ocr_only)", ec.Strategy)
	}

	pc := types.PartitionerConfig{
		Backend:    types.PartitionerBackend(v.GetString(keyBackend)),
		URL:        v.GetString(keyAPIURL),
		APIKey:     v.GetString(keyAPIKey),
		Timeout:    v.GetDuration(keyTimeout),
		MaxRetries: v.GetInt(keyMaxRetries),
		Image:      v.GetString(keyImage),
	}

	return runOptions{
		Extraction:  ec,
		Partitioner: pc,
		ReportPath:  v.GetString(keyReport),
		JournalPath: v.GetString(keyJournal),
		Strict:      v.GetBool(keyStrict),
	}, nil
}

// splitList flattens comma-separated entries. Environment values reach
// viper as one string that it splits on whitespace only, so "eng,deu"
// arrives as a single entry.
func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
