// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Strategy selects how the partitioner processes a document.
type Strategy string

const (
	StrategyAuto    Strategy = "auto"
	StrategyFast    Strategy = "fast"
	StrategyHiRes   Strategy = "hi_res"
	StrategyOCROnly Strategy = "ocr_only"
)

// PartitionOptions carries the per-file request sent to the partitioner.
type PartitionOptions struct {
	// Strategy is the processing mode (default hi_res).
	Strategy Strategy `json:"strategy" yaml:"strategy"`

	// Languages lists OCR language hints as Tesseract codes (default ["eng"]).
	Languages []string `json:"languages" yaml:"languages"`

	// InferTableStructure asks the partitioner to recover row/column
	// structure of tables.
	InferTableStructure bool `json:"infer_table_structure" yaml:"infer_table_structure"`
}

// PartitionerBackend identifies where partitioning runs.
type PartitionerBackend string

const (
	BackendAPI       PartitionerBackend = "api"
	BackendContainer PartitionerBackend = "container"
)

// PartitionerConfig holds settings for the partitioner backends.
type PartitionerConfig struct {
	// Backend selects the partitioner: api or container.
	Backend PartitionerBackend `json:"backend" yaml:"backend"`

	// URL is the partition endpoint used by the api backend.
	URL string `json:"url" yaml:"url"`

	// APIKey is sent as the unstructured-api-key header when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds a single partition request (default 10m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retries on 429/503 responses (default 5).
	// Zero disables retries; a negative value uses the default.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image"`
}

// ExtractionConfig holds settings for one batch extraction run.
type ExtractionConfig struct {
	PartitionOptions `yaml:",inline"`

	// InputDir is the directory scanned for documents (default "documents").
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives one text file per input (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// OutputExt replaces each input file's extension (default ".txt").
	OutputExt string `json:"output_ext" yaml:"output_ext"`

	// Separator joins element renderings (default a blank line).
	Separator string `json:"separator" yaml:"separator"`
}

const (
	DefaultInputDir   = "documents"
	DefaultOutputDir  = "output"
	DefaultOutputExt  = ".txt"
	DefaultSeparator  = "\n\n"
	DefaultAPIURL     = "http://localhost:8000/general/v0/general"
	DefaultImage      = "unstructured-partition:latest"
	DefaultTimeout    = 10 * time.Minute
	DefaultMaxRetries = 5
)

// DefaultExtractionConfig returns the settings used when nothing is
// configured: documents/ to output/, hi_res, English, table inference on.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		PartitionOptions: PartitionOptions{
			Strategy:            StrategyHiRes,
			Languages:           []string{"eng"},
			InferTableStructure: true,
		},
		InputDir:  DefaultInputDir,
		OutputDir: DefaultOutputDir,
		OutputExt: DefaultOutputExt,
		Separator: DefaultSeparator,
	}
}

// DefaultPartitionerConfig returns api-backend settings for a local
// partition server.
func DefaultPartitionerConfig() PartitionerConfig {
	return PartitionerConfig{
		Backend:    BackendAPI,
		URL:        DefaultAPIURL,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		Image:      DefaultImage,
	}
}
