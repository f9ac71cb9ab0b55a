// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/extract-documents/pkg/types"
)

// WriteReport writes the batch report as YAML to path, creating parent
// directories as needed.
func WriteReport(path string, report types.BatchReport) error {
	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (types.BatchReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.BatchReport{}, fmt.Errorf("reading report %s: %w", path, err)
	}
	var report types.BatchReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return types.BatchReport{}, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return report, nil
}
