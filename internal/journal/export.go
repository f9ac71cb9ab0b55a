// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/extract-documents/pkg/types"
)

// ExportEntry is a run with its file results, as written by ExportYAML.
type ExportEntry struct {
	Run   `yaml:",inline"`
	Files []types.FileResult `json:"files" yaml:"files"`
}

// ExportYAML writes the limit most recent runs, with their files, to path.
func (s *Store) ExportYAML(ctx context.Context, path string, limit int) error {
	runs, err := s.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(runs))
	for i, r := range runs {
		files, err := s.Files(ctx, r.ID)
		if err != nil {
			return err
		}
		entries[i] = ExportEntry{Run: r, Files: files}
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
