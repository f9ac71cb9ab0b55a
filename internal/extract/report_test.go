package extract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/extract-documents/pkg/types"
)

func TestWriteReport(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	report := types.BatchReport{
		InputDir:   "documents",
		OutputDir:  "output",
		Condition:  types.BatchOK,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Files: []types.FileResult{
			{Name: "a.pdf", OutputPath: "output/a.txt", Status: types.FileExtracted, Elements: 12, Duration: 80 * time.Second},
			{Name: "x.bin", OutputPath: "output/x.txt", Status: types.FileUnsupported, Error: "unsupported document format"},
		},
	}

	path := filepath.Join(t.TempDir(), "reports", "run.yaml")
	require.NoError(t, WriteReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "condition: ok")
	assert.Contains(t, string(data), "status: unsupported")
	assert.Contains(t, string(data), "duration: 1m20s")

	got, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Extracted())
	assert.Equal(t, 1, got.Unsupported())
	assert.True(t, got.FinishedAt.Equal(report.FinishedAt))
}

func TestReadReport_Errors(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading report")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("files: [unterminated"), 0o644))
	_, err = ReadReport(bad)
	assert.ErrorContains(t, err, "parsing report")
}
