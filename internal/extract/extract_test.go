// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/extract-documents/internal/partition"
	"github.com/pdiddy/extract-documents/pkg/types"
)

// fakePartitioner returns canned elements per filename, or an error.
type fakePartitioner struct {
	elements map[string][]string
	errors   map[string]error
	calls    []string
	gotOpts  []types.PartitionOptions
}

func (f *fakePartitioner) Partition(_ context.Context, path string, opts types.PartitionOptions) ([]types.Element, error) {
	name := filepath.Base(path)
	f.calls = append(f.calls, name)
	f.gotOpts = append(f.gotOpts, opts)
	if err, ok := f.errors[name]; ok {
		return nil, err
	}
	texts, ok := f.elements[name]
	if !ok {
		return nil, errors.New("unexpected file: " + name)
	}
	out := make([]types.Element, len(texts))
	for i, s := range texts {
		out[i] = types.Element{Type: types.ElementNarrativeText, Text: s}
	}
	return out, nil
}

// setupDirs creates an input directory holding the named files and returns
// a config pointing at it and a not-yet-created output directory.
func setupDirs(t *testing.T, names ...string) types.ExtractionConfig {
	t.Helper()
	tmpDir := t.TempDir()
	inDir := filepath.Join(tmpDir, "documents")
	if err := os.MkdirAll(inDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(inDir, name), []byte("doc"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := types.DefaultExtractionConfig()
	cfg.InputDir = inDir
	cfg.OutputDir = filepath.Join(tmpDir, "nested", "output")
	return cfg
}

func readOutput(t *testing.T, cfg types.ExtractionConfig, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
	if err != nil {
		t.Fatalf("reading output %s: %v", name, err)
	}
	return string(data)
}

func TestExtractAndSave_IsolatesFailures(t *testing.T) {
	cfg := setupDirs(t, "a.pdf", "corrupt.pdf", "b.docx")
	p := &fakePartitioner{
		elements: map[string][]string{
			"a.pdf":  {"Title", "Paragraph one.", "Table data"},
			"b.docx": {"Memo"},
		},
		errors: map[string]error{
			"corrupt.pdf": errors.New("PDF header not found"),
		},
	}

	var log bytes.Buffer
	report, err := ExtractAndSave(context.Background(), p, cfg, &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readOutput(t, cfg, "a.txt"); got != "Title\n\nParagraph one.\n\nTable data" {
		t.Errorf("a.txt = %q", got)
	}
	if got := readOutput(t, cfg, "b.txt"); got != "Memo" {
		t.Errorf("b.txt = %q", got)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "corrupt.txt")); !os.IsNotExist(err) {
		t.Errorf("corrupt.txt should not exist, stat err = %v", err)
	}

	if report.Condition != types.BatchOK {
		t.Errorf("condition = %q, want %q", report.Condition, types.BatchOK)
	}
	if report.Extracted() != 2 || report.Failed() != 1 || report.Total() != 3 {
		t.Errorf("counts extracted=%d failed=%d total=%d, want 2/1/3",
			report.Extracted(), report.Failed(), report.Total())
	}
	if !report.HasFailures() {
		t.Error("HasFailures should be true")
	}

	// Sorted order: a.pdf, b.docx, corrupt.pdf.
	wantCalls := []string{"a.pdf", "b.docx", "corrupt.pdf"}
	if strings.Join(p.calls, ",") != strings.Join(wantCalls, ",") {
		t.Errorf("calls = %v, want %v", p.calls, wantCalls)
	}

	out := log.String()
	for _, want := range []string{
		"Processing a.pdf...\n",
		"Successfully saved extracted text to " + filepath.Join(cfg.OutputDir, "a.txt") + "\n",
		"--- ERROR processing corrupt.pdf: PDF header not found ---\n",
		"Processing b.docx...\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}
}

func TestExtractAndSave_PassesPartitionOptions(t *testing.T) {
	cfg := setupDirs(t, "scan.png")
	p := &fakePartitioner{elements: map[string][]string{"scan.png": {"x"}}}

	if _, err := ExtractAndSave(context.Background(), p, cfg, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	if len(p.gotOpts) != 1 {
		t.Fatalf("partitioner called %d times, want 1", len(p.gotOpts))
	}
	opts := p.gotOpts[0]
	if opts.Strategy != types.StrategyHiRes {
		t.Errorf("strategy = %q, want hi_res", opts.Strategy)
	}
	if len(opts.Languages) != 1 || opts.Languages[0] != "eng" {
		t.Errorf("languages = %v, want [eng]", opts.Languages)
	}
	if !opts.InferTableStructure {
		t.Error("table structure inference should be enabled")
	}
}

func TestExtractAndSave_InputMissing(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := types.DefaultExtractionConfig()
	cfg.InputDir = filepath.Join(tmpDir, "documents")
	cfg.OutputDir = filepath.Join(tmpDir, "output")

	var log bytes.Buffer
	report, err := ExtractAndSave(context.Background(), &fakePartitioner{}, cfg, &log)
	if err != nil {
		t.Fatalf("missing input should not be an error, got %v", err)
	}
	if report.Condition != types.BatchInputMissing {
		t.Errorf("condition = %q, want %q", report.Condition, types.BatchInputMissing)
	}
	want := fmt.Sprintf("Error: The input directory '%s' was not found.\n", cfg.InputDir)
	if log.String() != want {
		t.Errorf("log = %q, want %q", log.String(), want)
	}

	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatalf("output dir should still be created: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries, want 0", len(entries))
	}
}

func TestExtractAndSave_NoFiles(t *testing.T) {
	cfg := setupDirs(t)
	if err := os.Mkdir(filepath.Join(cfg.InputDir, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := &fakePartitioner{}
	var log bytes.Buffer
	report, err := ExtractAndSave(context.Background(), p, cfg, &log)
	if err != nil {
		t.Fatal(err)
	}
	if report.Condition != types.BatchNoFiles {
		t.Errorf("condition = %q, want %q", report.Condition, types.BatchNoFiles)
	}
	if len(p.calls) != 0 {
		t.Errorf("partitioner called for %v", p.calls)
	}
	if !strings.Contains(log.String(), "No files found in the '"+cfg.InputDir+"' directory.") {
		t.Errorf("log = %q", log.String())
	}
	entries, _ := os.ReadDir(cfg.OutputDir)
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries, want 0", len(entries))
	}
}

func TestExtractAndSave_OverwritesOnRerun(t *testing.T) {
	cfg := setupDirs(t, "report.PDF")
	p := &fakePartitioner{elements: map[string][]string{"report.PDF": {"first"}}}

	if _, err := ExtractAndSave(context.Background(), p, cfg, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	p.elements["report.PDF"] = []string{"second", "run"}
	if _, err := ExtractAndSave(context.Background(), p, cfg, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	if got := readOutput(t, cfg, "report.txt"); got != "second\n\nrun" {
		t.Errorf("report.txt = %q, want second run content", got)
	}
	entries, _ := os.ReadDir(cfg.OutputDir)
	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want 1 (no temp files left)", len(entries))
	}
}

func TestExtractAndSave_UnsupportedStatus(t *testing.T) {
	cfg := setupDirs(t, "archive.xyz")
	p := &fakePartitioner{
		errors: map[string]error{
			"archive.xyz": fmt.Errorf("%w: HTTP 415", partition.ErrUnsupportedFormat),
		},
	}

	report, err := ExtractAndSave(context.Background(), p, cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Unsupported() != 1 || report.Failed() != 0 {
		t.Errorf("unsupported=%d failed=%d, want 1/0", report.Unsupported(), report.Failed())
	}
	if report.Files[0].Error == "" {
		t.Error("error detail should be recorded")
	}
}

func TestExtractAndSave_Cancelled(t *testing.T) {
	cfg := setupDirs(t, "a.pdf", "b.pdf")
	p := &fakePartitioner{elements: map[string][]string{"a.pdf": {"A"}, "b.pdf": {"B"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := ExtractAndSave(ctx, p, cfg, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(p.calls) != 0 || report.Total() != 0 {
		t.Errorf("no file should be processed after cancellation, got %v", p.calls)
	}
}

func TestExtractFile_WriteFailure(t *testing.T) {
	cfg := setupDirs(t, "a.pdf")
	// Output directory is a regular file, so the write must fail.
	if err := os.MkdirAll(filepath.Dir(cfg.OutputDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.OutputDir, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &fakePartitioner{elements: map[string][]string{"a.pdf": {"A"}}}
	var log bytes.Buffer
	result := ExtractFile(context.Background(), p, cfg, "a.pdf", &log)

	if result.Status != types.FileFailed {
		t.Errorf("status = %q, want failed", result.Status)
	}
	if result.Elements != 1 {
		t.Errorf("elements = %d, want 1", result.Elements)
	}
	if !strings.Contains(log.String(), "--- ERROR processing a.pdf:") {
		t.Errorf("log = %q", log.String())
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.docx", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "b.pdf"), filepath.Join(dir, "link.pdf")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "linkdir")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling")); err != nil {
		t.Fatal(err)
	}

	got, err := ListFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{".hidden", "a.docx", "b.pdf", "link.pdf"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ListFiles = %v, want %v", got, want)
	}

	if _, err := ListFiles(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing dir error = %v, want ErrNotExist", err)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.PDF", "report.txt"},
		{"notes", "notes.txt"},
		{"archive.tar.gz", "archive.tar.txt"},
		{".env", ".env.txt"},
		{"..odd", "..odd.txt"},
		{".config.yaml", ".config.txt"},
		{"trailing.", "trailing.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := OutputName(tt.in, ".txt"); got != tt.want {
				t.Errorf("OutputName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
