// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package partition hands documents to an Unstructured-compatible
// partitioning service and decodes the ordered content elements it returns.
// Two backends exist: an HTTP client for the partition API and a container
// image driven through docker or podman.
package partition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/extract-documents/internal/container"
	"github.com/pdiddy/extract-documents/pkg/types"
)

// ErrUnsupportedFormat is wrapped by partition errors caused by a file type
// the partitioner does not handle.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Partitioner decomposes a document into an ordered sequence of elements.
type Partitioner interface {
	// Partition reads the document at path and returns its elements in
	// document order. The call may block for a long time on OCR.
	Partition(ctx context.Context, path string, opts types.PartitionOptions) ([]types.Element, error)
}

// New builds the partitioner selected by cfg.Backend.
func New(cfg types.PartitionerConfig) (Partitioner, error) {
	switch cfg.Backend {
	case types.BackendAPI, "":
		client := &http.Client{Timeout: cfg.Timeout}
		return NewAPIPartitioner(client, cfg), nil
	case types.BackendContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewContainerPartitioner(rt, cfg.Image)
	default:
		return nil, fmt.Errorf("unknown partitioner backend %q (want %s or %s)",
			cfg.Backend, types.BackendAPI, types.BackendContainer)
	}
}

// decodeElements parses a JSON array of elements.
func decodeElements(r io.Reader) ([]types.Element, error) {
	var elements []types.Element
	if err := json.NewDecoder(r).Decode(&elements); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("partitioner returned no output")
		}
		return nil, fmt.Errorf("decoding elements: %w", err)
	}
	return elements, nil
}

// unsupportedMarkers are phrases partitioners use when rejecting a file type.
var unsupportedMarkers = []string{
	"not supported",
	"unsupported file type",
	"unsupported filetype",
	"filetype none",
}

// isUnsupported reports whether an error detail describes an unsupported
// file type.
func isUnsupported(detail string) bool {
	d := strings.ToLower(detail)
	for _, m := range unsupportedMarkers {
		if strings.Contains(d, m) {
			return true
		}
	}
	return false
}
