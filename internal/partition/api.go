// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/extract-documents/internal/httputil"
	"github.com/pdiddy/extract-documents/pkg/types"
)

const (
	headerAPIKey = "unstructured-api-key"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 * 1024
)

// APIError is a non-2xx response from the partition endpoint.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("partition API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("partition API returned HTTP %d: %s", e.StatusCode, e.Detail)
}

// APIPartitioner posts documents to an Unstructured partition endpoint
// (POST /general/v0/general) as multipart form uploads.
type APIPartitioner struct {
	client     *http.Client
	url        string
	apiKey     string
	maxRetries int
}

// NewAPIPartitioner creates a partitioner that sends requests with client to
// cfg.URL. An empty URL falls back to the local default endpoint.
func NewAPIPartitioner(client *http.Client, cfg types.PartitionerConfig) *APIPartitioner {
	url := cfg.URL
	if url == "" {
		url = types.DefaultAPIURL
	}
	return &APIPartitioner{
		client:     client,
		url:        url,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
	}
}

// Partition uploads the file at path and decodes the element list from the
// response. Rate limiting and overload responses are retried.
func (a *APIPartitioner) Partition(ctx context.Context, path string, opts types.PartitionOptions) ([]types.Element, error) {
	body, contentType, err := buildForm(path, opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building partition request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if a.apiKey != "" {
		req.Header.Set(headerAPIKey, a.apiKey)
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, a.client, req, a.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("partition request for %s: %w", filepath.Base(path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp)
	}

	elements, err := decodeElements(resp.Body)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("file", filepath.Base(path)).
		Int("elements", len(elements)).
		Dur("took", time.Since(start)).
		Msg("partitioned via API")
	return elements, nil
}

// buildForm encodes the document and partition options as multipart form
// data. The whole body is buffered so retries can replay it.
func buildForm(path string, opts types.PartitionOptions) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}

	fields := [][2]string{}
	if opts.Strategy != "" {
		fields = append(fields, [2]string{"strategy", string(opts.Strategy)})
	}
	for _, lang := range opts.Languages {
		fields = append(fields, [2]string{"languages", lang})
	}
	fields = append(fields, [2]string{"pdf_infer_table_structure", strconv.FormatBool(opts.InferTableStructure)})
	if opts.InferTableStructure {
		// An empty skip list extends table inference beyond PDFs and images.
		fields = append(fields, [2]string{"skip_infer_table_types", "[]"})
	}

	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("writing form field %s: %w", kv[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

// responseError converts a non-2xx response into an error, wrapping
// ErrUnsupportedFormat when the server rejected the file type.
func responseError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Detail:     errorDetail(data),
	}

	switch {
	case resp.StatusCode == http.StatusUnsupportedMediaType:
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, apiErr)
	case (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity) &&
		isUnsupported(apiErr.Detail):
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, apiErr)
	}
	return apiErr
}

// errorDetail extracts the "detail" field of a JSON error body. Validation
// errors carry a list instead of a string; anything unparseable is returned
// as trimmed text.
func errorDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(data))
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &list); err == nil && len(list) > 0 {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(body.Detail)
}
