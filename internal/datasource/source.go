// Package datasource loads the metric category documents into a snapshot.
package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/schema"
)

// maxDocumentBytes caps how much of a document is read.
const maxDocumentBytes = 16 << 20

// FileSource reads category documents from a local directory.
type FileSource struct {
	Dir string
}

var _ contract.Source = &FileSource{} // Compile-time check

// NewFileSource creates a source that reads from dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

// Fetch implements the Source interface.
func (s *FileSource) Fetch(ctx context.Context, category schema.Category) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, ok := schema.CategoryFiles[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Location implements the Source interface.
func (s *FileSource) Location() string {
	return s.Dir
}

// HTTPSource fetches category documents relative to a base URL.
type HTTPSource struct {
	BaseURL    string
	httpClient *http.Client
}

var _ contract.Source = &HTTPSource{} // Compile-time check

// NewHTTPSource creates a source for baseURL with a fixed request timeout.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = contract.DefaultTimeout
	}
	return &HTTPSource{
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch implements the Source interface.
func (s *HTTPSource) Fetch(ctx context.Context, category schema.Category) ([]byte, error) {
	name, ok := schema.CategoryFiles[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	url := fmt.Sprintf("%s/%s", s.BaseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.httpClient
	if client == nil {
		client = &http.Client{Timeout: contract.DefaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned %d for %s", resp.StatusCode, name)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}

// Location implements the Source interface.
func (s *HTTPSource) Location() string {
	return s.BaseURL
}

// NewSource selects the source described by the config, or nil when no
// source is configured and only fallback data should be used.
func NewSource(cfg *contract.Config) contract.Source {
	switch {
	case cfg.Source == "":
		return nil
	case cfg.Remote:
		return NewHTTPSource(cfg.Source, cfg.Timeout)
	default:
		return NewFileSource(cfg.Source)
	}
}
