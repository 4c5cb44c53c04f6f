// Package contract provides interfaces and shared utilities for kpidash's internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/kpidash/schema"
)

// Source supplies the raw JSON document of a metric category.
// This allows the loader to be tested without a real directory or server.
type Source interface {
	// Fetch returns the document for a category. Implementations must be safe
	// for concurrent use since categories are fetched in parallel.
	Fetch(ctx context.Context, category schema.Category) ([]byte, error)

	// Location describes where documents come from, for log messages.
	Location() string
}
