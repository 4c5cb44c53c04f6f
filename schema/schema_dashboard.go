package schema

import (
	"maps"
	"time"
)

// Cell is a single display-ready value with its classification.
type Cell struct {
	Value string    `json:"value"`           // Display text
	Raw   *float64  `json:"raw,omitempty"`   // Underlying number, nil when not applicable
	Class CellClass `json:"class,omitempty"` // Color class, empty for plain cells
	Tier  Tier      `json:"tier,omitempty"`  // Reduction tier (tech debt only)
	URL   string    `json:"url,omitempty"`   // Issue tracker link, empty when not linked
}

// Row is a table row: a label (team, quarter or epic), an optional owner and its cells.
type Row struct {
	Label    string `json:"label"`
	LabelURL string `json:"label_url,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Cells    []Cell `json:"cells"`
}

// Table is a rendered table. Columns name the cells of each row in order.
type Table struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	LabelName  string   `json:"label_name"`
	OwnerName  string   `json:"owner_name,omitempty"`
	Columns    []string `json:"columns"`
	Rows       []Row    `json:"rows"`
	Totals     *Row     `json:"totals,omitempty"`
	Annotation string   `json:"annotation,omitempty"`
}

// CategoryView is everything rendered for one category under a view state.
type CategoryView struct {
	Category        Category `json:"category"`
	Title           string   `json:"title"`
	Origin          Origin   `json:"origin"`
	Partitions      []string `json:"partitions,omitempty"`
	ActivePartition string   `json:"active_partition,omitempty"`
	Scopes          []string `json:"scopes,omitempty"`
	ActiveScope     string   `json:"active_scope,omitempty"`
	Tables          []Table  `json:"tables"`
}

// Dashboard is the rendered model for a snapshot.
type Dashboard struct {
	SnapshotID string         `json:"snapshot_id"`
	LoadedAt   time.Time      `json:"loaded_at"`
	Categories []CategoryView `json:"categories"`
}

// ViewState is the caller-held display selection. Render returns it with defaults resolved.
type ViewState struct {
	Partitions map[Category]string `json:"partitions,omitempty"`
	Scope      string              `json:"scope,omitempty"`
}

// Partition returns the selected partition for a category, or "".
func (v ViewState) Partition(c Category) string {
	return v.Partitions[c]
}

// WithPartition returns a copy of v selecting key for c. The previous selection is overwritten.
func (v ViewState) WithPartition(c Category, key string) ViewState {
	next := ViewState{Scope: v.Scope, Partitions: make(map[Category]string, len(v.Partitions)+1)}
	maps.Copy(next.Partitions, v.Partitions)
	next.Partitions[c] = key
	return next
}

// WithScope returns a copy of v selecting a lead time scope.
func (v ViewState) WithScope(scope string) ViewState {
	return ViewState{Scope: scope, Partitions: maps.Clone(v.Partitions)}
}
