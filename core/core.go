// Package core derives dashboard tables, totals and trend cells from metric snapshots.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/internal/datasource"
	"github.com/huangsam/kpidash/internal/outwriter"
	"github.com/huangsam/kpidash/schema"
)

// ExecutorFunc defines the function signature for executing the dashboard commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// OptionsFromConfig extracts the rendering options from a validated config.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{
		JiraURL:    cfg.JiraURL,
		WindowSize: cfg.WindowSize,
	}
}

// ViewFromConfig builds the initial view state. A requested partition applies
// to the given categories only, since period keys differ between categories.
func ViewFromConfig(cfg *contract.Config, categories ...schema.Category) schema.ViewState {
	view := schema.ViewState{Scope: cfg.Scope}
	if cfg.Partition == "" {
		return view
	}
	for _, c := range categories {
		view = view.WithPartition(c, cfg.Partition)
	}
	return view
}

// LoadSnapshot loads every category from the configured source, with built-in data as fallback.
func LoadSnapshot(ctx context.Context, cfg *contract.Config) *schema.Snapshot {
	src := datasource.NewSource(cfg)
	if src != nil {
		slog.Debug("Loading snapshot", "source", src.Location())
	}
	return datasource.Load(ctx, src)
}

// GetDashboardResults loads a snapshot and renders the requested categories.
// An empty category list renders all of them.
func GetDashboardResults(ctx context.Context, cfg *contract.Config, categories ...schema.Category) (schema.Dashboard, schema.ViewState, error) {
	for _, c := range categories {
		if _, ok := schema.ValidCategories[c]; !ok {
			return schema.Dashboard{}, schema.ViewState{}, fmt.Errorf("unknown category %q", c)
		}
	}
	if err := ctx.Err(); err != nil {
		return schema.Dashboard{}, schema.ViewState{}, err
	}

	snap := LoadSnapshot(ctx, cfg)
	opts := OptionsFromConfig(cfg)

	if len(categories) == 0 {
		dash, view := Render(snap, ViewFromConfig(cfg), opts)
		return dash, view, nil
	}
	return RenderSelected(snap, ViewFromConfig(cfg, categories...), opts, categories...)
}

// RenderSelected renders a subset of categories in the canonical category order.
func RenderSelected(snap *schema.Snapshot, view schema.ViewState, opts Options, categories ...schema.Category) (schema.Dashboard, schema.ViewState, error) {
	if snap == nil {
		return schema.Dashboard{}, view, fmt.Errorf("no snapshot loaded")
	}
	dash := schema.Dashboard{SnapshotID: snap.ID, LoadedAt: snap.LoadedAt}
	for _, c := range schema.AllCategories {
		if !slices.Contains(categories, c) {
			continue
		}
		cv := RenderCategory(snap, c, view, opts)
		dash.Categories = append(dash.Categories, cv)
		view = resolveView(view, cv)
	}
	return dash, view, nil
}

// ExecuteDashboard renders every category and writes it in the configured format.
// It serves as the main entry point for the 'dashboard' command.
func ExecuteDashboard(ctx context.Context, cfg *contract.Config) error {
	dash, _, err := GetDashboardResults(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDashboard(dash, cfg)
}

// ExecuteCategory returns the entry point for a single-category command.
func ExecuteCategory(c schema.Category) ExecutorFunc {
	return func(ctx context.Context, cfg *contract.Config) error {
		dash, _, err := GetDashboardResults(ctx, cfg, c)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteDashboard(dash, cfg)
	}
}
