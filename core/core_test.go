package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/internal/datasource"
	"github.com/huangsam/kpidash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFallbackSnapshot(t *testing.T) {
	snap := datasource.LoadFallback(context.Background())
	view := schema.ViewState{}

	dash, resolved := Render(snap, view, Options{})
	assert.Equal(t, snap.ID, dash.SnapshotID)
	require.Len(t, dash.Categories, len(schema.AllCategories))
	for i, c := range schema.AllCategories {
		assert.Equal(t, c, dash.Categories[i].Category)
		assert.Equal(t, schema.FallbackOrigin, dash.Categories[i].Origin)
		assert.NotEmpty(t, dash.Categories[i].Tables)
	}

	assert.Nil(t, view.Partitions, "the caller's view is not modified")
	assert.Equal(t, "FY25 Q3", resolved.Partition(schema.IncidentsCategory))
	assert.Equal(t, schema.LegacyScopeKey, resolved.Scope)
	assert.Empty(t, resolved.Partition(schema.CycleTimeCategory))
}

func TestRenderIncidentsScenario(t *testing.T) {
	snap := datasource.LoadFallback(context.Background())
	view := schema.ViewState{}.WithPartition(schema.IncidentsCategory, "FY25 Q2")

	cv := RenderCategory(snap, schema.IncidentsCategory, view, Options{})
	detail := cv.Tables[1]
	payments := detail.Rows[0].Cells
	assert.Equal(t, "Payments", detail.Rows[0].Label)
	assert.Equal(t, "2.22%", payments[3].Value)
	assert.Equal(t, "↓ 0%", payments[4].Value)
	assert.Equal(t, schema.Favorable, payments[4].Class)
}

func TestRenderTechDebtScenario(t *testing.T) {
	snap := datasource.LoadFallback(context.Background())
	view := schema.ViewState{}.WithPartition(schema.TechDebtCategory, "FY25 Q1")

	cv := RenderCategory(snap, schema.TechDebtCategory, view, Options{})
	payments := cv.Tables[1].Rows[0].Cells
	assert.Equal(t, "13%", payments[4].Value)
	assert.Equal(t, schema.Unfavorable, payments[4].Class)
}

func TestRenderCycleTimeScenario(t *testing.T) {
	snap := datasource.LoadFallback(context.Background())
	cv := RenderCategory(snap, schema.CycleTimeCategory, schema.ViewState{}, Options{WindowSize: 3})
	require.Len(t, cv.Tables, 3)

	months := []string{"2024-07", "2024-08", "2024-09", "2024-10", "2024-11", "2024-12"}
	rolling := cv.Tables[1]
	assert.Equal(t, months, rolling.Columns)

	// July averages the April-June baseline months that precede it.
	payments := rolling.Rows[0].Cells
	assert.Equal(t, "Payments", rolling.Rows[0].Label)
	assert.Equal(t, "6d 12h 33m", payments[0].Value)
	assert.Equal(t, schema.Neutral, payments[0].Class)

	monthly := cv.Tables[0]
	assert.Equal(t, "6d 12h 33m", monthly.Rows[0].Cells[0].Value)
	assert.Equal(t, schema.Favorable, monthly.Rows[0].Cells[1].Class)

	stages := cv.Tables[2]
	assert.Equal(t, "Stage breakdown in 2024-12", stages.Title)
	assert.Equal(t, []string{"1d 4h", "9h 30m", "1d 2h 15m", "1d 14h 15m", "4d 6h"}, cellValues(stages.Rows[0].Cells))
	assert.Equal(t, "-", stages.Rows[2].Cells[0].Value, "Identity reports no stages")
	assert.Equal(t, "1d 1h", stages.Rows[2].Cells[4].Value)
	assert.Equal(t, "1d 2h", stages.Totals.Cells[0].Value)
	assert.Equal(t, "7h 45m", stages.Totals.Cells[1].Value)
}

func cellValues(cells []schema.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Value
	}
	return out
}

func TestRenderNilSnapshot(t *testing.T) {
	dash, view := Render(nil, schema.ViewState{Scope: "platform"}, Options{})
	assert.Empty(t, dash.Categories)
	assert.Equal(t, "platform", view.Scope)
}

func TestViewFromConfig(t *testing.T) {
	cfg := &contract.Config{Partition: "FY25 Q2", Scope: "product"}

	view := ViewFromConfig(cfg)
	assert.Equal(t, "product", view.Scope)
	assert.Empty(t, view.Partitions)

	view = ViewFromConfig(cfg, schema.IncidentsCategory, schema.TechDebtCategory)
	assert.Equal(t, "FY25 Q2", view.Partition(schema.IncidentsCategory))
	assert.Equal(t, "FY25 Q2", view.Partition(schema.TechDebtCategory))
	assert.Empty(t, view.Partition(schema.LeadTimeCategory))
}

func TestGetDashboardResults(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{WindowSize: 3}

	dash, _, err := GetDashboardResults(ctx, cfg, schema.LeadTimeCategory, schema.IncidentsCategory)
	require.NoError(t, err)
	require.Len(t, dash.Categories, 2)
	assert.Equal(t, schema.IncidentsCategory, dash.Categories[0].Category, "canonical order")
	assert.Equal(t, schema.LeadTimeCategory, dash.Categories[1].Category)

	_, _, err = GetDashboardResults(ctx, cfg, schema.Category("velocity"))
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = GetDashboardResults(cancelled, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteDashboardWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path, WindowSize: 3}
	require.NoError(t, ExecuteDashboard(context.Background(), cfg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var dash schema.Dashboard
	require.NoError(t, json.Unmarshal(content, &dash))
	assert.Len(t, dash.Categories, len(schema.AllCategories))

	path = filepath.Join(t.TempDir(), "cycle.json")
	cfg.OutputFile = path
	require.NoError(t, ExecuteCategory(schema.CycleTimeCategory)(context.Background(), cfg))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(content, &dash))
	require.Len(t, dash.Categories, 1)
	assert.Equal(t, schema.CycleTimeCategory, dash.Categories[0].Category)
}
