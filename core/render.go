package core

import (
	"strconv"
	"strings"

	"github.com/huangsam/kpidash/core/algo"
	"github.com/huangsam/kpidash/schema"
)

// Table names shared by every category.
const (
	SummaryTable = "summary"
	DetailTable  = "detail"
	RollingTable = "rolling"
)

// TotalLabel labels totals rows.
const TotalLabel = "Total"

// Options holds settings that affect rendering but not the data.
type Options struct {
	JiraURL    string // Issue tracker base URL; empty disables links
	WindowSize int    // Rolling window in months; 0 means algo.DefaultWindowSize
	GraceDays  int    // Quarter grace period in days; 0 means algo.DefaultGraceDays
}

func (o Options) windowSize() int {
	if o.WindowSize <= 0 {
		return algo.DefaultWindowSize
	}
	return o.WindowSize
}

func (o Options) graceDays() int {
	if o.GraceDays <= 0 {
		return algo.DefaultGraceDays
	}
	return o.GraceDays
}

// Render builds the dashboard for a snapshot. It returns view with every
// category's partition and the lead time scope resolved to what was rendered.
func Render(snap *schema.Snapshot, view schema.ViewState, opts Options) (schema.Dashboard, schema.ViewState) {
	dash := schema.Dashboard{}
	if snap == nil {
		return dash, view
	}
	dash.SnapshotID = snap.ID
	dash.LoadedAt = snap.LoadedAt

	resolved := view
	for _, c := range schema.AllCategories {
		cv := RenderCategory(snap, c, resolved, opts)
		dash.Categories = append(dash.Categories, cv)
		resolved = resolveView(resolved, cv)
	}
	return dash, resolved
}

// RenderCategory builds a single category of the dashboard.
func RenderCategory(snap *schema.Snapshot, c schema.Category, view schema.ViewState, opts Options) schema.CategoryView {
	var cv schema.CategoryView
	switch c {
	case schema.IncidentsCategory:
		cv = BuildIncidents(snap.Incidents, view.Partition(c), opts)
	case schema.TechDebtCategory:
		cv = BuildTechDebt(snap.TechDebt, view.Partition(c), opts)
	case schema.CycleTimeCategory:
		cv = BuildCycleTime(snap.CycleTime, opts)
	case schema.LeadTimeCategory:
		cv = BuildLeadTime(snap.LeadTime, view.Scope, view.Partition(c), opts)
	default:
		return schema.CategoryView{Category: c}
	}
	cv.Origin = snap.Origins[c]
	return cv
}

// resolveView records the partition and scope a category was rendered with.
func resolveView(view schema.ViewState, cv schema.CategoryView) schema.ViewState {
	if cv.ActivePartition != "" {
		view = view.WithPartition(cv.Category, cv.ActivePartition)
	}
	if cv.ActiveScope != "" {
		view = view.WithScope(cv.ActiveScope)
	}
	return view
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func joinLabels(labels []string) string {
	return strings.Join(labels, ", ")
}
