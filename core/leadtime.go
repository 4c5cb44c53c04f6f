package core

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/huangsam/kpidash/core/algo"
	"github.com/huangsam/kpidash/internal/jira"
	"github.com/huangsam/kpidash/schema"
)

// ResolveScope returns the selected scope when known, else the declared default,
// else the lexicographically last scope key.
func ResolveScope(ds schema.LeadTimeDataset, selected string) string {
	if ds == nil {
		return ""
	}
	return ResolvePartition(ds.ScopeKeys(), selected, ds.DeclaredDefault())
}

// GroupByQuarter returns the scope's epics by quarter. A scope without a
// by_quarter breakdown is grouped by the fiscal quarter of each epic's end date.
func GroupByQuarter(s schema.LeadTimeScope, graceDays int) map[string][]schema.LeadTimeEpic {
	if len(s.ByQuarter) > 0 {
		return s.ByQuarter
	}
	out := map[string][]schema.LeadTimeEpic{}
	for _, e := range s.Epics {
		q := algo.QuarterForEndDate(e.LeadTimeEnd, graceDays)
		out[q] = append(out[q], e)
	}
	return out
}

// scopeEpics returns every epic of a scope, flattening by_quarter when the list is absent.
func scopeEpics(s schema.LeadTimeScope) []schema.LeadTimeEpic {
	if len(s.Epics) > 0 || len(s.ByQuarter) == 0 {
		return s.Epics
	}
	var out []schema.LeadTimeEpic
	for _, q := range quarterOrder(s.ByQuarter) {
		out = append(out, s.ByQuarter[q]...)
	}
	return out
}

// ScopeSummary returns the recorded summary, or computes it from the epics.
func ScopeSummary(s schema.LeadTimeScope) schema.LeadTimeSummary {
	if s.Summary != nil {
		return *s.Summary
	}
	return algo.SummarizeLeadTimes(scopeEpics(s))
}

func quarterOrder(groups map[string][]schema.LeadTimeEpic) []string {
	keys := slices.Collect(maps.Keys(groups))
	algo.SortQuarterLabels(keys)
	return keys
}

// defaultQuarter is the latest quarter on the fiscal calendar, falling back to
// any quarter when no epic has a usable end date.
func defaultQuarter(order []string) string {
	var calendar []string
	for _, q := range order {
		if q != algo.NoEndDateQuarter && q != algo.UnknownQuarter {
			calendar = append(calendar, q)
		}
	}
	if len(calendar) > 0 {
		return DefaultPartition(calendar, "")
	}
	return DefaultPartition(order, "")
}

func daysCell(days *float64, decimals int) schema.Cell {
	if days == nil {
		return schema.NumberCell("-", nil, schema.NotApplicable)
	}
	return schema.NumberCell(strconv.FormatFloat(*days, 'f', decimals, 64), days, "")
}

func intDaysCell(days *int) schema.Cell {
	if days == nil {
		return schema.NumberCell("-", nil, schema.NotApplicable)
	}
	return schema.NumberCell(strconv.Itoa(*days), schema.IntToFloat(days), "")
}

// leadTimeTrendCell compares average lead times; higher is worse.
func leadTimeTrendCell(current, previous *float64) schema.Cell {
	if current == nil || previous == nil {
		return schema.NumberCell("-", nil, schema.Neutral)
	}
	trend := algo.ClassifyTrend(current, previous, false)
	diff := *current - *previous
	text := fmt.Sprintf("%+.1fd", diff)
	if arrow := algo.Arrow(trend.Direction); arrow != "" {
		text = arrow + " " + text
	} else {
		text = "0d"
	}
	return schema.NumberCell(text, schema.Float(diff), trend.Class)
}

// BuildLeadTime renders the lead time category for the selected scope and quarter.
func BuildLeadTime(ds schema.LeadTimeDataset, scope, partition string, opts Options) schema.CategoryView {
	view := schema.CategoryView{
		Category: schema.LeadTimeCategory,
		Title:    schema.CategoryTitles[schema.LeadTimeCategory],
	}
	if ds == nil {
		return view
	}

	view.Scopes = ds.ScopeKeys()
	view.ActiveScope = ResolveScope(ds, scope)
	s, ok := ds.Scope(view.ActiveScope)
	if !ok {
		return view
	}

	groups := GroupByQuarter(s, opts.graceDays())
	order := quarterOrder(groups)
	view.Partitions = order
	view.ActivePartition = ResolvePartition(order, partition, defaultQuarter(order))
	label := ds.ScopeLabel(view.ActiveScope)

	view.Tables = []schema.Table{
		leadTimeQuarters(label, s, groups, order),
		leadTimeEpics(groups[view.ActivePartition], view.ActivePartition, opts),
	}
	return view
}

func leadTimeQuarters(label string, s schema.LeadTimeScope, groups map[string][]schema.LeadTimeEpic, order []string) schema.Table {
	table := schema.Table{
		Name:      SummaryTable,
		Title:     "Lead time by quarter: " + label,
		LabelName: "Quarter",
		Columns:   []string{"Epics", "Avg days", "Median days", "Avg", "Median", "Trend"},
	}

	row := func(name string, summary schema.LeadTimeSummary, previous *float64) schema.Row {
		return schema.Row{
			Label: name,
			Cells: []schema.Cell{
				schema.NumberCell(strconv.Itoa(summary.TotalEpics), schema.Float(float64(summary.TotalEpics)), ""),
				daysCell(summary.AvgLeadTimeDays, 1),
				daysCell(summary.MedianLeadTimeDays, 1),
				schema.TextCell(algo.ReadableDays(summary.AvgLeadTimeDays)),
				schema.TextCell(algo.ReadableDays(summary.MedianLeadTimeDays)),
				leadTimeTrendCell(summary.AvgLeadTimeDays, previous),
			},
		}
	}

	var previous *float64
	for _, q := range order {
		summary := algo.SummarizeLeadTimes(groups[q])
		table.Rows = append(table.Rows, row(q, summary, previous))
		if q != algo.NoEndDateQuarter && q != algo.UnknownQuarter && summary.AvgLeadTimeDays != nil {
			previous = summary.AvgLeadTimeDays
		}
	}

	totals := row(TotalLabel, ScopeSummary(s), nil)
	table.Totals = &totals

	overall := ScopeSummary(s)
	table.Annotation = fmt.Sprintf("%d of %d epics have a lead time", overall.EpicsWithLeadTime, overall.TotalEpics)
	if overall.MinLeadTimeDays != nil && overall.MaxLeadTimeDays != nil {
		table.Annotation += fmt.Sprintf(" (min %dd, max %dd)", *overall.MinLeadTimeDays, *overall.MaxLeadTimeDays)
	}
	return table
}

func leadTimeEpics(epics []schema.LeadTimeEpic, quarter string, opts Options) schema.Table {
	table := schema.Table{
		Name:      DetailTable,
		Title:     "Epics delivered in " + quarter,
		LabelName: "Epic",
		Columns:   []string{"Summary", "Team", "Start", "End", "Days", "Lead time"},
	}

	for _, e := range epics {
		readable := e.LeadTimeReadable
		if readable == "" && e.LeadTimeDays != nil {
			readable = algo.DaysToReadable(*e.LeadTimeDays)
		}
		row := schema.Row{
			Label: e.EpicKey,
			Cells: []schema.Cell{
				schema.TextCell(e.Summary),
				schema.TextCell(e.TechTeam),
				schema.TextCell(dateOnly(e.LeadTimeStart)),
				schema.TextCell(dateOnly(e.LeadTimeEnd)),
				intDaysCell(e.LeadTimeDays),
				schema.TextCell(readable),
			},
		}
		if opts.JiraURL != "" && e.EpicKey != "" {
			row.LabelURL = jira.BrowseURL(opts.JiraURL, e.EpicKey)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func dateOnly(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
