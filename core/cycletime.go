package core

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/kpidash/core/algo"
	"github.com/huangsam/kpidash/schema"
)

// StagesTable is the name of the cycle time stage breakdown table.
const StagesTable = "stages"

// CycleTimeTimeline returns every month the dataset mentions, oldest first.
// Month keys are YYYY-MM, so string order is chronological.
func CycleTimeTimeline(ds *schema.CycleTimeDataset) []string {
	if ds == nil {
		return nil
	}
	found := map[string]struct{}{}
	add := func(months ...string) {
		for _, m := range months {
			if m != "" {
				found[m] = struct{}{}
			}
		}
	}
	add(ds.Months...)
	if ds.Baseline != nil {
		add(ds.Baseline.Months...)
	}
	for _, team := range ds.Teams {
		for m := range team.Monthly {
			add(m)
		}
	}
	return schema.SortedKeys(found)
}

// CycleTimeMonths returns the months shown as columns: the declared months
// when there are any, otherwise the whole timeline. Undeclared months still
// feed the rolling windows.
func CycleTimeMonths(ds *schema.CycleTimeDataset) []string {
	if ds == nil {
		return nil
	}
	declared := slices.DeleteFunc(slices.Clone(ds.Months), func(m string) bool { return m == "" })
	if len(declared) == 0 {
		return CycleTimeTimeline(ds)
	}
	slices.Sort(declared)
	return slices.Compact(declared)
}

// positiveMinutes parses a duration, reporting false for blank, unreadable or zero text.
func positiveMinutes(text string) (float64, bool) {
	v := algo.ParseDuration(text)
	return float64(v), v > 0
}

// teamMinutes parses a team's monthly duration strings. Months without a
// positive duration are left out so they never count towards an average.
func teamMinutes(team schema.CycleTimeTeam) map[string]float64 {
	out := make(map[string]float64, len(team.Monthly))
	for m, text := range team.Monthly {
		if v, ok := positiveMinutes(text); ok {
			out[m] = v
		}
	}
	return out
}

// averageMinutes is the per-key mean over teams that have a value for the key.
func averageMinutes(perTeam []map[string]float64, keys []string) map[string]float64 {
	out := map[string]float64{}
	for _, k := range keys {
		var values []float64
		for _, t := range perTeam {
			if v, ok := t[k]; ok {
				values = append(values, v)
			}
		}
		if mean := algo.Mean(values); mean != nil {
			out[k] = math.Round(*mean)
		}
	}
	return out
}

// windowMinutes averages values over a window, or nil when no value is present.
func windowMinutes(values map[string]float64, window []string) *float64 {
	avg := algo.WindowAverage(values, window)
	if avg == 0 {
		return nil
	}
	return schema.Float(float64(avg))
}

// precedingMonths is the window of up to size timeline months before month.
func precedingMonths(timeline []string, month string, size int) []string {
	return algo.PrecedingWindow(timeline, slices.Index(timeline, month), size)
}

func durationCell(minutes *float64, against *float64) schema.Cell {
	if minutes == nil {
		return schema.NumberCell("-", nil, schema.NotApplicable)
	}
	return schema.NumberCell(
		algo.FormatDurationShort(*minutes),
		minutes,
		algo.ClassifyTrend(minutes, against, false).Class,
	)
}

func plainDurationCell(minutes *float64) schema.Cell {
	if minutes == nil {
		return schema.NumberCell("-", nil, schema.NotApplicable)
	}
	return schema.NumberCell(algo.FormatDurationShort(*minutes), minutes, "")
}

func lookup(values map[string]float64, key string) *float64 {
	if v, ok := values[key]; ok {
		return schema.Float(v)
	}
	return nil
}

// cycleTimeSeries is the parsed data every cycle time table is built from.
type cycleTimeSeries struct {
	timeline []string
	months   []string
	perTeam  []map[string]float64
	totals   map[string]float64
	size     int
}

func (s cycleTimeSeries) rolling(values map[string]float64, month string) *float64 {
	return windowMinutes(values, precedingMonths(s.timeline, month, s.size))
}

// BuildCycleTime renders the cycle time category. Months are columns, so the
// category has no partitions.
func BuildCycleTime(ds *schema.CycleTimeDataset, opts Options) schema.CategoryView {
	view := schema.CategoryView{
		Category: schema.CycleTimeCategory,
		Title:    schema.CategoryTitles[schema.CycleTimeCategory],
	}
	if ds == nil {
		return view
	}

	series := cycleTimeSeries{
		timeline: CycleTimeTimeline(ds),
		months:   CycleTimeMonths(ds),
		perTeam:  make([]map[string]float64, len(ds.Teams)),
		size:     opts.windowSize(),
	}
	for i, team := range ds.Teams {
		series.perTeam[i] = teamMinutes(team)
	}
	series.totals = averageMinutes(series.perTeam, series.timeline)

	var baselineMonths []string
	baselineLabel := ""
	if ds.Baseline != nil {
		baselineMonths = ds.Baseline.Months
		baselineLabel = ds.Baseline.Label
		if baselineLabel == "" {
			baselineLabel = "Baseline"
		}
	}

	view.Tables = []schema.Table{
		cycleTimeMonthly(ds, series, baselineLabel, baselineMonths),
		cycleTimeRolling(ds, series, baselineMonths),
	}
	if stages, ok := cycleTimeStages(ds, series); ok {
		view.Tables = append(view.Tables, stages)
	}
	return view
}

// cycleTimeMonthly colors each month against the average of the preceding window.
func cycleTimeMonthly(ds *schema.CycleTimeDataset, series cycleTimeSeries, baselineLabel string, baselineMonths []string) schema.Table {
	columns := slices.Clone(series.months)
	if baselineLabel != "" {
		columns = append([]string{baselineLabel}, columns...)
	}
	table := schema.Table{
		Name:      SummaryTable,
		Title:     "Cycle time by month",
		LabelName: "Team",
		OwnerName: "EM",
		Columns:   columns,
	}

	row := func(label, owner string, values map[string]float64) schema.Row {
		r := schema.Row{Label: label, Owner: owner}
		if baselineLabel != "" {
			r.Cells = append(r.Cells, durationCell(windowMinutes(values, baselineMonths), nil))
		}
		for _, m := range series.months {
			r.Cells = append(r.Cells, durationCell(lookup(values, m), series.rolling(values, m)))
		}
		return r
	}

	for i, team := range ds.Teams {
		table.Rows = append(table.Rows, row(team.Name, team.Manager, series.perTeam[i]))
	}
	t := row(TotalLabel, "", series.totals)
	table.Totals = &t
	if baselineLabel != "" {
		table.Annotation = baselineLabel + ": " + joinLabels(baselineMonths)
	}
	return table
}

// cycleTimeRolling shows the preceding-window average for each month, colored
// against the declared baseline.
func cycleTimeRolling(ds *schema.CycleTimeDataset, series cycleTimeSeries, baselineMonths []string) schema.Table {
	table := schema.Table{
		Name:      RollingTable,
		Title:     fmt.Sprintf("Rolling %d-month average", series.size),
		LabelName: "Team",
		OwnerName: "EM",
		Columns:   slices.Clone(series.months),
	}

	row := func(label, owner string, values map[string]float64) schema.Row {
		baseline := windowMinutes(values, baselineMonths)
		r := schema.Row{Label: label, Owner: owner}
		for _, m := range series.months {
			r.Cells = append(r.Cells, durationCell(series.rolling(values, m), baseline))
		}
		return r
	}

	for i, team := range ds.Teams {
		table.Rows = append(table.Rows, row(team.Name, team.Manager, series.perTeam[i]))
	}
	t := row(TotalLabel, "", series.totals)
	table.Totals = &t
	return table
}

// stageColumns name the stage breakdown cells, the overall cycle time last.
var stageColumns = []string{"Coding", "Pickup", "Review", "Deploy", "Cycle"}

// latestStageMonth is the newest column month any team has a stage breakdown for.
func latestStageMonth(ds *schema.CycleTimeDataset, months []string) string {
	for _, m := range slices.Backward(months) {
		for _, team := range ds.Teams {
			if _, ok := team.Stages[m]; ok {
				return m
			}
		}
	}
	return ""
}

// cycleTimeStages breaks the latest month with stage data down by delivery
// stage. Totals average the teams reporting each stage, like the monthly totals.
func cycleTimeStages(ds *schema.CycleTimeDataset, series cycleTimeSeries) (schema.Table, bool) {
	month := latestStageMonth(ds, series.months)
	if month == "" {
		return schema.Table{}, false
	}
	table := schema.Table{
		Name:      StagesTable,
		Title:     "Stage breakdown in " + month,
		LabelName: "Team",
		OwnerName: "EM",
		Columns:   slices.Clone(stageColumns),
	}

	perTeam := make([]map[string]float64, len(ds.Teams))
	for i, team := range ds.Teams {
		values := map[string]float64{}
		if stages, ok := team.Stages[month]; ok {
			for j, text := range stages.Durations() {
				if v, ok := positiveMinutes(text); ok {
					values[stageColumns[j]] = v
				}
			}
		}
		if v, ok := series.perTeam[i][month]; ok {
			values[stageColumns[len(stageColumns)-1]] = v
		}
		perTeam[i] = values
	}

	row := func(label, owner string, values map[string]float64) schema.Row {
		r := schema.Row{Label: label, Owner: owner}
		for _, c := range stageColumns {
			r.Cells = append(r.Cells, plainDurationCell(lookup(values, c)))
		}
		return r
	}

	for i, team := range ds.Teams {
		table.Rows = append(table.Rows, row(team.Name, team.Manager, perTeam[i]))
	}
	t := row(TotalLabel, "", averageMinutes(perTeam, stageColumns))
	table.Totals = &t
	return table, true
}
