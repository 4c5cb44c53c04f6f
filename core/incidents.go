package core

import (
	"slices"

	"github.com/huangsam/kpidash/core/algo"
	"github.com/huangsam/kpidash/internal/jira"
	"github.com/huangsam/kpidash/schema"
)

// IncidentRatioDecimals is the precision of incident/release ratios.
const IncidentRatioDecimals = 2

// incidentTotals sums counters across teams, skipping missing values.
type incidentTotals struct {
	incidents *int
	releases  *int
}

func addCount(sum **int, v *int) {
	if v == nil {
		return
	}
	if *sum == nil {
		*sum = schema.Int(0)
	}
	**sum += *v
}

func (t incidentTotals) ratio() *float64 {
	return algo.CountRatio(t.incidents, t.releases)
}

// IncidentPeriods returns the period keys of the dataset in display order.
func IncidentPeriods(ds *schema.IncidentsDataset) []string {
	if ds == nil {
		return nil
	}
	found := map[string]struct{}{}
	for _, team := range ds.Teams {
		for p := range team.Periods {
			found[p] = struct{}{}
		}
	}
	return schema.MergePeriodKeys(ds.Periods, found)
}

// incidentBaseline is the period a period's ratio is compared against: the declared
// baseline period when there is one, otherwise the previous period.
func incidentBaseline(ds *schema.IncidentsDataset, periods []string, period string) string {
	if ds.BaselinePeriod != "" && slices.Contains(periods, ds.BaselinePeriod) {
		if ds.BaselinePeriod == period {
			return ""
		}
		return ds.BaselinePeriod
	}
	return previousKey(periods, period)
}

func teamRatio(team schema.IncidentTeam, period string) *float64 {
	if period == "" {
		return nil
	}
	c, ok := team.Periods[period]
	if !ok {
		return nil
	}
	return algo.CountRatio(c.IncidentCount, c.ReleaseCount)
}

func sumIncidents(teams []schema.IncidentTeam, period string) incidentTotals {
	var t incidentTotals
	if period == "" {
		return t
	}
	for _, team := range teams {
		c, ok := team.Periods[period]
		if !ok {
			continue
		}
		if c.IncidentCount != nil && c.ReleaseCount != nil {
			addCount(&t.incidents, c.IncidentCount)
			addCount(&t.releases, c.ReleaseCount)
		}
	}
	return t
}

func ratioCell(ratio, baseline *float64) schema.Cell {
	return schema.NumberCell(
		algo.FormatPercent(ratio, IncidentRatioDecimals),
		ratio,
		algo.ClassifyRatioAgainstBaseline(ratio, baseline),
	)
}

func countCell(v *int) schema.Cell {
	if v == nil {
		return schema.NumberCell("NA", nil, schema.NotApplicable)
	}
	return schema.NumberCell(itoa(*v), schema.IntToFloat(v), "")
}

// BuildIncidents renders the incidents category for the selected period.
func BuildIncidents(ds *schema.IncidentsDataset, partition string, opts Options) schema.CategoryView {
	view := schema.CategoryView{
		Category: schema.IncidentsCategory,
		Title:    schema.CategoryTitles[schema.IncidentsCategory],
	}
	if ds == nil {
		return view
	}

	periods := IncidentPeriods(ds)
	active := ResolvePartition(periods, partition, ds.DefaultPeriod)
	view.Partitions = periods
	view.ActivePartition = active
	view.Tables = []schema.Table{
		incidentSummary(ds, periods),
		incidentDetail(ds, periods, active, opts),
	}
	return view
}

func incidentSummary(ds *schema.IncidentsDataset, periods []string) schema.Table {
	table := schema.Table{
		Name:      SummaryTable,
		Title:     "Incident / release ratio by period",
		LabelName: "Team",
		OwnerName: "EM",
		Columns:   slices.Clone(periods),
	}

	for _, team := range ds.Teams {
		row := schema.Row{Label: team.Name, Owner: team.Manager}
		for _, p := range periods {
			baseline := teamRatio(team, incidentBaseline(ds, periods, p))
			row.Cells = append(row.Cells, ratioCell(teamRatio(team, p), baseline))
		}
		table.Rows = append(table.Rows, row)
	}

	totals := schema.Row{Label: TotalLabel}
	for _, p := range periods {
		baseline := sumIncidents(ds.Teams, incidentBaseline(ds, periods, p)).ratio()
		totals.Cells = append(totals.Cells, ratioCell(sumIncidents(ds.Teams, p).ratio(), baseline))
	}
	table.Totals = &totals

	if ds.BaselinePeriod != "" {
		table.Annotation = "Baseline: " + ds.BaselinePeriod
	}
	return table
}

func incidentDetail(ds *schema.IncidentsDataset, periods []string, active string, opts Options) schema.Table {
	basePeriod := incidentBaseline(ds, periods, active)
	table := schema.Table{
		Name:      DetailTable,
		Title:     "Incidents in " + active,
		LabelName: "Team",
		OwnerName: "EM",
		Columns:   []string{"Incidents", "Releases", "Ratio", "Baseline", "Trend", "Issues"},
	}
	if basePeriod != "" {
		table.Annotation = "Compared against " + basePeriod
	}

	for _, team := range ds.Teams {
		c := team.Periods[active]
		ratio := algo.CountRatio(c.IncidentCount, c.ReleaseCount)
		baseline := teamRatio(team, basePeriod)
		table.Rows = append(table.Rows, schema.Row{
			Label: team.Name,
			Owner: team.Manager,
			Cells: []schema.Cell{
				countCell(c.IncidentCount),
				countCell(c.ReleaseCount),
				ratioCell(ratio, baseline),
				schema.NumberCell(algo.FormatPercent(baseline, IncidentRatioDecimals), baseline, ""),
				trendCell(ratio, baseline),
				jira.IssueListLink(opts.JiraURL, team.Links),
			},
		})
	}

	sum := sumIncidents(ds.Teams, active)
	baseline := sumIncidents(ds.Teams, basePeriod).ratio()
	var links []string
	for _, team := range ds.Teams {
		links = append(links, team.Links...)
	}
	table.Totals = &schema.Row{
		Label: TotalLabel,
		Cells: []schema.Cell{
			countCell(sum.incidents),
			countCell(sum.releases),
			ratioCell(sum.ratio(), baseline),
			schema.NumberCell(algo.FormatPercent(baseline, IncidentRatioDecimals), baseline, ""),
			trendCell(sum.ratio(), baseline),
			jira.IssueListLink(opts.JiraURL, links),
		},
	}
	return table
}

// trendCell shows a ratio with its arrow against baseline, colored like the ratio.
func trendCell(ratio, baseline *float64) schema.Cell {
	return schema.NumberCell(
		algo.FormatRatioWithTrend(ratio, baseline, IncidentRatioDecimals),
		ratio,
		algo.ClassifyRatioAgainstBaseline(ratio, baseline),
	)
}
