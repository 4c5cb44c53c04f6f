package core

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/kpidash/core/algo"
	"github.com/huangsam/kpidash/internal/jira"
	"github.com/huangsam/kpidash/schema"
)

// TechDebtPeriods returns the period keys of the dataset in display order.
func TechDebtPeriods(ds *schema.TechDebtDataset) []string {
	if ds == nil {
		return nil
	}
	declared := make([]string, 0, len(ds.Quarters))
	for _, q := range ds.Quarters {
		declared = append(declared, q.Name)
	}
	found := map[string]struct{}{}
	for _, team := range ds.Teams {
		for p := range team.Periods {
			found[p] = struct{}{}
		}
	}
	return schema.MergePeriodKeys(declared, found)
}

// ReductionPercent is the provided percent, or round(reduced/start*100).
func ReductionPercent(c schema.TechDebtCounts) *float64 {
	if c.Percent != nil {
		return c.Percent
	}
	r := algo.CountRatio(c.ReducedCount, c.StartCount)
	if r == nil {
		return nil
	}
	return schema.Float(math.Round(*r))
}

func teamReduction(team schema.TechDebtTeam, period string) *float64 {
	c, ok := team.Periods[period]
	if !ok || period == "" {
		return nil
	}
	return ReductionPercent(c)
}

type techDebtTotals struct {
	start, reduced, open, created *int
	net                           *int
}

// NetChange is created minus reduced, so growing debt is positive. It is nil
// unless both counters are present.
func NetChange(c schema.TechDebtCounts) *int {
	if c.CreatedCount == nil || c.ReducedCount == nil {
		return nil
	}
	return schema.Int(*c.CreatedCount - *c.ReducedCount)
}

func sumTechDebt(teams []schema.TechDebtTeam, period string) techDebtTotals {
	var t techDebtTotals
	if period == "" {
		return t
	}
	for _, team := range teams {
		c, ok := team.Periods[period]
		if !ok {
			continue
		}
		if c.StartCount != nil && c.ReducedCount != nil {
			addCount(&t.start, c.StartCount)
			addCount(&t.reduced, c.ReducedCount)
		}
		addCount(&t.open, c.EndCount)
		addCount(&t.created, c.CreatedCount)
		addCount(&t.net, NetChange(c))
	}
	return t
}

func (t techDebtTotals) percent() *float64 {
	return ReductionPercent(schema.TechDebtCounts{StartCount: t.start, ReducedCount: t.reduced})
}

func reductionCell(percent *float64, goal float64) schema.Cell {
	cell := schema.NumberCell(algo.FormatPercent(percent, 0), percent, algo.ClassifyGoalAchievement(percent, goal))
	cell.Tier = algo.ClassifyReductionMagnitude(percent)
	return cell
}

// reductionTrendCell compares a reduction against the previous period; higher is better.
func reductionTrendCell(current, previous *float64) schema.Cell {
	if current == nil || previous == nil {
		return schema.NumberCell("-", nil, schema.Neutral)
	}
	diff := *current - *previous
	trend := algo.ClassifyTrend(current, previous, true)
	text := fmt.Sprintf("%+.0f%%", diff)
	if arrow := algo.Arrow(trend.Direction); arrow != "" {
		text = arrow + " " + text
	} else {
		text = "0%"
	}
	return schema.NumberCell(text, schema.Float(diff), trend.Class)
}

// netChangeCell shows a signed net change; shrinking debt is favorable.
func netChangeCell(net *int) schema.Cell {
	if net == nil {
		return schema.NumberCell("NA", nil, schema.NotApplicable)
	}
	class := schema.Neutral
	switch {
	case *net > 0:
		class = schema.Unfavorable
	case *net < 0:
		class = schema.Favorable
	}
	text := "0"
	if *net != 0 {
		text = fmt.Sprintf("%+d", *net)
	}
	return schema.NumberCell(text, schema.IntToFloat(net), class)
}

// BuildTechDebt renders the tech debt category for the selected period.
func BuildTechDebt(ds *schema.TechDebtDataset, partition string, opts Options) schema.CategoryView {
	view := schema.CategoryView{
		Category: schema.TechDebtCategory,
		Title:    schema.CategoryTitles[schema.TechDebtCategory],
	}
	if ds == nil {
		return view
	}

	periods := TechDebtPeriods(ds)
	active := ResolvePartition(periods, partition, ds.DefaultPeriod)
	view.Partitions = periods
	view.ActivePartition = active
	view.Tables = []schema.Table{
		techDebtSummary(ds, periods),
		techDebtDetail(ds, periods, active, opts),
	}
	return view
}

func techDebtSummary(ds *schema.TechDebtDataset, periods []string) schema.Table {
	goal := ds.Goal()
	table := schema.Table{
		Name:       SummaryTable,
		Title:      "Tech debt reduction by period",
		LabelName:  "Team",
		OwnerName:  "EM",
		Columns:    slices.Clone(periods),
		Annotation: fmt.Sprintf("Goal: %s", algo.FormatPercent(schema.Float(goal), 0)),
	}

	for _, team := range ds.Teams {
		row := schema.Row{Label: team.Name, Owner: team.Manager}
		for _, p := range periods {
			row.Cells = append(row.Cells, reductionCell(teamReduction(team, p), goal))
		}
		table.Rows = append(table.Rows, row)
	}

	totals := schema.Row{Label: TotalLabel}
	for _, p := range periods {
		totals.Cells = append(totals.Cells, reductionCell(sumTechDebt(ds.Teams, p).percent(), goal))
	}
	table.Totals = &totals
	return table
}

func techDebtDetail(ds *schema.TechDebtDataset, periods []string, active string, opts Options) schema.Table {
	goal := ds.Goal()
	prev := previousKey(periods, active)
	quarter, _ := ds.Quarter(active)

	table := schema.Table{
		Name:      DetailTable,
		Title:     "Tech debt in " + active,
		LabelName: "Team",
		OwnerName: "EM",
		Columns:   []string{"Status", "Start", "Reduced", "Open", "Reduction", "Trend", "Created", "Net change"},
	}
	if prev != "" {
		table.Annotation = "Trend against " + prev
	}

	query := func(keys []string, mode jira.Mode) jira.Query {
		return jira.Query{
			Keys:       keys,
			IssueTypes: ds.IssueTypes,
			Start:      quarter.Start,
			End:        quarter.End,
			Mode:       mode,
		}
	}

	var allKeys []string
	for _, team := range ds.Teams {
		allKeys = append(allKeys, team.EpicKeys...)
		c := team.Periods[active]
		pct := ReductionPercent(c)
		table.Rows = append(table.Rows, schema.Row{
			Label: team.Name,
			Owner: team.Manager,
			Cells: []schema.Cell{
				schema.TextCell(team.Status),
				jira.CountLink(opts.JiraURL, c.StartCount, query(team.EpicKeys, jira.ExistedAtStart)),
				jira.CountLink(opts.JiraURL, c.ReducedCount, query(team.EpicKeys, jira.ResolvedInRange)),
				openCell(opts.JiraURL, c.EndCount, query(team.EpicKeys, jira.StillOpen)),
				reductionCell(pct, goal),
				reductionTrendCell(pct, teamReduction(team, prev)),
				jira.CountLink(opts.JiraURL, c.CreatedCount, query(team.EpicKeys, jira.CreatedInRange)),
				netChangeCell(NetChange(c)),
			},
		})
	}

	sum := sumTechDebt(ds.Teams, active)
	table.Totals = &schema.Row{
		Label: TotalLabel,
		Cells: []schema.Cell{
			schema.TextCell(""),
			jira.CountLink(opts.JiraURL, sum.start, query(allKeys, jira.ExistedAtStart)),
			jira.CountLink(opts.JiraURL, sum.reduced, query(allKeys, jira.ResolvedInRange)),
			openCell(opts.JiraURL, sum.open, query(allKeys, jira.StillOpen)),
			reductionCell(sum.percent(), goal),
			reductionTrendCell(sum.percent(), sumTechDebt(ds.Teams, prev).percent()),
			jira.CountLink(opts.JiraURL, sum.created, query(allKeys, jira.CreatedInRange)),
			netChangeCell(sum.net),
		},
	}
	return table
}

// openCell links the still-open search. Without a recorded count it shows "-".
func openCell(base string, count *int, q jira.Query) schema.Cell {
	if count != nil {
		return jira.CountLink(base, count, q)
	}
	cell := schema.TextCell("-")
	if base != "" && len(q.Keys) > 0 {
		cell.URL = jira.SearchURL(base, q.JQL())
	}
	return cell
}
