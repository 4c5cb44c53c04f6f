package core

import (
	"net/url"
	"strings"
	"testing"

	"github.com/huangsam/kpidash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTechDebt() *schema.TechDebtDataset {
	return &schema.TechDebtDataset{
		Quarters: []schema.QuarterRange{
			{Name: "FY25 Q1", Start: "2024-04-01", End: "2024-06-30"},
			{Name: "FY25 Q2", Start: "2024-07-01", End: "2024-09-30"},
		},
		Teams: []schema.TechDebtTeam{
			{
				Name:     "Payments",
				Manager:  "Priya Sharma",
				EpicKeys: []string{"PAY-1"},
				Status:   "On track",
				Periods: map[string]schema.TechDebtCounts{
					"FY25 Q1": {StartCount: schema.Int(60), ReducedCount: schema.Int(8), EndCount: schema.Int(55), CreatedCount: schema.Int(3)},
					"FY25 Q2": {StartCount: schema.Int(50), ReducedCount: schema.Int(40)},
				},
			},
			{
				Name:    "Identity",
				Manager: "Mei Lin",
				Periods: map[string]schema.TechDebtCounts{
					"FY25 Q1": {StartCount: schema.Int(10), ReducedCount: schema.Int(8), CreatedCount: schema.Int(10)},
					"FY25 Q2": {Percent: schema.Float(75)},
				},
			},
		},
	}
}

func decodedJQL(t *testing.T, link string) string {
	t.Helper()
	_, raw, ok := strings.Cut(link, "jql=")
	require.True(t, ok, link)
	jql, err := url.QueryUnescape(raw)
	require.NoError(t, err)
	return jql
}

func TestReductionPercent(t *testing.T) {
	assert.InDelta(t, 13, *ReductionPercent(schema.TechDebtCounts{StartCount: schema.Int(60), ReducedCount: schema.Int(8)}), 1e-9)
	assert.InDelta(t, 42.5, *ReductionPercent(schema.TechDebtCounts{Percent: schema.Float(42.5)}), 1e-9)
	assert.Nil(t, ReductionPercent(schema.TechDebtCounts{StartCount: schema.Int(0), ReducedCount: schema.Int(3)}))
	assert.Nil(t, ReductionPercent(schema.TechDebtCounts{}))
}

func TestBuildTechDebtDetail(t *testing.T) {
	view := BuildTechDebt(sampleTechDebt(), "FY25 Q1", Options{JiraURL: "https://jira.example.com"})
	assert.Equal(t, []string{"FY25 Q1", "FY25 Q2"}, view.Partitions)
	assert.Equal(t, "FY25 Q1", view.ActivePartition)

	detail := view.Tables[1]
	assert.Empty(t, detail.Annotation, "first period has no trend")

	payments := detail.Rows[0].Cells
	assert.Equal(t, "On track", payments[0].Value)
	assert.Equal(t, "60", payments[1].Value)
	assert.Contains(t, decodedJQL(t, payments[1].URL), `created < "2024-04-01"`)
	assert.Equal(t, "8", payments[2].Value)
	assert.Contains(t, decodedJQL(t, payments[2].URL), `resolved <= "2024-06-30"`)
	assert.Equal(t, "55", payments[3].Value)
	assert.Contains(t, decodedJQL(t, payments[3].URL), "resolved IS EMPTY")
	assert.Equal(t, "13%", payments[4].Value)
	assert.Equal(t, schema.Unfavorable, payments[4].Class)
	assert.Equal(t, schema.PoorTier, payments[4].Tier)
	assert.Equal(t, "-", payments[5].Value)

	identity := detail.Rows[1].Cells
	assert.Empty(t, identity[1].URL, "no epic keys to link")
	assert.Equal(t, "-", identity[3].Value)
	assert.Equal(t, "80%", identity[4].Value)
	assert.Equal(t, schema.BestTier, identity[4].Tier)

	totals := detail.Totals.Cells
	assert.Equal(t, "70", totals[1].Value)
	assert.Equal(t, "16", totals[2].Value)
	assert.Equal(t, "55", totals[3].Value)
	assert.Equal(t, "23%", totals[4].Value)
	assert.Equal(t, schema.Favorable, totals[4].Class)
	assert.Equal(t, schema.MarginalTier, totals[4].Tier)
}

func TestBuildTechDebtTrend(t *testing.T) {
	view := BuildTechDebt(sampleTechDebt(), "", Options{})
	assert.Equal(t, "FY25 Q2", view.ActivePartition)

	detail := view.Tables[1]
	assert.Equal(t, "Trend against FY25 Q1", detail.Annotation)

	payments := detail.Rows[0].Cells
	assert.Equal(t, "80%", payments[4].Value)
	assert.Equal(t, "↑ +67%", payments[5].Value)
	assert.Equal(t, schema.Favorable, payments[5].Class)
	assert.Empty(t, payments[1].URL, "links need a tracker URL")

	identity := detail.Rows[1].Cells
	assert.Equal(t, "NA", identity[1].Value)
	assert.Equal(t, "75%", identity[4].Value)
	assert.Equal(t, "↓ -5%", identity[5].Value)
	assert.Equal(t, schema.Unfavorable, identity[5].Class)

	totals := detail.Totals.Cells
	assert.Equal(t, "80%", totals[4].Value, "teams without counters are left out of totals")
	assert.Equal(t, "↑ +57%", totals[5].Value)
}

func TestBuildTechDebtSummary(t *testing.T) {
	summary := BuildTechDebt(sampleTechDebt(), "", Options{}).Tables[0]
	assert.Equal(t, "Goal: 20%", summary.Annotation)
	assert.Equal(t, "13%", summary.Rows[0].Cells[0].Value)
	assert.Equal(t, "80%", summary.Rows[0].Cells[1].Value)
	assert.Equal(t, "23%", summary.Totals.Cells[0].Value)

	ds := sampleTechDebt()
	ds.GoalPercent = schema.Float(10)
	summary = BuildTechDebt(ds, "", Options{}).Tables[0]
	assert.Equal(t, "Goal: 10%", summary.Annotation)
	assert.Equal(t, schema.Favorable, summary.Rows[0].Cells[0].Class)
}

func TestNetChange(t *testing.T) {
	assert.Equal(t, -5, *NetChange(schema.TechDebtCounts{CreatedCount: schema.Int(3), ReducedCount: schema.Int(8)}))
	assert.Equal(t, 0, *NetChange(schema.TechDebtCounts{CreatedCount: schema.Int(4), ReducedCount: schema.Int(4)}))
	assert.Nil(t, NetChange(schema.TechDebtCounts{ReducedCount: schema.Int(4)}))
	assert.Nil(t, NetChange(schema.TechDebtCounts{CreatedCount: schema.Int(4)}))
}

func TestBuildTechDebtCreatedAndNetChange(t *testing.T) {
	view := BuildTechDebt(sampleTechDebt(), "FY25 Q1", Options{JiraURL: "https://jira.example.com"})
	detail := view.Tables[1]
	assert.Equal(t, []string{"Status", "Start", "Reduced", "Open", "Reduction", "Trend", "Created", "Net change"}, detail.Columns)

	payments := detail.Rows[0].Cells
	assert.Equal(t, "3", payments[6].Value)
	assert.Contains(t, decodedJQL(t, payments[6].URL), `created >= "2024-04-01" AND created <= "2024-06-30"`)
	assert.Equal(t, "-5", payments[7].Value)
	assert.Equal(t, schema.Favorable, payments[7].Class)

	identity := detail.Rows[1].Cells
	assert.Equal(t, "10", identity[6].Value)
	assert.Empty(t, identity[6].URL, "no epic keys to link")
	assert.Equal(t, "+2", identity[7].Value)
	assert.Equal(t, schema.Unfavorable, identity[7].Class)

	totals := detail.Totals.Cells
	assert.Equal(t, "13", totals[6].Value)
	assert.Equal(t, "-3", totals[7].Value, "net of the summed counters")
	assert.Equal(t, schema.Favorable, totals[7].Class)

	q2 := BuildTechDebt(sampleTechDebt(), "FY25 Q2", Options{}).Tables[1]
	assert.Equal(t, "NA", q2.Rows[0].Cells[6].Value)
	assert.Equal(t, "NA", q2.Rows[0].Cells[7].Value)
	assert.Equal(t, schema.NotApplicable, q2.Totals.Cells[7].Class, "no team reports created counts")
}
