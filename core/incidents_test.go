package core

import (
	"testing"

	"github.com/huangsam/kpidash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counts(incidents, releases int) schema.IncidentCounts {
	return schema.IncidentCounts{IncidentCount: schema.Int(incidents), ReleaseCount: schema.Int(releases)}
}

func sampleIncidents() *schema.IncidentsDataset {
	return &schema.IncidentsDataset{
		BaselinePeriod: "FY25 Q1",
		Teams: []schema.IncidentTeam{
			{
				Name:    "Payments",
				Manager: "Priya Sharma",
				Periods: map[string]schema.IncidentCounts{
					"FY25 Q1": counts(1, 45),
					"FY25 Q2": counts(0, 9),
				},
				Links: []string{"INC-101"},
			},
			{
				Name:    "Checkout",
				Manager: "Daniel Okafor",
				Periods: map[string]schema.IncidentCounts{
					"FY25 Q1": counts(10, 100),
					"FY25 Q2": counts(5, 50),
				},
			},
		},
	}
}

func TestIncidentPeriods(t *testing.T) {
	assert.Nil(t, IncidentPeriods(nil))
	assert.Equal(t, []string{"FY25 Q1", "FY25 Q2"}, IncidentPeriods(sampleIncidents()))

	ds := sampleIncidents()
	ds.Periods = []string{"FY25 Q2", "FY25 Q1"}
	assert.Equal(t, []string{"FY25 Q2", "FY25 Q1"}, IncidentPeriods(ds))
}

func TestBuildIncidentsDetail(t *testing.T) {
	view := BuildIncidents(sampleIncidents(), "", Options{JiraURL: "https://jira.example.com"})

	assert.Equal(t, schema.IncidentsCategory, view.Category)
	assert.Equal(t, "FY25 Q2", view.ActivePartition, "latest period is the default")
	require.Len(t, view.Tables, 2)

	detail := view.Tables[1]
	assert.Equal(t, DetailTable, detail.Name)
	assert.Equal(t, "Compared against FY25 Q1", detail.Annotation)
	require.Len(t, detail.Rows, 2)

	payments := detail.Rows[0].Cells
	assert.Equal(t, "0", payments[0].Value)
	assert.Equal(t, "0.00%", payments[2].Value)
	assert.Equal(t, schema.Favorable, payments[2].Class)
	assert.Equal(t, "2.22%", payments[3].Value)
	assert.Equal(t, "↓ 0%", payments[4].Value)
	assert.Equal(t, schema.Favorable, payments[4].Class)
	assert.Equal(t, "1", payments[5].Value)
	assert.Contains(t, payments[5].URL, "https://jira.example.com/issues/?jql=")

	checkout := detail.Rows[1].Cells
	assert.Equal(t, "10.00%", checkout[2].Value)
	assert.Equal(t, schema.Neutral, checkout[2].Class, "equal to baseline")
	assert.Equal(t, "10.00%", checkout[4].Value, "no arrow without a change")
	assert.Empty(t, checkout[5].URL, "no links to search")

	require.NotNil(t, detail.Totals)
	totals := detail.Totals.Cells
	assert.Equal(t, "5", totals[0].Value)
	assert.Equal(t, "59", totals[1].Value)
	assert.Equal(t, "8.47%", totals[2].Value)
	assert.Equal(t, schema.Unfavorable, totals[2].Class)
	assert.Equal(t, "7.59%", totals[3].Value)
	assert.Equal(t, "↑ 8.47%", totals[4].Value)
}

func TestBuildIncidentsSummary(t *testing.T) {
	view := BuildIncidents(sampleIncidents(), "FY25 Q1", Options{})
	assert.Equal(t, "FY25 Q1", view.ActivePartition)

	summary := view.Tables[0]
	assert.Equal(t, []string{"FY25 Q1", "FY25 Q2"}, summary.Columns)
	assert.Equal(t, "Baseline: FY25 Q1", summary.Annotation)

	payments := summary.Rows[0].Cells
	assert.Equal(t, "2.22%", payments[0].Value)
	assert.Equal(t, schema.Neutral, payments[0].Class, "the baseline period has nothing to compare to")
	assert.Equal(t, schema.Favorable, payments[1].Class)

	require.NotNil(t, summary.Totals)
	assert.Equal(t, TotalLabel, summary.Totals.Label)
	assert.Equal(t, "7.59%", summary.Totals.Cells[0].Value)

	detail := view.Tables[1]
	assert.Empty(t, detail.Annotation)
	assert.Equal(t, "NA", detail.Rows[0].Cells[3].Value)
}

func TestSumIncidentsSkipsIncompleteTeams(t *testing.T) {
	teams := []schema.IncidentTeam{
		{Name: "A", Periods: map[string]schema.IncidentCounts{"P": counts(10, 100)}},
		{Name: "B", Periods: map[string]schema.IncidentCounts{"P": counts(0, 50)}},
		{Name: "C", Periods: map[string]schema.IncidentCounts{"P": {IncidentCount: schema.Int(3)}}},
		{Name: "D"},
	}
	sum := sumIncidents(teams, "P")
	require.NotNil(t, sum.incidents)
	assert.Equal(t, 10, *sum.incidents)
	assert.Equal(t, 150, *sum.releases)
	assert.Equal(t, "6.67%", ratioCell(sum.ratio(), nil).Value)

	empty := sumIncidents(teams, "")
	assert.Nil(t, empty.ratio())
}

func TestBuildIncidentsMissingCounts(t *testing.T) {
	ds := &schema.IncidentsDataset{Teams: []schema.IncidentTeam{
		{Name: "Identity", Periods: map[string]schema.IncidentCounts{"FY25 Q1": {IncidentCount: schema.Int(2)}}},
	}}
	view := BuildIncidents(ds, "", Options{})
	cells := view.Tables[1].Rows[0].Cells
	assert.Equal(t, "NA", cells[1].Value)
	assert.Equal(t, "NA", cells[2].Value)
	assert.Equal(t, schema.NotApplicable, cells[2].Class)

	assert.Empty(t, BuildIncidents(nil, "", Options{}).Tables)
}
