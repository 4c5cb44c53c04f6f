package cmd

import (
	"github.com/huangsam/kpidash/core"
	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/schema"
	"github.com/spf13/cobra"
)

// dashboardCmd renders every category.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show every KPI category.",
	Long: `Load the incident, tech debt, cycle time and lead time documents and render all of them.

Each category is loaded on its own. A document that cannot be fetched or read
is replaced by built-in data and marked as such, so one broken source never
hides the others.

Examples:
  # Render the built-in data
  kpidash dashboard

  # Read documents from a directory and link counts to the issue tracker
  kpidash dashboard --source ./metrics --jira-url https://jira.example.com

  # Fetch documents from a web server and export every cell to Parquet
  kpidash dashboard --source https://metrics.example.com/kpi --output parquet --output-file kpi.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDashboard(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot render dashboard", err)
		}
	},
}

// newCategoryCmd builds the command rendering a single category.
func newCategoryCmd(use string, category schema.Category, short, long string) *cobra.Command {
	run := core.ExecuteCategory(category)
	return &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		Args:    cobra.NoArgs,
		PreRunE: sharedSetupWrapper,
		Run: func(_ *cobra.Command, _ []string) {
			if err := run(rootCtx, cfg); err != nil {
				contract.LogFatal("Cannot render "+string(category), err)
			}
		},
	}
}

var incidentsCmd = newCategoryCmd("incidents", schema.IncidentsCategory,
	"Show incident to release ratios by team and period.",
	`Show the incident/release ratio of each team per period, colored against the
baseline period, with a detail table for the selected period.

Examples:
  kpidash incidents --partition "FY25 Q2"`)

var techDebtCmd = newCategoryCmd("techdebt", schema.TechDebtCategory,
	"Show tech debt reduction against the goal.",
	`Show the tech debt reduction of each team per period against the goal,
with start, reduced and still-open counts linked to issue searches.

Examples:
  kpidash techdebt --partition "FY25 Q1" --jira-url https://jira.example.com`)

var cycleTimeCmd = newCategoryCmd("cycletime", schema.CycleTimeCategory,
	"Show monthly cycle times with rolling averages.",
	`Show monthly cycle times per team, each month colored against the average of
the preceding window, plus the rolling average colored against the baseline.

Examples:
  kpidash cycletime --window 6`)

var leadTimeCmd = newCategoryCmd("leadtime", schema.LeadTimeCategory,
	"Show epic lead times by fiscal quarter.",
	`Show epic lead time statistics per fiscal quarter and the epics delivered in
the selected quarter.

Examples:
  kpidash leadtime --scope platform --partition "FY25 Q2"`)
