// Package cmd defines the command-line interface for kpidash.
package cmd

import (
	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(incidentsCmd)
	rootCmd.AddCommand(techDebtCmd)
	rootCmd.AddCommand(cycleTimeCmd)
	rootCmd.AddCommand(leadTimeCmd)
	rootCmd.AddCommand(durationCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("source", "s", "", "Directory or base URL holding the category documents (empty = built-in data)")
	rootCmd.PersistentFlags().String("jira-url", "", "Issue tracker base URL used for links")
	rootCmd.PersistentFlags().StringP("partition", "p", "", "Period to show in detail tables (default: latest)")
	rootCmd.PersistentFlags().String("scope", "", "Lead time scope key (default: declared default scope)")
	rootCmd.PersistentFlags().Int("window", contract.DefaultWindowSize, "Rolling average window in months")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for raw numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored cells in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "HTTP timeout when the source is a URL")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}
}
