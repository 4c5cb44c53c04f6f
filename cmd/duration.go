package cmd

import (
	"strconv"
	"strings"

	"github.com/huangsam/kpidash/core/algo"
	"github.com/spf13/cobra"
)

// durationCmd converts between duration text and minutes.
var durationCmd = &cobra.Command{
	Use:   "duration <text|minutes>",
	Short: "Convert a cycle time duration to minutes or back.",
	Long: `Parse a duration such as "7 d 15 h 9 m" into minutes, or format a number of
minutes in both display forms. Text that does not match the duration format
counts as zero minutes.

Examples:
  kpidash duration "7 d 15 h 9 m"
  kpidash duration 10989`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text := strings.Join(args, " ")
		minutes, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			minutes = float64(algo.ParseDuration(text))
		}
		cmd.Printf("Minutes: %s\n", strconv.FormatFloat(minutes, 'f', -1, 64))
		cmd.Printf("Long:    %s\n", algo.FormatDurationLong(minutes))
		cmd.Printf("Short:   %s\n", algo.FormatDurationShort(minutes))
	},
}
