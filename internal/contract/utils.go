package contract

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/kpidash/schema"
)

// Color variables for console output.
var (
	FavorableColor   = color.New(color.FgGreen)             // FavorableColor marks an improvement or a met goal.
	UnfavorableColor = color.New(color.FgRed, color.Bold)   // UnfavorableColor marks a regression or a missed goal.
	NeutralColor     = color.New(color.FgYellow)            // NeutralColor marks an unchanged value.
	MissingColor     = color.New(color.FgHiBlack)           // MissingColor marks values that do not apply.
	BestTierColor    = color.New(color.FgGreen, color.Bold) // BestTierColor highlights the top reduction tier.
)

// ColorFor returns the console color of a cell class, or nil for plain cells.
func ColorFor(class schema.CellClass) *color.Color {
	switch class {
	case schema.Favorable:
		return FavorableColor
	case schema.Unfavorable:
		return UnfavorableColor
	case schema.Neutral:
		return NeutralColor
	case schema.NotApplicable:
		return MissingColor
	default:
		return nil
	}
}

// GetColorValue returns the cell text colored by its class for console output (table).
// Best-tier reductions are emphasized regardless of class.
func GetColorValue(cell schema.Cell) string {
	if cell.Tier == schema.BestTier {
		return BestTierColor.Sprint(cell.Value)
	}
	if c := ColorFor(cell.Class); c != nil {
		return c.Sprint(cell.Value)
	}
	return cell.Value
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	slog.Warn(msg, "error", err)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
