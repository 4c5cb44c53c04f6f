// Package outwriter writes rendered dashboards as tables, CSV, JSON or Parquet.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/internal/parquet"
	"github.com/huangsam/kpidash/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDashboard prints a rendered dashboard using the configured output format.
func (ow *OutWriter) WriteDashboard(dash schema.Dashboard, cfg *contract.Config) error {
	return WriteDashboard(dash, cfg)
}

// WriteDashboard outputs the dashboard, dispatching based on the output format configured.
func WriteDashboard(dash schema.Dashboard, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, dash)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCellsCSV(w, FlattenDashboard(dash), cfg.Precision)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires an output file")
		}
		if err := parquet.WriteCellRecordsParquet(FlattenDashboard(dash), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDashboardText(w, dash, cfg)
		}, "Wrote table")
	}
	return nil
}

// terminalWidth returns the width override, the detected terminal width or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		// Conservative default for narrow terminals and CI
		return 80
	}
	return detected
}

// GetMaxTableLabelWidth calculates the maximum width of the row label column
// based on terminal width and how many other columns the table carries.
func GetMaxTableLabelWidth(cfg *contract.Config, table schema.Table) int {
	baseWidth := 12 * len(table.Columns)
	if table.OwnerName != "" {
		baseWidth += 16
	}
	// Borders, separators and padding
	baseWidth += 10

	available := terminalWidth(cfg) - baseWidth
	if available < 12 {
		return 12
	}
	if available > 48 {
		return 48
	}
	return available
}
