package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeDashboardText writes every category of the dashboard as console tables.
func writeDashboardText(w io.Writer, dash schema.Dashboard, cfg *contract.Config) error {
	for i, cv := range dash.Categories {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeCategoryText(w, cv, cfg); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Snapshot %s loaded at %s\n", dash.SnapshotID, dash.LoadedAt.Format(contract.DateTimeFormat))
	return err
}

func writeCategoryText(w io.Writer, cv schema.CategoryView, cfg *contract.Config) error {
	heading := cv.Title
	if cv.Origin == schema.FallbackOrigin {
		heading += " (built-in data)"
	}
	if _, err := fmt.Fprintf(w, "== %s ==\n", heading); err != nil {
		return err
	}
	if line := selectorLine("Scopes", cv.Scopes, cv.ActiveScope); line != "" {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if line := selectorLine("Periods", cv.Partitions, cv.ActivePartition); line != "" {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, table := range cv.Tables {
		if err := writeTableText(w, table, cfg); err != nil {
			return err
		}
	}
	return nil
}

// selectorLine lists selectable keys with the active one bracketed.
func selectorLine(name string, keys []string, active string) string {
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		if k == active {
			parts[i] = "[" + k + "]"
		} else {
			parts[i] = k
		}
	}
	return name + ": " + strings.Join(parts, " | ")
}

// writeTableText generates and writes one human-readable table.
func writeTableText(w io.Writer, t schema.Table, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", t.Title); err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	table := tablewriter.NewWriter(w)

	headers := []string{t.LabelName}
	if t.OwnerName != "" {
		headers = append(headers, t.OwnerName)
	}
	headers = append(headers, t.Columns...)
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxTableLabelWidth(cfg, t)
	data := make([][]string, 0, len(t.Rows)+1)
	for _, row := range t.Rows {
		data = append(data, textRow(t, row, labelWidth, cfg.UseColors))
	}
	if t.Totals != nil {
		data = append(data, textRow(t, *t.Totals, labelWidth, cfg.UseColors))
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if t.Annotation != "" {
		if _, err := fmt.Fprintln(w, t.Annotation); err != nil {
			return err
		}
	}
	return nil
}

func textRow(t schema.Table, row schema.Row, labelWidth int, useColors bool) []string {
	rec := []string{contract.TruncateText(row.Label, labelWidth)}
	if t.OwnerName != "" {
		rec = append(rec, schema.AbbreviateName(row.Owner))
	}
	for _, cell := range row.Cells {
		if useColors {
			rec = append(rec, contract.GetColorValue(cell))
		} else {
			rec = append(rec, cell.Value)
		}
	}
	// Short rows are padded so every record matches the header
	for len(rec) < len(t.Columns)+1+boolToInt(t.OwnerName != "") {
		rec = append(rec, "")
	}
	return rec
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
