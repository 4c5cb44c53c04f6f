package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/internal/parquet"
	"github.com/huangsam/kpidash/schema"
)

// cellRecordHeader is the CSV header of flattened cell records.
var cellRecordHeader = []string{
	"snapshot_id",
	"loaded_at",
	"category",
	"partition",
	"table",
	"row",
	"owner",
	"column",
	"value",
	"raw",
	"class",
	"tier",
	"url",
	"total",
}

// FlattenDashboard turns every table cell of the dashboard into one record.
func FlattenDashboard(dash schema.Dashboard) []parquet.CellRecord {
	var records []parquet.CellRecord
	for _, cv := range dash.Categories {
		for _, t := range cv.Tables {
			base := parquet.CellRecord{
				SnapshotID: dash.SnapshotID,
				LoadedAt:   dash.LoadedAt,
				Category:   string(cv.Category),
				Partition:  cv.ActivePartition,
				Table:      t.Name,
			}
			for _, row := range t.Rows {
				records = appendRowRecords(records, base, t, row, false)
			}
			if t.Totals != nil {
				records = appendRowRecords(records, base, t, *t.Totals, true)
			}
		}
	}
	return records
}

func appendRowRecords(records []parquet.CellRecord, base parquet.CellRecord, t schema.Table, row schema.Row, total bool) []parquet.CellRecord {
	for i, cell := range row.Cells {
		if i >= len(t.Columns) {
			break
		}
		rec := base
		rec.Row = row.Label
		rec.Owner = optional(row.Owner)
		rec.Column = t.Columns[i]
		rec.Value = cell.Value
		rec.Raw = cell.Raw
		rec.Class = string(cell.Class)
		rec.Tier = string(cell.Tier)
		rec.URL = optional(cell.URL)
		rec.Total = total
		records = append(records, rec)
	}
	return records
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// writeCellsCSV writes flattened cell records in CSV format.
func writeCellsCSV(w io.Writer, records []parquet.CellRecord, precision int) error {
	_, fmtRaw := createFormatters(precision)
	return writeCSVWithHeader(w, cellRecordHeader, func(cw *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				r.SnapshotID,
				r.LoadedAt.Format(contract.DateTimeFormat),
				r.Category,
				r.Partition,
				r.Table,
				r.Row,
				deref(r.Owner),
				r.Column,
				r.Value,
				fmtRaw(r.Raw),
				r.Class,
				r.Tier,
				deref(r.URL),
				strconv.FormatBool(r.Total),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
