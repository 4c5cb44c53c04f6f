// Package parquet exports rendered dashboard cells to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

// CellRecord is one rendered cell flattened into a row.
type CellRecord struct {
	// SnapshotID identifies the load that produced the cell
	SnapshotID string `parquet:"snapshot_id,snappy"`

	// LoadedAt is when the snapshot was assembled
	LoadedAt time.Time `parquet:"loaded_at,snappy"`

	Category  string `parquet:"category,snappy"`
	Partition string `parquet:"partition,snappy"`
	Table     string `parquet:"table_name,snappy"`
	Row       string `parquet:"row_label,snappy"`

	// Owner is the manager or team of the row (nullable)
	Owner *string `parquet:"owner,optional,snappy"`

	Column string `parquet:"column_name,snappy"`
	Value  string `parquet:"value,snappy"`

	// Raw is the underlying number (nullable when the cell is not applicable)
	Raw *float64 `parquet:"raw,optional,snappy"`

	Class string `parquet:"class,snappy"`
	Tier  string `parquet:"tier,snappy"`

	// URL is the issue tracker link of the cell (nullable)
	URL *string `parquet:"url,optional,snappy"`

	// Total marks cells of a totals row
	Total bool `parquet:"is_total"`
}

// WriteCellRecordsParquet writes a slice of CellRecord structs to a Parquet file.
func WriteCellRecordsParquet(data []CellRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the CellRecord struct tags
	writer := parquet.NewGenericWriter[CellRecord](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ReadCellRecordsParquet reads every CellRecord stored in a Parquet file.
func ReadCellRecordsParquet(inputPath string) ([]CellRecord, error) {
	rows, err := parquet.ReadFile[CellRecord](inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}
