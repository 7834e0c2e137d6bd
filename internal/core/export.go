package core

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Export metadata for downloads.
const (
	ExportFileName     = "sorted_property_distances.csv"
	ExportContentType  = "text/csv"
	ExportXLSXFileName = "sorted_property_distances.xlsx"
	ExportXLSXType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	ExportNameHeader         = "Name"
	ExportDistanceHeader     = "Distance"
	ExportNeighborhoodHeader = "Neighborhood"

	exportSheet = "Sheet1"
)

// CSV serializes the result as UTF-8 CSV with a Name,Distance header and one
// line per row in sorted order. There is no index column.
func (r *Result) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{ExportNameHeader, ExportDistanceHeader}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range r.Rows {
		if err := w.Write([]string{row.Name, formatDistance(row.Distance)}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX serializes the result as a single-sheet workbook. The Neighborhood
// column is included when the result has one bound.
func (r *Result) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("new stream writer: %w", err)
	}

	withNeighborhood := r.Binding.Neighborhood != ""
	header := []interface{}{ExportNameHeader, ExportDistanceHeader}
	if withNeighborhood {
		header = append(header, ExportNeighborhoodHeader)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range r.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{row.Name, row.Distance}
		if withNeighborhood {
			values = append(values, row.Neighborhood)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush workbook: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
