package core

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetReader extracts raw rows from a spreadsheet workbook.
// The first returned row is treated as the header.
type SheetReader interface {
	ReadRows(data []byte) ([][]string, error)
}

// ExcelReader reads .xlsx workbooks with excelize.
type ExcelReader struct {
	// Sheet selects the worksheet by name. Empty means the first sheet.
	Sheet string
}

// NewExcelReader returns a reader for the first worksheet of a workbook.
func NewExcelReader() *ExcelReader {
	return &ExcelReader{}
}

// ReadRows implements SheetReader.
func (r *ExcelReader) ReadRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	}

	// Raw values: number formats like "#,##0" would otherwise turn 3000 into
	// "3,000" and 1.5 into "2".
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
