package core

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory .xlsx with the given rows on each sheet.
func workbook(t *testing.T, sheets map[string][][]interface{}, order ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("SetSheetName error = %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet error = %v", err)
		}
		for r, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("SetSheetRow error = %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer error = %v", err)
	}
	return buf.Bytes()
}

func TestExcelReader_ReadRows(t *testing.T) {
	data := workbook(t, map[string][][]interface{}{
		"Listings": {
			{"Property Name", "Distance", "Neighborhood"},
			{"Maple Court", 3, "North"},
			{"Birch Lane", 1.5, "South"},
		},
		"Other": {
			{"Ignored"},
		},
	}, "Listings", "Other")

	rows, err := NewExcelReader().ReadRows(data)
	if err != nil {
		t.Fatalf("ReadRows error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Property Name" || rows[2][1] != "1.5" {
		t.Errorf("rows = %q", rows)
	}

	named := &ExcelReader{Sheet: "Other"}
	rows, err = named.ReadRows(data)
	if err != nil {
		t.Fatalf("ReadRows(Other) error = %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "Ignored" {
		t.Errorf("rows(Other) = %q", rows)
	}

	missing := &ExcelReader{Sheet: "Nope"}
	if _, err := missing.ReadRows(data); err == nil {
		t.Error("ReadRows(Nope) expected error")
	}
}

func TestLoader_Spreadsheet(t *testing.T) {
	data := workbook(t, map[string][][]interface{}{
		"Sheet1": {
			{},
			{"Property Name", "Distance", "Neighborhood"},
			{"Maple Court", 3, "North"},
			{"Birch Lane", "n/a", "South"},
			{"Elm Street", 0.5},
		},
	}, "Sheet1")

	tbl, err := NewLoader(NewExcelReader()).Load(data, KindSpreadsheet)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}
	if !tbl.HasColumn("Neighborhood") {
		t.Errorf("Columns = %q, want Neighborhood", tbl.Columns)
	}

	res, err := SortRows(tbl, ResolveColumns(tbl.Columns, DefaultRoleKeywords()), Ascending)
	if err != nil {
		t.Fatalf("SortRows error = %v", err)
	}
	if got := resultNames(res); len(got) != 2 || got[0] != "Elm Street" || got[1] != "Maple Court" {
		t.Errorf("names = %q, want [Elm Street Maple Court]", got)
	}
	if res.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", res.Dropped)
	}
}

func TestLoader_SpreadsheetIgnoresNumberFormats(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Property Name", "Distance"},
		{"Maple Court", 3000},
		{"Birch Lane", 1.5},
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow error = %v", err)
		}
	}
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		t.Fatalf("NewStyle error = %v", err)
	}
	integer, err := f.NewStyle(&excelize.Style{NumFmt: 1}) // 0
	if err != nil {
		t.Fatalf("NewStyle error = %v", err)
	}
	if err := f.SetCellStyle("Sheet1", "B2", "B2", thousands); err != nil {
		t.Fatalf("SetCellStyle error = %v", err)
	}
	if err := f.SetCellStyle("Sheet1", "B3", "B3", integer); err != nil {
		t.Fatalf("SetCellStyle error = %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer error = %v", err)
	}

	raw, err := NewExcelReader().ReadRows(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadRows error = %v", err)
	}
	if raw[1][1] != "3000" || raw[2][1] != "1.5" {
		t.Errorf("distance cells = %q, %q, want 3000, 1.5", raw[1][1], raw[2][1])
	}

	tbl, err := NewLoader(NewExcelReader()).Load(buf.Bytes(), KindSpreadsheet)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	res, err := SortRows(tbl, Binding{Name: "Property Name", Distance: "Distance"}, Ascending)
	if err != nil {
		t.Fatalf("SortRows error = %v", err)
	}
	if res.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0", res.Dropped)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
	if res.Rows[0].Name != "Birch Lane" || res.Rows[0].Distance != 1.5 {
		t.Errorf("Rows[0] = %+v, want Birch Lane 1.5", res.Rows[0])
	}
	if res.Rows[1].Name != "Maple Court" || res.Rows[1].Distance != 3000 {
		t.Errorf("Rows[1] = %+v, want Maple Court 3000", res.Rows[1])
	}
}
