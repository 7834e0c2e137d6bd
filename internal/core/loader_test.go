package core

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestKindFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    FileKind
		wantErr bool
	}{
		{"csv", "listings.csv", KindCSV, false},
		{"upper case csv", "LISTINGS.CSV", KindCSV, false},
		{"xlsx", "listings.xlsx", KindSpreadsheet, false},
		{"xls", "old.xls", KindSpreadsheet, false},
		{"text", "notes.txt", 0, true},
		{"no extension", "listings", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KindFromFilename(tt.file)
			if tt.wantErr {
				if !IsLoadError(err, LoadUnsupported) {
					t.Errorf("KindFromFilename(%q) error = %v, want LoadUnsupported", tt.file, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("KindFromFilename(%q) error = %v", tt.file, err)
			}
			if got != tt.want {
				t.Errorf("KindFromFilename(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestLoader_CSV(t *testing.T) {
	tests := []struct {
		name        string
		input       []byte
		wantColumns []string
		wantNames   []string
	}{
		{
			name:        "plain",
			input:       []byte("Property Name,Distance\nMaple Court,3\nBirch Lane,1.5\n"),
			wantColumns: []string{"Property Name", "Distance"},
			wantNames:   []string{"Maple Court", "Birch Lane"},
		},
		{
			name:        "BOM before header",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, "Property Name,Distance\nMaple Court,3\n"...),
			wantColumns: []string{"Property Name", "Distance"},
			wantNames:   []string{"Maple Court"},
		},
		{
			name:        "latin-1",
			input:       []byte("Property Name,Distance\nCaf\xe9 Row,2\n"),
			wantColumns: []string{"Property Name", "Distance"},
			wantNames:   []string{"Café Row"},
		},
		{
			name:        "blank lines and rows skipped",
			input:       []byte("\n,,\nProperty Name,Distance\n,\nMaple Court,3\n\n"),
			wantColumns: []string{"Property Name", "Distance"},
			wantNames:   []string{"Maple Court"},
		},
		{
			name:        "blank and repeated headers",
			input:       []byte("Name,,Distance,Distance,Distance\nA,x,1,2,3\n"),
			wantColumns: []string{"Name", "Unnamed: 1", "Distance", "Distance.1", "Distance.2"},
			wantNames:   []string{"A"},
		},
		{
			name:        "quoted and formula-wrapped header",
			input:       []byte("\"Property Name\",=\"Distance\"\n\"Oak, Upper\",4\n"),
			wantColumns: []string{"Property Name", "Distance"},
			wantNames:   []string{"Oak, Upper"},
		},
	}

	loader := NewLoader(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := loader.Load(tt.input, KindCSV)
			if err != nil {
				t.Fatalf("Load error = %v", err)
			}
			if !reflect.DeepEqual(tbl.Columns, tt.wantColumns) {
				t.Errorf("Columns = %q, want %q", tbl.Columns, tt.wantColumns)
			}
			var names []string
			for i := range tbl.Rows {
				c, _ := tbl.Cell(i, tbl.Columns[0])
				names = append(names, c.String())
			}
			if !reflect.DeepEqual(names, tt.wantNames) {
				t.Errorf("names = %q, want %q", names, tt.wantNames)
			}
		})
	}
}

func TestLoader_Latin1MatchesUTF8(t *testing.T) {
	const content = "Property Name,Distance,Neighborhood\n" +
		"Café Row,2,Über Öst\n" +
		"Crème Brûlée Court,0.75,Señor Hill\n" +
		"Plain Lane,3,North\n"

	latin1, err := charmap.ISO8859_1.NewEncoder().String(content)
	if err != nil {
		t.Fatalf("encode error = %v", err)
	}
	if latin1 == content {
		t.Fatal("latin-1 bytes identical to UTF-8")
	}

	loader := NewLoader(nil)
	fromUTF8, err := loader.Load([]byte(content), KindCSV)
	if err != nil {
		t.Fatalf("Load(utf-8) error = %v", err)
	}
	fromLatin1, err := loader.Load([]byte(latin1), KindCSV)
	if err != nil {
		t.Fatalf("Load(latin-1) error = %v", err)
	}

	if !reflect.DeepEqual(fromLatin1, fromUTF8) {
		t.Errorf("latin-1 table = %+v, want %+v", fromLatin1, fromUTF8)
	}
}

func TestLoader_RaggedRows(t *testing.T) {
	tbl, err := NewLoader(nil).Load([]byte("Name,Distance,Area\nA\nB,2,North,extra\n"), KindCSV)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	for i, row := range tbl.Rows {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", i, len(row))
		}
	}
	if c, _ := tbl.Cell(0, "Distance"); !c.IsMissing() {
		t.Errorf("padded cell = %q, want missing", c.Text)
	}
	if c, _ := tbl.Cell(1, "Area"); c.String() != "North" {
		t.Errorf("Area = %q, want North", c.String())
	}
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		loader *Loader
		input  []byte
		kind   FileKind
		want   LoadErrorKind
	}{
		{"empty file", NewLoader(nil), nil, KindCSV, LoadEmptyTable},
		{"header only", NewLoader(nil), []byte("Name,Distance\n"), KindCSV, LoadEmptyTable},
		{"only blank rows", NewLoader(nil), []byte(",,\n , \n"), KindCSV, LoadEmptyTable},
		{"spreadsheet without reader", NewLoader(nil), []byte("PK"), KindSpreadsheet, LoadMissingCapability},
		{"corrupt workbook", NewLoader(NewExcelReader()), []byte("not a zip"), KindSpreadsheet, LoadParse},
		{"unknown kind", NewLoader(nil), []byte("a"), FileKind(9), LoadUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Load(tt.input, tt.kind)
			if !IsLoadError(err, tt.want) {
				t.Errorf("Load error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoader_LoadFile(t *testing.T) {
	loader := NewLoader(nil)

	if _, err := loader.LoadFile("notes.txt", []byte("a,b\n1,2\n")); !IsLoadError(err, LoadUnsupported) {
		t.Errorf("LoadFile(notes.txt) error = %v, want LoadUnsupported", err)
	}

	tbl, err := loader.LoadFile("props.csv", []byte("Name,Distance\nA,1\n"))
	if err != nil {
		t.Fatalf("LoadFile error = %v", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len = %d, want 1", tbl.Len())
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Distance ", "Distance"},
		{`="00123"`, "00123"},
		{`=" padded "`, "padded"},
		{`="`, `="`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadAllLimited(t *testing.T) {
	data, err := ReadAllLimited(strings.NewReader("12345"), 5)
	if err != nil {
		t.Fatalf("ReadAllLimited at limit error = %v", err)
	}
	if !bytes.Equal(data, []byte("12345")) {
		t.Errorf("data = %q, want 12345", data)
	}

	if _, err := ReadAllLimited(strings.NewReader("123456"), 5); !IsLoadError(err, LoadTooLarge) {
		t.Errorf("ReadAllLimited over limit error = %v, want LoadTooLarge", err)
	}
}
