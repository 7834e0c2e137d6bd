package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// FileKind is the declared format of an uploaded file.
type FileKind int

const (
	KindCSV FileKind = iota
	KindSpreadsheet
)

func (k FileKind) String() string {
	if k == KindSpreadsheet {
		return "spreadsheet"
	}
	return "csv"
}

// MissingCapabilityMessage is shown when spreadsheet parsing is unavailable.
const MissingCapabilityMessage = "Spreadsheet support is not available. Export the file as CSV instead; CSV always works."

// KindFromFilename maps a filename extension to a FileKind.
func KindFromFilename(name string) (FileKind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return KindCSV, nil
	case ".xlsx", ".xlsm", ".xltx", ".xltm", ".xls":
		return KindSpreadsheet, nil
	default:
		return 0, &LoadError{Kind: LoadUnsupported, Err: fmt.Errorf("file %q: expected .csv or .xlsx", name)}
	}
}

// Loader parses uploaded bytes into a Table.
type Loader struct {
	// Sheets parses spreadsheet uploads. Nil disables spreadsheet support.
	Sheets SheetReader
}

// NewLoader creates a Loader. Pass nil to run without spreadsheet support.
func NewLoader(sheets SheetReader) *Loader {
	return &Loader{Sheets: sheets}
}

// Load parses data of the given kind. It never returns an empty table:
// zero data rows is reported as LoadEmptyTable.
func (l *Loader) Load(data []byte, kind FileKind) (*Table, error) {
	var (
		records [][]string
		err     error
	)

	switch kind {
	case KindCSV:
		records, err = l.readCSV(data)
	case KindSpreadsheet:
		records, err = l.readSheet(data)
	default:
		return nil, &LoadError{Kind: LoadUnsupported, Err: fmt.Errorf("file kind %d", kind)}
	}
	if err != nil {
		return nil, err
	}

	t := buildTable(records)
	if t == nil || t.Len() == 0 {
		return nil, &LoadError{Kind: LoadEmptyTable}
	}

	slog.Debug("table loaded",
		"kind", kind.String(),
		"rows", t.Len(),
		"columns", len(t.Columns),
	)
	return t, nil
}

// LoadFile picks the file kind from the filename and loads data.
func (l *Loader) LoadFile(name string, data []byte) (*Table, error) {
	kind, err := KindFromFilename(name)
	if err != nil {
		return nil, err
	}
	return l.Load(data, kind)
}

func (l *Loader) readCSV(data []byte) ([][]string, error) {
	text, enc := NewTextReader(data)
	if enc != EncodingUTF8 {
		slog.Debug("csv is not valid utf-8, decoded as latin-1")
	}

	r := csv.NewReader(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &LoadError{Kind: LoadParse, Err: fmt.Errorf("invalid csv: %w", err)}
	}
	return records, nil
}

func (l *Loader) readSheet(data []byte) ([][]string, error) {
	if l.Sheets == nil {
		return nil, &LoadError{Kind: LoadMissingCapability, Err: errors.New("no spreadsheet reader configured")}
	}
	rows, err := l.Sheets.ReadRows(data)
	if err != nil {
		return nil, &LoadError{Kind: LoadParse, Err: err}
	}
	return rows, nil
}

// buildTable turns raw records into a Table. The first non-blank record is
// the header; blank records are skipped. Returns nil when there is no header.
func buildTable(records [][]string) *Table {
	headerAt := -1
	for i, rec := range records {
		if !isEmptyRow(rec) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil
	}

	columns := headerNames(records[headerAt])

	var rows []Row
	for _, rec := range records[headerAt+1:] {
		if isEmptyRow(rec) {
			continue
		}
		row := make(Row, len(columns))
		for j := 0; j < len(columns) && j < len(rec); j++ {
			row[j] = TextCell(rec[j])
		}
		rows = append(rows, row)
	}

	return NewTable(columns, rows)
}

// headerNames cleans header cells: names are trimmed, blank names become
// "Unnamed: i" and repeated names get ".1", ".2" suffixes.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, h := range header {
		name := CleanCell(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			base := name
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

// CleanCell trims whitespace and strips the Excel text-formula wrapper
// (="value") that some exports put around cells.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadAllLimited reads at most limit bytes from r. Larger inputs fail with
// LoadTooLarge.
func ReadAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &LoadError{Kind: LoadTooLarge, Err: fmt.Errorf("file too large (limit %d bytes)", limit)}
	}
	return data, nil
}
