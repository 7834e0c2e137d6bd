package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// Cell is a single table value.
//
// Cells start out as text exactly as read from the file. Normalization turns
// a cell numeric; a numeric cell with Number.Valid=false is the missing marker.
type Cell struct {
	Text    string        // Raw value as read from the file
	Number  pgtype.Float8 // Coerced value, Valid=false when unparseable
	Numeric bool          // Set once the cell has been coerced
}

// TextCell returns a text cell holding s.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// NumberCell returns a numeric cell holding f.
func NumberCell(f float64) Cell {
	return Cell{
		Text:    formatDistance(f),
		Number:  pgtype.Float8{Float64: f, Valid: true},
		Numeric: true,
	}
}

// MissingCell returns the missing marker. The raw text is kept for display.
func MissingCell(raw string) Cell {
	return Cell{Text: raw, Numeric: true}
}

// IsMissing reports whether the cell carries no usable value.
func (c Cell) IsMissing() bool {
	if c.Numeric {
		return !c.Number.Valid
	}
	return strings.TrimSpace(c.Text) == ""
}

// Float returns the numeric value and whether it is present.
func (c Cell) Float() (float64, bool) {
	if !c.Numeric || !c.Number.Valid {
		return 0, false
	}
	return c.Number.Float64, true
}

// String returns the display form of the cell.
func (c Cell) String() string {
	if c.Numeric {
		if !c.Number.Valid {
			return ""
		}
		return formatDistance(c.Number.Float64)
	}
	return c.Text
}

// Row is one table row, aligned to Table.Columns.
type Row []Cell

// Table is an in-memory table with named columns and ordered rows.
// Every row has exactly len(Columns) cells. Tables are treated as immutable:
// transformations return a new Table.
type Table struct {
	Columns []string
	Rows    []Row

	index     map[string]int
	positions []int // Row positions in the uploaded table; nil means identity
}

// NewTable builds a table from a header and rows, padding short rows with
// empty cells and truncating long ones so that all rows share the column set.
func NewTable(columns []string, rows []Row) *Table {
	t := &Table{
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, len(rows)),
	}
	for i, row := range rows {
		aligned := make(Row, len(columns))
		copy(aligned, row)
		t.Rows[i] = aligned
	}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		if _, dup := t.index[col]; !dup {
			t.index[col] = i
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of a column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		t.buildIndex()
	}
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table has a column with this exact name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Cell returns the cell at row i of the named column.
func (t *Table) Cell(i int, column string) (Cell, bool) {
	pos, ok := t.ColumnIndex(column)
	if !ok || i < 0 || i >= len(t.Rows) {
		return Cell{}, false
	}
	return t.Rows[i][pos], true
}

// mustColumn returns the column index or an ErrUnknownColumn error.
func (t *Table) mustColumn(name string) (int, error) {
	pos, ok := t.ColumnIndex(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return pos, nil
}

// Position returns the index row i had in the originally uploaded table.
func (t *Table) Position(i int) int {
	if t.positions == nil {
		return i
	}
	return t.positions[i]
}

// withRows returns a new table with the same columns and the given rows.
// positions maps each row back to the uploaded table; nil keeps t's mapping,
// which requires rows to line up with t.Rows.
// Rows are shared, not copied; callers must not modify them.
func (t *Table) withRows(rows []Row, positions []int) *Table {
	if positions == nil {
		positions = t.positions
	}
	return &Table{
		Columns:   t.Columns,
		Rows:      rows,
		index:     t.index,
		positions: positions,
	}
}

// formatDistance renders a float with the shortest representation that
// round-trips through strconv.ParseFloat.
func formatDistance(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
