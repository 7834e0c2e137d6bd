package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex accepts plain integers and decimals with an optional sign and
// exponent. Thousands separators are deliberately not accepted.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseDistance coerces a raw cell to a distance cell. Anything that is not
// a finite number becomes the missing marker.
func ParseDistance(raw string) Cell {
	s := strings.TrimSpace(raw)
	if !numericRegex.MatchString(s) {
		return MissingCell(raw)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return MissingCell(raw)
	}
	return Cell{
		Text:    raw,
		Number:  pgtype.Float8{Float64: f, Valid: true},
		Numeric: true,
	}
}

// NormalizeDistance returns a copy of t whose column cells are all numeric
// or missing. Cells that are already numeric are kept, so running it twice
// gives the same table as running it once.
func NormalizeDistance(t *Table, column string) (*Table, error) {
	pos, err := t.mustColumn(column)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		if row[pos].Numeric {
			rows[i] = row
			continue
		}
		out := make(Row, len(row))
		copy(out, row)
		out[pos] = ParseDistance(row[pos].Text)
		rows[i] = out
	}
	return t.withRows(rows, nil), nil
}
