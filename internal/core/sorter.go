package core

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortOrder is the direction of the distance sort.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// String returns the label shown next to the order toggle.
func (o SortOrder) String() string {
	if o == Descending {
		return "Farthest → Closest"
	}
	return "Closest → Farthest"
}

// Param returns the form/query value for the order.
func (o SortOrder) Param() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseSortOrder accepts "asc"/"desc" and the long forms. Blank is Ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", "closest":
		return Ascending, nil
	case "desc", "descending", "farthest":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort order %q", s)
	}
}

// ResultRow is a selected row projected to the output columns. Distance is
// always a real number.
type ResultRow struct {
	Position     int     `json:"position"`
	Name         string  `json:"name"`
	Distance     float64 `json:"distance"`
	Neighborhood string  `json:"neighborhood,omitempty"`
}

// Result is the sorted output of one run.
type Result struct {
	Rows    []ResultRow `json:"rows"`
	Dropped int         `json:"dropped"`
	Order   SortOrder   `json:"-"`
	Binding Binding     `json:"binding"`
}

// SortRows drops rows without a numeric distance and sorts the rest by
// distance. Ties keep their original relative order in both directions.
// If nothing survives the drop, it returns ErrNoMatchingRows.
func SortRows(t *Table, b Binding, order SortOrder) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	normalized, err := NormalizeDistance(t, b.Distance)
	if err != nil {
		return nil, err
	}
	namePos, err := normalized.mustColumn(b.Name)
	if err != nil {
		return nil, err
	}
	distPos, _ := normalized.mustColumn(b.Distance)
	neighPos := -1
	if b.Neighborhood != "" {
		if neighPos, err = normalized.mustColumn(b.Neighborhood); err != nil {
			return nil, err
		}
	}

	res := &Result{Order: order, Binding: b}
	for i, row := range normalized.Rows {
		d, ok := row[distPos].Float()
		if !ok {
			res.Dropped++
			continue
		}
		rr := ResultRow{
			Position: normalized.Position(i),
			Name:     strings.TrimSpace(row[namePos].String()),
			Distance: d,
		}
		if neighPos >= 0 {
			rr.Neighborhood = strings.TrimSpace(row[neighPos].String())
		}
		res.Rows = append(res.Rows, rr)
	}

	if len(res.Rows) == 0 {
		return nil, fmt.Errorf("%w (%d dropped)", ErrNoMatchingRows, res.Dropped)
	}

	slices.SortStableFunc(res.Rows, func(a, b ResultRow) int {
		if order == Descending {
			return cmp.Compare(b.Distance, a.Distance)
		}
		return cmp.Compare(a.Distance, b.Distance)
	})
	return res, nil
}

// Len returns the number of result rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Distances returns the distances in result order.
func (r *Result) Distances() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Distance
	}
	return out
}

// Numbered renders one "n. Name — d miles" line per row, numbered from 1.
func (r *Result) Numbered() []string {
	lines := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		lines[i] = fmt.Sprintf("%d. %s — %s miles", i+1, row.Name, formatDistance(row.Distance))
	}
	return lines
}
