package core

import (
	"strings"
)

// Selection is the set of property names the user picked.
type Selection map[string]struct{}

// NewSelection builds a selection from names. Names are trimmed; blanks are
// ignored. Case is preserved.
func NewSelection(names ...string) Selection {
	sel := make(Selection, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		sel[n] = struct{}{}
	}
	return sel
}

// Has reports whether name (trimmed) is selected.
func (s Selection) Has(name string) bool {
	_, ok := s[strings.TrimSpace(name)]
	return ok
}

// Len returns the number of selected names.
func (s Selection) Len() int {
	return len(s)
}

// Names returns the selected names in table order, followed by any names that
// do not appear in names (in no particular order).
func (s Selection) Names(order []string) []string {
	out := make([]string, 0, len(s))
	seen := make(map[string]bool, len(s))
	for _, n := range order {
		if s.Has(n) && !seen[n] {
			out = append(out, n)
			seen[n] = true
		}
	}
	for n := range s {
		if !seen[n] {
			out = append(out, n)
		}
	}
	return out
}

// CandidateNames returns the distinct, non-blank names of nameCol in order of
// first appearance. A non-blank search keeps only names that contain it,
// ignoring case.
func CandidateNames(t *Table, nameCol, search string) ([]string, error) {
	pos, err := t.mustColumn(nameCol)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	seen := make(map[string]bool)
	var names []string

	for _, row := range t.Rows {
		name := strings.TrimSpace(row[pos].String())
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Select returns the rows whose name is in sel, in original order.
// An empty selection is ErrEmptySelection.
func Select(t *Table, nameCol string, sel Selection) (*Table, error) {
	if sel.Len() == 0 {
		return nil, ErrEmptySelection
	}
	pos, err := t.mustColumn(nameCol)
	if err != nil {
		return nil, err
	}

	var (
		rows      []Row
		positions = []int{}
	)
	for i, row := range t.Rows {
		if sel.Has(row[pos].String()) {
			rows = append(rows, row)
			positions = append(positions, t.Position(i))
		}
	}
	return t.withRows(rows, positions), nil
}
