package excel

import "strings"

// Table is an observation table: one header row of variable names followed by
// one row per observation. Cells are kept as text until a load converts them.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Len returns the number of observations.
func (t *Table) Len() int { return len(t.Rows) }

// Column returns the zero-based index of the named column. Header matching
// ignores surrounding whitespace and case.
func (t *Table) Column(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, h := range t.Headers {
		if strings.EqualFold(h, name) {
			return i, true
		}
	}
	return -1, false
}

// Cell returns the text at row, col, or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}
