// Package source reads the delimited and spreadsheet extracts that feed the pipeline.
package source

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a header-indexed set of text rows read from one source. Cells are
// kept as raw text; coercion is the normalizer's job.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a Table and its column index. Column names are matched
// case-insensitively after trimming; a leading UTF-8 BOM is dropped.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{Name: name, Header: header, Rows: rows}
	t.index = make(map[string]int, len(header))
	for i, col := range header {
		key := normalizeCol(col)
		if _, dup := t.index[key]; dup {
			continue // first occurrence wins
		}
		t.index[key] = i
	}
	return t
}

// normalizeCol lowercases and trims a column name for lookups.
func normalizeCol(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the table carries the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[normalizeCol(col)]
	return ok
}

// Get returns the cell at row i for the named column, or "" when the column
// is absent or the row is short.
func (t *Table) Get(i int, col string) string {
	idx, ok := t.index[normalizeCol(col)]
	if !ok || i < 0 || i >= len(t.Rows) || idx >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][idx]
}

// Require returns an error naming every missing column.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("source: %s: missing required columns: %s", t.Name, strings.Join(missing, ", "))
	}
	return nil
}

// WithColumn returns a copy of the table whose named column has been
// rewritten by fn. Rows shorter than the header are padded. The receiver is
// not modified.
func (t *Table) WithColumn(col string, fn func(string) string) *Table {
	idx, ok := t.index[normalizeCol(col)]
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		cp := make([]string, max(len(r), len(t.Header)))
		copy(cp, r)
		if ok {
			cp[idx] = fn(cp[idx])
		}
		rows[i] = cp
	}
	header := append([]string(nil), t.Header...)
	return NewTable(t.Name, header, rows)
}
