// Package dataset holds raw tabular record sets as loaded from the source
// store, before they are validated and cleaned into typed records.
package dataset

import "slices"

// Row is a single record keyed by column name. Values carry whatever the
// SQL driver produced: int64, float64, []byte, string, time.Time, or nil.
type Row map[string]any

// Table is an ordered, in-memory record set. Column order follows the
// source query; row order follows source row order.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row to the table.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// MissingColumns returns the required columns the table does not declare,
// in the order they were required.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Clone returns a deep copy of the table. Stages that rewrite rows work
// on a clone so their input stays untouched.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		copied := make(Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out.Rows = append(out.Rows, copied)
	}
	return out
}
