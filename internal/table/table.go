// Package table defines the in-memory tabular model shared by the reader,
// merger, filter and exporter.
//
// A Table is an ordered list of uniquely named columns and an ordered list of
// rows. Every row holds exactly one Cell per column. Cells are nullable text:
// values are never coerced to numbers or dates, so identifiers such as branch
// codes with leading zeros survive a full read/merge/export cycle unchanged.
//
// Tables are immutable once constructed. Methods that derive a new table
// (Select) share row storage with the receiver, which is safe only because no
// method ever writes to a row after New returns.
package table

import (
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5/pgtype"
)

// Cell is a nullable text value. Valid=false represents a missing value.
type Cell = pgtype.Text

// Text returns a non-null cell holding s (which may be empty).
func Text(s string) Cell {
	return pgtype.Text{String: s, Valid: true}
}

// Null returns a missing cell.
func Null() Cell {
	return pgtype.Text{}
}

// FromRaw converts a raw source value to a cell. Empty strings become null,
// matching how spreadsheet and CSV readers report blank fields.
func FromRaw(s string) Cell {
	if s == "" {
		return Null()
	}
	return Text(s)
}

// Row is one record; Row[i] belongs to the table's i-th column.
type Row []Cell

// Table is an immutable, column-ordered set of text rows.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New builds a table. Column names must be unique and every row must have
// exactly len(columns) cells. New copies the column slice but takes ownership
// of rows: callers must not modify them afterwards.
func New(columns []string, rows []Row) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
	}

	return &Table{
		columns: slices.Clone(columns),
		index:   index,
		rows:    rows,
	}, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(columns []string, rows []Row) *Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names in table order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table has a column with this exact name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns the i-th row. The returned slice must not be modified.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Rows returns all rows in order. The returned rows must not be modified.
func (t *Table) Rows() []Row {
	return t.rows[:len(t.rows):len(t.rows)]
}

// Value returns the cell at row i for the named column, or null if the column
// does not exist.
func (t *Table) Value(i int, column string) Cell {
	c, ok := t.index[column]
	if !ok {
		return Null()
	}
	return t.rows[i][c]
}

// ColumnValues returns the cells of one column in row order.
func (t *Table) ColumnValues(column string) ([]Cell, bool) {
	c, ok := t.index[column]
	if !ok {
		return nil, false
	}
	values := make([]Cell, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[c]
	}
	return values, true
}

// Select returns a new table holding the rows whose mask entry is true.
// The mask must have one entry per row.
func (t *Table) Select(mask []bool) (*Table, error) {
	if len(mask) != len(t.rows) {
		return nil, fmt.Errorf("mask has %d entries, table has %d rows", len(mask), len(t.rows))
	}
	kept := make([]Row, 0, countTrue(mask))
	for i, keep := range mask {
		if keep {
			kept = append(kept, t.rows[i])
		}
	}
	return &Table{columns: t.columns, index: t.index, rows: kept}, nil
}

// Equal reports whether both tables have the same columns in the same order
// and identical cells, null-ness included.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if !slices.Equal(t.columns, other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.rows {
		if !slices.Equal(t.rows[i], other.rows[i]) {
			return false
		}
	}
	return true
}

// Records returns the table as header + rows of plain strings, null cells
// rendered as "". Useful for CSV output and assertions.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.rows)+1)
	out = append(out, t.Columns())
	for _, row := range t.rows {
		rec := make([]string, len(row))
		for i, c := range row {
			if c.Valid {
				rec[i] = c.String
			}
		}
		out = append(out, rec)
	}
	return out
}

func countTrue(mask []bool) int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return n
}
