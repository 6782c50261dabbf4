package core

import "github.com/JonMunkholm/sheetmerge/internal/table"

// Merge concatenates tables in order. The result's columns are the union of
// all input columns in first-seen order; a row whose table lacks a column
// gets a null cell for it.
func Merge(tables []*table.Table) (*table.Table, error) {
	if len(tables) == 0 {
		return nil, ErrEmptyInput
	}

	var columns []string
	pos := make(map[string]int)
	total := 0
	for _, t := range tables {
		for _, c := range t.Columns() {
			if _, ok := pos[c]; !ok {
				pos[c] = len(columns)
				columns = append(columns, c)
			}
		}
		total += t.Len()
	}

	rows := make([]table.Row, 0, total)
	for _, t := range tables {
		// targets[i] is where t's i-th column lands in the merged row.
		cols := t.Columns()
		targets := make([]int, len(cols))
		for i, c := range cols {
			targets[i] = pos[c]
		}

		for _, src := range t.Rows() {
			row := make(table.Row, len(columns))
			for i, cell := range src {
				row[targets[i]] = cell
			}
			rows = append(rows, row)
		}
	}

	return table.New(columns, rows)
}
