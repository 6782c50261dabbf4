package core

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetmerge/internal/table"
)

// xlsxFixture builds a one-sheet workbook whose cells hold the given values.
// Nil values leave the cell empty.
func xlsxFixture(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// cells converts strings to cells; "<nil>" becomes null.
func cells(values ...string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		if v == "<nil>" {
			row[i] = table.Null()
		} else {
			row[i] = table.Text(v)
		}
	}
	return row
}

// strs flattens a column for assertions; null renders as "<nil>".
func strs(t *testing.T, tbl *table.Table, column string) []string {
	t.Helper()
	values, ok := tbl.ColumnValues(column)
	require.True(t, ok, "missing column %q", column)

	out := make([]string, len(values))
	for i, v := range values {
		if v.Valid {
			out[i] = v.String
		} else {
			out[i] = "<nil>"
		}
	}
	return out
}
