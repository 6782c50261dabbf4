package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetmerge/internal/table"
)

func exportFixture() *table.Table {
	return table.MustNew([]string{"SOL", "ACCOUNT", "NAME"}, []table.Row{
		cells("001201", "12345678901234", "Nguyễn Văn A"),
		cells("<nil>", "42", "B"),
		cells("1305", "<nil>", "<nil>"),
	})
}

func TestToWorkbookBytes_RoundTrip(t *testing.T) {
	src := exportFixture()

	data, err := ToWorkbookBytes(src)
	require.NoError(t, err)

	back, err := NewReader(nil).Read(data, "out.xlsx", CategoryCKH)
	require.NoError(t, err)

	assert.Equal(t, append(src.Columns(), SourceColumn, TypeColumn), back.Columns())
	assert.Equal(t, src.Len(), back.Len())
	for _, col := range src.Columns() {
		assert.Equal(t, strs(t, src, col), strs(t, back, col), col)
	}
}

func TestToWorkbookBytes_SheetName(t *testing.T) {
	data, err := ToWorkbookBytes(exportFixture())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ExportSheetName}, f.GetSheetList())

	header, err := f.GetCellValue(ExportSheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "SOL", header)
}

func TestToWorkbookBytes_Deterministic(t *testing.T) {
	first, err := ToWorkbookBytes(exportFixture())
	require.NoError(t, err)
	second, err := ToWorkbookBytes(exportFixture())
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "identical tables should give identical bytes")
}

func TestToWorkbookBytes_HeaderOnly(t *testing.T) {
	data, err := ToWorkbookBytes(table.MustNew([]string{"SOL", "NAME"}, nil))
	require.NoError(t, err)

	back, err := NewReader(nil).Read(data, "empty.xlsx", CategoryKKH)
	require.NoError(t, err)
	assert.Equal(t, 0, back.Len())
	assert.True(t, back.HasColumn("NAME"))
}
