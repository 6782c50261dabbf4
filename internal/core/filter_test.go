package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetmerge/internal/table"
)

func TestParseQuery(t *testing.T) {
	assert.Equal(t, []string{"1201", "HANOI"}, ParseQuery(" 1201 , hanoi ,, "))
	assert.Empty(t, ParseQuery(""))
	assert.Empty(t, ParseQuery(" , ,"))
}

func TestMask(t *testing.T) {
	values := []table.Cell{
		table.Text("1201"),
		table.Text("12010"),
		table.Text("A1201"),
		table.Text("Hanoi Branch"),
		table.Null(),
	}

	tests := []struct {
		name  string
		query string
		exact bool
		want  []bool
	}{
		{"empty query keeps all", "", false, []bool{true, true, true, true, true}},
		{"blank tokens keep all", " , ", true, []bool{true, true, true, true, true}},
		{"substring digits", "1201", false, []bool{true, true, true, false, false}},
		{"exact digits", "1201", true, []bool{true, false, false, false, false}},
		{"case insensitive substring", "hanoi", false, []bool{false, false, false, true, false}},
		{"exact mode still substring for text", "HANOI", true, []bool{false, false, false, true, false}},
		{"mixed query exact", "1201,HANOI", true, []bool{true, false, false, true, false}},
		{"regex characters are literal", "1.01", false, []bool{false, false, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(values, tt.query, tt.exact))
		})
	}
}

func TestMask_ExactIgnoresSurroundingText(t *testing.T) {
	// Digit values are compared whole; a padded value is not equal.
	got := Mask([]table.Cell{table.Text(" 1201"), table.Text("001201")}, "1201", true)
	assert.Equal(t, []bool{false, false}, got)
}

func TestMask_MixedQuerySubstring(t *testing.T) {
	values := []table.Cell{table.Text("1201"), table.Text("HANOI BRANCH"), table.Text("HCM")}
	assert.Equal(t, []bool{true, true, false}, Mask(values, "1201,HANOI", false))
}

func TestFilter(t *testing.T) {
	tbl := table.MustNew([]string{"SOL", "NAME"}, []table.Row{
		cells("1201", "A"),
		cells("1305", "B"),
		cells("<nil>", "C"),
		cells("12010", "D"),
	})

	got, err := Filter(tbl, "SOL", "1201", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, strs(t, got, "NAME"))
	assert.Equal(t, tbl.Columns(), got.Columns())

	all, err := Filter(tbl, "SOL", "", false)
	require.NoError(t, err)
	assert.True(t, all.Equal(tbl))
}

func TestFilter_UnknownColumn(t *testing.T) {
	tbl := table.MustNew([]string{"SOL"}, nil)

	_, err := Filter(tbl, "BRCD", "1", false)
	assert.True(t, errors.Is(err, ErrUnknownColumn))
	assert.Contains(t, err.Error(), `"BRCD"`)
}
