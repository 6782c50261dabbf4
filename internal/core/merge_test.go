package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetmerge/internal/table"
)

func TestMerge_Single(t *testing.T) {
	tbl := table.MustNew([]string{"SOL", "NAME"}, []table.Row{cells("1201", "A")})

	got, err := Merge([]*table.Table{tbl})
	require.NoError(t, err)
	assert.True(t, got.Equal(tbl))
}

func TestMerge_UnionAndNullFill(t *testing.T) {
	a := table.MustNew([]string{"SOL", "NAME"}, []table.Row{cells("1201", "A")})
	b := table.MustNew([]string{"NAME", "AMT"}, []table.Row{cells("B", "10"), cells("C", "<nil>")})

	got, err := Merge([]*table.Table{a, b})
	require.NoError(t, err)

	assert.Equal(t, []string{"SOL", "NAME", "AMT"}, got.Columns())
	assert.Equal(t, 3, got.Len())
	assert.Equal(t, []string{"1201", "<nil>", "<nil>"}, strs(t, got, "SOL"))
	assert.Equal(t, []string{"A", "B", "C"}, strs(t, got, "NAME"))
	assert.Equal(t, []string{"<nil>", "10", "<nil>"}, strs(t, got, "AMT"))
}

func TestMerge_OrderMatters(t *testing.T) {
	a := table.MustNew([]string{"SOL"}, []table.Row{cells("1")})
	b := table.MustNew([]string{"NAME"}, []table.Row{cells("x")})

	ab, err := Merge([]*table.Table{a, b})
	require.NoError(t, err)
	ba, err := Merge([]*table.Table{b, a})
	require.NoError(t, err)

	assert.Equal(t, []string{"SOL", "NAME"}, ab.Columns())
	assert.Equal(t, []string{"NAME", "SOL"}, ba.Columns())
	assert.False(t, ab.Equal(ba))
}

func TestMerge_EmptyTablesKeepColumns(t *testing.T) {
	a := table.MustNew([]string{"SOL"}, nil)
	b := table.MustNew([]string{"NAME"}, []table.Row{cells("x")})

	got, err := Merge([]*table.Table{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"SOL", "NAME"}, got.Columns())
	assert.Equal(t, 1, got.Len())
}

func TestMerge_EmptyInput(t *testing.T) {
	_, err := Merge(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}
