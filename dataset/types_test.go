package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedByXKeepsTriples(t *testing.T) {
	table := ResultTable{
		{X: 3, YTrue: 30, YPred: 31},
		{X: 1, YTrue: 10, YPred: 11},
		{X: 2, YTrue: 20, YPred: 21},
		{X: 1, YTrue: 12, YPred: 13},
		{X: 0, YTrue: 0, YPred: 1},
	}
	original := append(ResultTable(nil), table...)

	sorted := table.SortedByX()

	require.Len(t, sorted, len(table))
	assert.Equal(t, original, table, "input must not be reordered")
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].X, sorted[i].X)
	}
	for _, row := range sorted {
		assert.Contains(t, original, row)
	}
	// equal keys keep their input order
	assert.Equal(t, ResultRow{X: 1, YTrue: 10, YPred: 11}, sorted[1])
	assert.Equal(t, ResultRow{X: 1, YTrue: 12, YPred: 13}, sorted[2])
}

func TestSortedByXAlreadyAscending(t *testing.T) {
	table := ResultTable{{X: 0, YTrue: 2.1, YPred: 2.0}, {X: 1, YTrue: 3.6, YPred: 3.5}, {X: 2, YTrue: 5.0, YPred: 5.0}}
	assert.Equal(t, table, table.SortedByX())
}

func TestColumns(t *testing.T) {
	xs, yTrue, yPred := ResultTable{{X: 1, YTrue: 2, YPred: 3}, {X: 4, YTrue: 5, YPred: 6}}.Columns()
	assert.Equal(t, []float64{1, 4}, xs)
	assert.Equal(t, []float64{2, 5}, yTrue)
	assert.Equal(t, []float64{3, 6}, yPred)
}

func TestCheckPairing(t *testing.T) {
	ds := Dataset{{X: 0, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 3}}

	assert.NoError(t, CheckPairing(ds, ResultTable{{X: 2}, {X: 0}, {X: 1}}))
	assert.Error(t, CheckPairing(ds, ResultTable{{X: 0}, {X: 1}}))
	assert.Error(t, CheckPairing(ds, ResultTable{{X: 0}, {X: 1}, {X: 2.5}}))
}
