package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolyfitRecoversExactPolynomial(t *testing.T) {
	want := []float64{1, -2, 0.5, 0.05}
	xs := make([]float64, 50)
	ys := make([]float64, len(xs))
	for i := range xs {
		xs[i] = float64(i) * 0.2
		ys[i] = EvalPolynomial(want, xs[i])
	}

	got, err := Polyfit(xs, ys, 3)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.InDeltaSlice(t, want, got, 1e-8)
}

func TestPolyfitLine(t *testing.T) {
	got, err := Polyfit([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7}, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2}, got, 1e-12)
}

func TestPolyfitLeastSquares(t *testing.T) {
	got, err := Polyfit([]float64{0, 1, 2, 3}, []float64{0.5, 0.5, 2.5, 2.5}, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.3, 0.8}, got, 1e-12)
}

func TestPolyfitErrors(t *testing.T) {
	_, err := Polyfit([]float64{1, 2}, []float64{1}, 1)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Polyfit(nil, nil, 0)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Polyfit([]float64{1, 2}, []float64{1, 2}, 2)
	assert.Error(t, err)

	_, err = Polyfit([]float64{1, 2}, []float64{1, 2}, -1)
	assert.Error(t, err)

	_, err = Polyfit([]float64{1, 1, 1}, []float64{1, 2, 3}, 1)
	assert.Error(t, err)
}

func TestFitDegree(t *testing.T) {
	tests := []struct {
		rows, cap, want int
	}{
		{rows: 100, cap: 5, want: 5},
		{rows: 3, cap: 5, want: 2},
		{rows: 1, cap: 5, want: 0},
		{rows: 10, cap: 0, want: 0},
		{rows: 0, cap: 5, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FitDegree(tt.rows, tt.cap), "rows=%d cap=%d", tt.rows, tt.cap)
	}
}
