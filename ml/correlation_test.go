package ml

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSquaredReferenceRows(t *testing.T) {
	r2, defined, err := RSquared([]float64{2.1, 3.6, 5.0}, []float64{2.0, 3.5, 5.0})
	require.NoError(t, err)
	assert.True(t, defined)
	assert.InDelta(t, 0.999, r2, 0.001)
}

func TestRSquaredPerfectAndInverse(t *testing.T) {
	r2, defined, err := RSquared([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.NoError(t, err)
	assert.True(t, defined)
	assert.InDelta(t, 1, r2, 1e-12)

	// anti-correlation still squares to one
	r2, _, err = RSquared([]float64{1, 2, 3}, []float64{3, 2, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1, r2, 1e-12)
}

func TestRSquaredBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.IntN(50)
		yTrue := make([]float64, n)
		yPred := make([]float64, n)
		for i := range yTrue {
			yTrue[i] = rng.NormFloat64() * 10
			yPred[i] = yTrue[i]*rng.Float64() + rng.NormFloat64()
		}
		r2, defined, err := RSquared(yTrue, yPred)
		require.NoError(t, err)
		if !defined {
			continue
		}
		assert.GreaterOrEqual(t, r2, 0.0)
		assert.LessOrEqual(t, r2, 1.0)
		assert.False(t, math.IsNaN(r2))
	}
}

func TestRSquaredDegenerate(t *testing.T) {
	tests := []struct {
		name         string
		yTrue, yPred []float64
	}{
		{name: "constant truth", yTrue: []float64{4, 4, 4}, yPred: []float64{1, 2, 3}},
		{name: "constant prediction", yTrue: []float64{1, 2, 3}, yPred: []float64{7, 7, 7}},
		{name: "single row", yTrue: []float64{1}, yPred: []float64{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r2, defined, err := RSquared(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.False(t, defined)
			assert.Equal(t, 0.0, r2)
		})
	}
}

func TestRSquaredErrors(t *testing.T) {
	_, _, err := RSquared([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, _, err = RSquared(nil, nil)
	assert.ErrorIs(t, err, ErrNoData)
}
