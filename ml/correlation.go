package ml

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RSquared is the squared Pearson correlation between the true and predicted series.
// When either series has zero variance the correlation is undefined and (0, false)
// is returned.
func RSquared(yTrue, yPred []float64) (float64, bool, error) {
	if len(yTrue) != len(yPred) {
		return 0, false, ErrLengthMismatch
	}
	if len(yTrue) == 0 {
		return 0, false, ErrNoData
	}
	if isConstant(yTrue) || isConstant(yPred) {
		return 0, false, nil
	}

	r := stat.Correlation(yTrue, yPred, nil)
	if math.IsNaN(r) {
		return 0, false, nil
	}
	return math.Min(r*r, 1), true, nil
}

func isConstant(s []float64) bool {
	return floats.Max(s) == floats.Min(s)
}
