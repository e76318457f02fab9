package ml

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoData         = errors.New("no data points")
	ErrLengthMismatch = errors.New("series length mismatch")
)

// Polyfit returns least-squares coefficients, lowest power first, of a polynomial of
// the given degree through (xs, ys).
func Polyfit(xs, ys []float64, degree int) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}
	if len(xs) == 0 {
		return nil, ErrNoData
	}
	if degree < 0 {
		return nil, fmt.Errorf("invalid degree %d", degree)
	}
	if degree >= len(xs) {
		return nil, fmt.Errorf("degree %d needs at least %d points, got %d", degree, degree+1, len(xs))
	}
	if distinct := countDistinct(xs); degree >= distinct {
		return nil, fmt.Errorf("degree %d needs at least %d distinct x values, got %d", degree, degree+1, distinct)
	}

	// Fit in u = (x-center)/scale so the columns stay within [-1, 1].
	center, scale := normalization(xs)
	cols := degree + 1
	vandermonde := mat.NewDense(len(xs), cols, nil)
	for i, x := range xs {
		u := (x - center) / scale
		v := 1.0
		for k := 0; k < cols; k++ {
			vandermonde.Set(i, k, v)
			v *= u
		}
	}
	b := mat.NewVecDense(len(ys), append([]float64(nil), ys...))

	var qr mat.QR
	qr.Factorize(vandermonde)
	var solution mat.VecDense
	if err := qr.SolveVecTo(&solution, false, b); err != nil {
		return nil, fmt.Errorf("degree %d fit: %w", degree, err)
	}

	coeffs := unscale(solution.RawVector().Data, center, scale)
	for _, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("degree %d fit: non-finite coefficient", degree)
		}
	}
	return coeffs, nil
}

// normalization returns the mean of xs and the largest distance from it.
func normalization(xs []float64) (center, scale float64) {
	center = stat.Mean(xs, nil)
	for _, x := range xs {
		scale = math.Max(scale, math.Abs(x-center))
	}
	if scale == 0 {
		scale = 1
	}
	return center, scale
}

// unscale rewrites coefficients of u = (x-center)/scale as coefficients of x by
// expanding each (x-center)^k binomially.
func unscale(a []float64, center, scale float64) []float64 {
	coeffs := make([]float64, len(a))
	for k, ak := range a {
		ak /= math.Pow(scale, float64(k))
		binom := 1.0
		for j := 0; j <= k; j++ {
			coeffs[j] += ak * binom * math.Pow(-center, float64(k-j))
			binom = binom * float64(k-j) / float64(j+1)
		}
	}
	return coeffs
}

func countDistinct(xs []float64) int {
	seen := make(map[float64]struct{}, len(xs))
	for _, x := range xs {
		seen[x] = struct{}{}
	}
	return len(seen)
}

// FitDegree bounds the re-fit degree by both the row count and the configured cap.
func FitDegree(rows, degreeCap int) int {
	degree := rows - 1
	if degreeCap < degree {
		degree = degreeCap
	}
	if degree < 0 {
		degree = 0
	}
	return degree
}

// EvalPolynomial evaluates coefficients (lowest power first) at x.
func EvalPolynomial(coeffs []float64, x float64) float64 {
	var y float64
	for k := len(coeffs) - 1; k >= 0; k-- {
		y = y*x + coeffs[k]
	}
	return y
}
