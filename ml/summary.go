package ml

import (
	"regressionlab/dataset"
)

const DefaultDegreeCap = 5

// FitSummary holds the descriptive statistics shown next to a prediction chart. The
// coefficients re-express the prediction curve; they are not the generating function.
type FitSummary struct {
	Rows            int       `json:"rows"`
	Degree          int       `json:"degree"`
	Coefficients    []float64 `json:"coefficients"`
	RSquared        float64   `json:"r_squared"`
	RSquaredDefined bool      `json:"r_squared_defined"`
}

func (s FitSummary) Equation() string {
	return FormatEquation(s.Coefficients)
}

// Annotation is the two-line chart label: equation, then R².
func (s FitSummary) Annotation() string {
	return s.Equation() + "\n" + FormatRSquared(s.RSquared, s.RSquaredDefined)
}

// Summarize computes R² over the full table and re-fits a polynomial of degree
// min(rows-1, degreeCap) through (x, y_pred). The degree drops below that only when
// there are too few distinct x values to determine it.
func Summarize(table dataset.ResultTable, degreeCap int) (FitSummary, error) {
	if len(table) == 0 {
		return FitSummary{}, ErrNoData
	}
	xs, yTrue, yPred := table.Columns()

	r2, defined, err := RSquared(yTrue, yPred)
	if err != nil {
		return FitSummary{}, err
	}

	degree := FitDegree(len(table), degreeCap)
	if distinct := countDistinct(xs); degree >= distinct {
		degree = distinct - 1
	}
	coeffs, err := Polyfit(xs, yPred, degree)
	if err != nil {
		return FitSummary{}, err
	}

	return FitSummary{
		Rows:            len(table),
		Degree:          degree,
		Coefficients:    coeffs,
		RSquared:        r2,
		RSquaredDefined: defined,
	}, nil
}
