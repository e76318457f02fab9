package dataset

import "sort"

type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dataset is the synthesizer output, x-ascending by construction.
type Dataset []Sample

func (d Dataset) Xs() []float64 {
	xs := make([]float64, len(d))
	for i, s := range d {
		xs[i] = s.X
	}
	return xs
}

func (d Dataset) Ys() []float64 {
	ys := make([]float64, len(d))
	for i, s := range d {
		ys[i] = s.Y
	}
	return ys
}

type ResultRow struct {
	X     float64 `json:"x"`
	YTrue float64 `json:"y_true"`
	YPred float64 `json:"y_pred"`
}

// ResultTable holds the (x, y_true, y_pred) triples emitted by an external trainer.
type ResultTable []ResultRow

// SortedByX returns a stable, x-ascending copy. The receiver is left untouched.
func (t ResultTable) SortedByX() ResultTable {
	sorted := make(ResultTable, len(t))
	copy(sorted, t)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

// Columns splits the table into parallel x, y_true and y_pred slices.
func (t ResultTable) Columns() (xs, yTrue, yPred []float64) {
	xs = make([]float64, len(t))
	yTrue = make([]float64, len(t))
	yPred = make([]float64, len(t))
	for i, row := range t {
		xs[i] = row.X
		yTrue[i] = row.YTrue
		yPred[i] = row.YPred
	}
	return xs, yTrue, yPred
}
