package dataset

import (
	"fmt"
	"math"
)

const pairingTolerance = 1e-9

// CheckPairing verifies that table has one row per sample of ds over the same x
// domain. Rows are compared in x order, so an unsorted table is accepted.
func CheckPairing(ds Dataset, table ResultTable) error {
	if len(ds) != len(table) {
		return fmt.Errorf("row count mismatch: dataset has %d samples, results have %d rows", len(ds), len(table))
	}
	sorted := table.SortedByX()
	for i, s := range ds {
		if math.Abs(s.X-sorted[i].X) > pairingTolerance*math.Max(1, math.Abs(s.X)) {
			return fmt.Errorf("x domain mismatch at row %d: dataset x=%g, results x=%g", i, s.X, sorted[i].X)
		}
	}
	return nil
}
