package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger, err := Open(filepath.Join(t.TempDir(), "state", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })
	return ledger
}

func TestRecordSynthesis(t *testing.T) {
	ledger := openLedger(t)
	err := ledger.RecordSynthesis(context.Background(), SynthesisRun{
		Form:        "y = 1.5x + 2",
		NoiseStd:    1.5,
		Seed:        42,
		Samples:     100,
		XMax:        10,
		OutputPath:  "data/synthetic.csv",
		Fingerprint: 0xfedcba9876543210,
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, ledger.database.QueryRow(`SELECT COUNT(*) FROM synthesis_runs`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRecentEvaluations(t *testing.T) {
	ledger := openLedger(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, r2 := range []float64{0.5, 0.75, 0.999} {
		require.NoError(t, ledger.RecordEvaluation(ctx, EvaluationRun{
			InputPath:       "data/predictions.csv",
			Fingerprint:     0xffffffffffffff00 + uint64(i),
			Rows:            3,
			Degree:          2,
			Coefficients:    []float64{2, 1.5, float64(i)},
			RSquared:        r2,
			RSquaredDefined: true,
			ImagePath:       "output/regression_plot.png",
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := ledger.RecentEvaluations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 0.999, runs[0].RSquared)
	assert.Equal(t, uint64(0xffffffffffffff02), runs[0].Fingerprint)
	assert.Equal(t, []float64{2, 1.5, 2}, runs[0].Coefficients)
	assert.True(t, runs[0].RSquaredDefined)
	assert.Equal(t, 0.75, runs[1].RSquared)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
