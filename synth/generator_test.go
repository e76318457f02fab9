package synth

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regressionlab/dataset"
)

func TestLinspace(t *testing.T) {
	xs := Linspace(0, 10, 100)
	require.Len(t, xs, 100)
	assert.Equal(t, 0.0, xs[0])
	assert.Equal(t, 10.0, xs[99])

	step := 10.0 / 99
	for i := 1; i < len(xs); i++ {
		assert.Greater(t, xs[i], xs[i-1], "x must be strictly increasing at %d", i)
		assert.InDelta(t, step, xs[i]-xs[i-1], 1e-12)
	}

	assert.Equal(t, []float64{3}, Linspace(3, 7, 1))
	assert.Nil(t, Linspace(0, 1, 0))
}

func TestGenerateDeterministic(t *testing.T) {
	configs := map[string]Config{
		"linear": DefaultConfig(),
		"polynomial": {
			Form:        ReferencePolynomial,
			NoiseStdDev: PolynomialNoiseStdDev,
			Samples:     100,
			XMin:        0,
			XMax:        10,
			Seed:        42,
		},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			render := func() []byte {
				ds, err := Generate(cfg)
				require.NoError(t, err)
				var buf bytes.Buffer
				require.NoError(t, dataset.WriteSamples(&buf, ds))
				return buf.Bytes()
			}
			first := render()
			assert.Equal(t, first, render())
		})
	}
}

func TestGenerateSeedChangesNoise(t *testing.T) {
	cfg := DefaultConfig()
	a, err := Generate(cfg)
	require.NoError(t, err)

	cfg.Seed = 7
	b, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Xs(), b.Xs())
	assert.NotEqual(t, a.Ys(), b.Ys())
}

func TestGenerateDomain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.XMin, cfg.XMax, cfg.Samples = -5, 5, 41

	ds, err := Generate(cfg)
	require.NoError(t, err)
	require.Len(t, ds, 41)
	assert.Equal(t, -5.0, ds[0].X)
	assert.Equal(t, 5.0, ds[len(ds)-1].X)
	for i := 1; i < len(ds); i++ {
		assert.Greater(t, ds[i].X, ds[i-1].X)
		assert.InDelta(t, 0.25, ds[i].X-ds[i-1].X, 1e-12)
	}
}

func TestGenerateNoiseCentering(t *testing.T) {
	for _, sigma := range []float64{1.5, 3.0} {
		cfg := Config{
			Form:        ReferencePolynomial,
			NoiseStdDev: sigma,
			Samples:     20000,
			XMin:        0,
			XMax:        10,
			Seed:        42,
		}
		ds, err := Generate(cfg)
		require.NoError(t, err)

		report, err := MeasureNoise(ds, cfg.Form)
		require.NoError(t, err)

		tolerance := 4 * sigma / math.Sqrt(float64(cfg.Samples))
		assert.InDelta(t, 0, report.Mean, tolerance)
		assert.InDelta(t, sigma, report.StdDev, 0.05*sigma)
		assert.Equal(t, cfg.Samples, report.N)
	}
}

func TestGenerateWithoutNoise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoiseStdDev = 0

	ds, err := Generate(cfg)
	require.NoError(t, err)
	for _, s := range ds {
		assert.Equal(t, ReferenceLinear.Eval(s.X), s.Y)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no form", mutate: func(c *Config) { c.Form = nil }},
		{name: "no samples", mutate: func(c *Config) { c.Samples = 0 }},
		{name: "empty range", mutate: func(c *Config) { c.XMax = c.XMin }},
		{name: "negative noise", mutate: func(c *Config) { c.NoiseStdDev = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := Generate(cfg)
			assert.Error(t, err)
		})
	}
}
