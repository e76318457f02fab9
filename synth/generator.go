package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/montanaflynn/stats"

	"regressionlab/dataset"
)

const (
	DefaultSamples = 100
	DefaultXMin    = 0.0
	DefaultXMax    = 10.0
	DefaultSeed    = 42
)

type Config struct {
	Form        Form
	NoiseStdDev float64
	Samples     int
	XMin        float64
	XMax        float64
	Seed        uint64
}

// DefaultConfig reproduces the reference linear dataset.
func DefaultConfig() Config {
	return Config{
		Form:        ReferenceLinear,
		NoiseStdDev: LinearNoiseStdDev,
		Samples:     DefaultSamples,
		XMin:        DefaultXMin,
		XMax:        DefaultXMax,
		Seed:        DefaultSeed,
	}
}

func (c Config) Validate() error {
	if c.Form == nil {
		return errors.New("functional form is required")
	}
	if c.Samples < 1 {
		return fmt.Errorf("samples must be positive, got %d", c.Samples)
	}
	if c.Samples > 1 && !(c.XMax > c.XMin) {
		return fmt.Errorf("x range [%g, %g] is empty", c.XMin, c.XMax)
	}
	if c.NoiseStdDev < 0 || math.IsNaN(c.NoiseStdDev) {
		return fmt.Errorf("noise standard deviation must not be negative, got %g", c.NoiseStdDev)
	}
	return nil
}

// Linspace returns n evenly spaced points over [min, max]. The last point is max exactly.
func Linspace(min, max float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	xs := make([]float64, n)
	if n == 1 {
		xs[0] = min
		return xs
	}
	step := (max - min) / float64(n-1)
	for i := range xs {
		xs[i] = min + float64(i)*step
	}
	xs[n-1] = max
	return xs
}

// Generate draws y = f(x) + N(0, sigma) over an evenly spaced grid. The same
// configuration always yields the same samples.
func Generate(cfg Config) (dataset.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

	xs := Linspace(cfg.XMin, cfg.XMax, cfg.Samples)
	ds := make(dataset.Dataset, len(xs))
	for i, x := range xs {
		ds[i] = dataset.Sample{X: x, Y: cfg.Form.Eval(x) + rng.NormFloat64()*cfg.NoiseStdDev}
	}
	return ds, nil
}

func Residuals(ds dataset.Dataset, form Form) []float64 {
	res := make([]float64, len(ds))
	for i, s := range ds {
		res[i] = s.Y - form.Eval(s.X)
	}
	return res
}

// NoiseReport describes the injected noise as observed in a generated dataset.
type NoiseReport struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	StdErr float64 `json:"std_err"`
}

func MeasureNoise(ds dataset.Dataset, form Form) (NoiseReport, error) {
	res := Residuals(ds, form)
	mean, err := stats.Mean(res)
	if err != nil {
		return NoiseReport{}, err
	}
	report := NoiseReport{N: len(res), Mean: mean}
	if len(res) > 1 {
		sd, err := stats.StandardDeviationSample(res)
		if err != nil {
			return NoiseReport{}, err
		}
		report.StdDev = sd
		report.StdErr = sd / math.Sqrt(float64(len(res)))
	}
	return report, nil
}
