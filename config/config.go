// Package config loads the YAML settings shared by the generate_data and plot_results
// commands. Every option has a default reproducing the reference behaviour.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"regressionlab/ml"
	"regressionlab/plot"
	"regressionlab/synth"
)

const (
	FormLinear     = "linear"
	FormPolynomial = "polynomial"
)

type Config struct {
	Paths    Paths    `yaml:"paths"`
	Synth    Synth    `yaml:"synth"`
	Evaluate Evaluate `yaml:"evaluate"`
	Log      Log      `yaml:"log"`
	Ledger   Ledger   `yaml:"ledger"`
}

type Paths struct {
	DataDir   string `yaml:"data_dir"`
	OutputDir string `yaml:"output_dir"`
}

type Synth struct {
	Form         string    `yaml:"form"`
	Slope        float64   `yaml:"slope"`
	Intercept    float64   `yaml:"intercept"`
	Degree       int       `yaml:"degree"`
	Coefficients []float64 `yaml:"coefficients"`
	// NoiseStd is optional; unset means the per-form default.
	NoiseStd   *float64 `yaml:"noise_std"`
	Samples    int      `yaml:"samples"`
	XMin       float64  `yaml:"x_min"`
	XMax       float64  `yaml:"x_max"`
	Seed       uint64   `yaml:"seed"`
	OutputFile string   `yaml:"output_file"`
}

type Evaluate struct {
	InputFile   string  `yaml:"input_file"`
	DatasetFile string  `yaml:"dataset_file"`
	ImageFile   string  `yaml:"image_file"`
	DegreeCap   int     `yaml:"degree_cap"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	DPI         float64 `yaml:"dpi"`
	Title       string  `yaml:"title"`
	XLabel      string  `yaml:"x_label"`
	YLabel      string  `yaml:"y_label"`
	CacheSize   int     `yaml:"cache_size"`
	Watch       bool    `yaml:"watch"`
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type Ledger struct {
	Path string `yaml:"path"`
}

func Default() *Config {
	return &Config{
		Paths: Paths{
			DataDir:   "data",
			OutputDir: "output",
		},
		Synth: Synth{
			Form:         FormLinear,
			Slope:        synth.ReferenceLinear.Slope,
			Intercept:    synth.ReferenceLinear.Intercept,
			Degree:       synth.ReferencePolynomial.Degree(),
			Coefficients: append([]float64(nil), synth.ReferencePolynomial.Coefficients...),
			Samples:      synth.DefaultSamples,
			XMin:         synth.DefaultXMin,
			XMax:         synth.DefaultXMax,
			Seed:         synth.DefaultSeed,
			OutputFile:   "synthetic.csv",
		},
		Evaluate: Evaluate{
			InputFile:   "predictions.csv",
			DatasetFile: "synthetic.csv",
			ImageFile:   "regression_plot.png",
			DegreeCap:   ml.DefaultDegreeCap,
			Width:       plot.DefaultWidth,
			Height:      plot.DefaultHeight,
			DPI:         plot.DefaultDPI,
			Title:       "Regression Results",
			XLabel:      "X",
			YLabel:      "y",
			CacheSize:   16,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load decodes path over Default, so keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Discover returns the config file to use: explicit wins, otherwise config.yaml in
// the working directory or its parent (when run from cmd/). An empty result means
// defaults only.
func Discover(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, candidate := range []string{"config.yaml", filepath.Join("..", "config.yaml")} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadOrDefault loads the discovered file, falling back to Default when none exists.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path := Discover(explicit)
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func (c *Config) Validate() error {
	form, err := c.Synth.BuildForm()
	if err != nil {
		return err
	}
	if err := c.Synth.Resolve(form).Validate(); err != nil {
		return err
	}
	if c.Evaluate.DegreeCap < 0 {
		return fmt.Errorf("evaluate.degree_cap must not be negative, got %d", c.Evaluate.DegreeCap)
	}
	if c.Evaluate.CacheSize < 0 {
		return fmt.Errorf("evaluate.cache_size must not be negative, got %d", c.Evaluate.CacheSize)
	}
	return nil
}

// BuildForm turns the synth section into a functional form.
func (s Synth) BuildForm() (synth.Form, error) {
	switch s.Form {
	case FormLinear, "":
		return synth.Linear{Slope: s.Slope, Intercept: s.Intercept}, nil
	case FormPolynomial:
		if len(s.Coefficients) == 0 {
			return nil, errors.New("synth.coefficients is required for the polynomial form")
		}
		return synth.NewPolynomial(s.Degree, s.Coefficients)
	default:
		return nil, fmt.Errorf("unknown synth.form %q", s.Form)
	}
}

// Resolve produces the generator configuration for form, filling the noise level
// from the form when it is not configured.
func (s Synth) Resolve(form synth.Form) synth.Config {
	noise := synth.DefaultNoiseStdDev(form)
	if s.NoiseStd != nil {
		noise = *s.NoiseStd
	}
	return synth.Config{
		Form:        form,
		NoiseStdDev: noise,
		Samples:     s.Samples,
		XMin:        s.XMin,
		XMax:        s.XMax,
		Seed:        s.Seed,
	}
}

func (c *Config) SynthOutputPath() string {
	return c.dataPath(c.Synth.OutputFile)
}

func (c *Config) EvaluateInputPath() string {
	return c.dataPath(c.Evaluate.InputFile)
}

// EvaluateDatasetPath is empty when the pairing cross-check is disabled.
func (c *Config) EvaluateDatasetPath() string {
	if c.Evaluate.DatasetFile == "" {
		return ""
	}
	return c.dataPath(c.Evaluate.DatasetFile)
}

func (c *Config) EvaluateImagePath() string {
	return resolve(c.Paths.OutputDir, c.Evaluate.ImageFile)
}

func (c *Config) dataPath(name string) string {
	return resolve(c.Paths.DataDir, name)
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
