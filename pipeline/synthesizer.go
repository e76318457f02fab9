package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"regressionlab/dataset"
	"regressionlab/db"
	"regressionlab/logging"
	"regressionlab/synth"
)

type SynthesisRecorder interface {
	RecordSynthesis(ctx context.Context, run db.SynthesisRun) error
}

// Synthesizer generates a dataset and persists it as CSV.
type Synthesizer struct {
	logger *zap.Logger
	ledger SynthesisRecorder
}

type SynthesisResult struct {
	Path        string
	Dataset     dataset.Dataset
	Noise       synth.NoiseReport
	Fingerprint uint64
}

// NewSynthesizer wires the optional logger and ledger; both may be nil.
func NewSynthesizer(logger *zap.Logger, ledger SynthesisRecorder) *Synthesizer {
	return &Synthesizer{logger: logging.OrNop(logger), ledger: ledger}
}

func (s *Synthesizer) Run(ctx context.Context, cfg synth.Config, path string) (*SynthesisResult, error) {
	ds, err := synth.Generate(cfg)
	if err != nil {
		return nil, fmt.Errorf("generate dataset: %w", err)
	}

	if err := dataset.WriteSamplesFile(path, ds); err != nil {
		return nil, err
	}
	// Same bytes the Evaluator hashes, compressed or not.
	fingerprint, err := fingerprintFile(path)
	if err != nil {
		return nil, err
	}

	noise, err := synth.MeasureNoise(ds, cfg.Form)
	if err != nil {
		return nil, fmt.Errorf("measure noise: %w", err)
	}

	result := &SynthesisResult{
		Path:        path,
		Dataset:     ds,
		Noise:       noise,
		Fingerprint: fingerprint,
	}

	s.logger.Info("dataset written",
		zap.String("path", path),
		zap.String("form", cfg.Form.String()),
		zap.Int("samples", len(ds)),
		zap.Uint64("seed", cfg.Seed),
		zap.Float64("noise_std", cfg.NoiseStdDev),
		zap.Float64("residual_mean", noise.Mean),
		zap.Float64("residual_std", noise.StdDev),
	)

	if s.ledger != nil {
		err := s.ledger.RecordSynthesis(ctx, db.SynthesisRun{
			Form:         cfg.Form.String(),
			NoiseStd:     cfg.NoiseStdDev,
			Seed:         cfg.Seed,
			Samples:      cfg.Samples,
			XMin:         cfg.XMin,
			XMax:         cfg.XMax,
			OutputPath:   path,
			Fingerprint:  result.Fingerprint,
			ResidualMean: noise.Mean,
			ResidualStd:  noise.StdDev,
		})
		if err != nil {
			return result, err
		}
	}
	return result, nil
}
