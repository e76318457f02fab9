package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"regressionlab/config"
	"regressionlab/db"
	"regressionlab/logging"
	"regressionlab/pipeline"
)

func main() {
	configPath := flag.String("config", "", "config file (default: config.yaml, then ../config.yaml)")
	form := flag.String("form", "", "functional form: linear or polynomial")
	seed := flag.Uint64("seed", 0, "random seed")
	samples := flag.Int("samples", 0, "number of samples")
	noise := flag.Float64("noise", 0, "noise standard deviation")
	xMin := flag.Float64("x_min", 0, "lower bound of the x range")
	xMax := flag.Float64("x_max", 0, "upper bound of the x range")
	out := flag.String("out", "", "output CSV path (a .gz suffix compresses)")
	flag.Parse()

	cfg, source, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "form":
			cfg.Synth.Form = *form
		case "seed":
			cfg.Synth.Seed = *seed
		case "samples":
			cfg.Synth.Samples = *samples
		case "noise":
			cfg.Synth.NoiseStd = noise
		case "x_min":
			cfg.Synth.XMin = *xMin
		case "x_max":
			cfg.Synth.XMax = *xMax
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	if source != "" {
		logger.Debug("config loaded", zap.String("path", source))
	}

	outPath := cfg.SynthOutputPath()
	if *out != "" {
		outPath = *out
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, outPath, logger); err != nil {
		logger.Error("generation failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, outPath string, logger *zap.Logger) error {
	var recorder pipeline.SynthesisRecorder
	if cfg.Ledger.Path != "" {
		ledger, err := db.Open(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer ledger.Close()
		recorder = ledger
	}

	form, err := cfg.Synth.BuildForm()
	if err != nil {
		return err
	}
	result, err := pipeline.NewSynthesizer(logger, recorder).Run(ctx, cfg.Synth.Resolve(form), outPath)
	if err != nil {
		return err
	}

	fmt.Printf("Generated data to %s\n", result.Path)
	return nil
}
