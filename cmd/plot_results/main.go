package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"regressionlab/config"
	"regressionlab/dataset"
	"regressionlab/db"
	"regressionlab/logging"
	"regressionlab/ml"
	"regressionlab/pipeline"
	"regressionlab/plot"
)

func main() {
	configPath := flag.String("config", "", "config file (default: config.yaml, then ../config.yaml)")
	input := flag.String("input", "", "predictions CSV path")
	output := flag.String("output", "", "chart image path")
	datasetPath := flag.String("dataset", "", "synthetic dataset used for the pairing check")
	degreeCap := flag.Int("degree_cap", 0, "maximum degree of the annotation fit")
	title := flag.String("title", "", "chart title")
	watch := flag.Bool("watch", false, "re-render whenever the input changes")
	flag.Parse()

	cfg, source, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "degree_cap":
			cfg.Evaluate.DegreeCap = *degreeCap
		case "title":
			cfg.Evaluate.Title = *title
		case "watch":
			cfg.Evaluate.Watch = *watch
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

	opts := pipeline.EvalOptions{
		InputPath:   cfg.EvaluateInputPath(),
		DatasetPath: cfg.EvaluateDatasetPath(),
		ImagePath:   cfg.EvaluateImagePath(),
		DegreeCap:   cfg.Evaluate.DegreeCap,
		Title:       cfg.Evaluate.Title,
		XLabel:      cfg.Evaluate.XLabel,
		YLabel:      cfg.Evaluate.YLabel,
	}
	if *input != "" {
		opts.InputPath = *input
	}
	if *output != "" {
		opts.ImagePath = *output
	}
	if *datasetPath != "" {
		opts.DatasetPath = *datasetPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, logger); err != nil {
		code := failure(os.Stderr, err)
		logger.Error("evaluation failed", zap.Error(err))
		logger.Sync()
		os.Exit(code)
	}
}

// failure prints the operator-facing message for err and returns the exit code.
func failure(w io.Writer, err error) int {
	var missing *dataset.MissingInputError
	if errors.As(err, &missing) {
		fmt.Fprintf(w, "Error: %s not found. Run the model trainer first to generate predictions.\n", missing.Path)
		return 1
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}

func run(ctx context.Context, cfg *config.Config, opts pipeline.EvalOptions, logger *zap.Logger) error {
	evalCfg := pipeline.EvaluatorConfig{
		Renderer:  plot.NewPNG(cfg.Evaluate.Width, cfg.Evaluate.Height, cfg.Evaluate.DPI),
		Logger:    logger,
		CacheSize: cfg.Evaluate.CacheSize,
	}
	if cfg.Ledger.Path != "" {
		ledger, err := db.Open(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer ledger.Close()
		evalCfg.Ledger = ledger
	}

	evaluator, err := pipeline.NewEvaluator(evalCfg)
	if err != nil {
		return err
	}

	if cfg.Evaluate.Watch {
		logger.Info("watching for predictions", zap.String("input", opts.InputPath))
		return evaluator.Watch(ctx, opts, func(summary ml.FitSummary, err error) {
			if err != nil {
				logger.Warn("evaluation failed, waiting for next change", zap.Error(err))
				return
			}
			report(summary, opts.ImagePath)
		})
	}

	summary, err := evaluator.Run(ctx, opts)
	if err != nil {
		return err
	}
	report(summary, opts.ImagePath)
	return nil
}

func report(summary ml.FitSummary, imagePath string) {
	fmt.Println(summary.Annotation())
	fmt.Printf("Saved plot to %s\n", imagePath)
}
