package pipeline

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"regressionlab/dataset"
	"regressionlab/db"
	"regressionlab/logging"
	"regressionlab/ml"
	"regressionlab/plot"
)

type EvaluationRecorder interface {
	RecordEvaluation(ctx context.Context, run db.EvaluationRun) error
}

// EvaluatorConfig wires an Evaluator. Renderer is required; CacheSize 0 disables
// summary memoization.
type EvaluatorConfig struct {
	Renderer  plot.Renderer
	Logger    *zap.Logger
	Ledger    EvaluationRecorder
	CacheSize int
}

type EvalOptions struct {
	InputPath string
	// DatasetPath enables the pairing cross-check when set.
	DatasetPath string
	ImagePath   string
	DegreeCap   int
	Title       string
	XLabel      string
	YLabel      string
}

type summaryKey struct {
	fingerprint uint64
	degreeCap   int
}

// Evaluator loads a result table, summarizes it and renders the annotated chart.
type Evaluator struct {
	renderer plot.Renderer
	logger   *zap.Logger
	ledger   EvaluationRecorder
	cache    *lru.Cache[summaryKey, ml.FitSummary]
}

func NewEvaluator(cfg EvaluatorConfig) (*Evaluator, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("renderer is required")
	}
	e := &Evaluator{
		renderer: cfg.Renderer,
		logger:   logging.OrNop(cfg.Logger),
		ledger:   cfg.Ledger,
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[summaryKey, ml.FitSummary](cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}
	return e, nil
}

// Run evaluates one result table. When rendering fails the computed summary is
// still returned alongside the error.
func (e *Evaluator) Run(ctx context.Context, opts EvalOptions) (ml.FitSummary, error) {
	table, err := dataset.ReadResults(opts.InputPath)
	if err != nil {
		return ml.FitSummary{}, err
	}
	fingerprint, err := fingerprintFile(opts.InputPath)
	if err != nil {
		return ml.FitSummary{}, err
	}

	sorted := table.SortedByX()
	e.checkPairing(opts.DatasetPath, table)

	summary, err := e.summarize(fingerprint, opts.DegreeCap, sorted)
	if err != nil {
		return ml.FitSummary{}, fmt.Errorf("summarize %s: %w", opts.InputPath, err)
	}

	if err := e.renderer.Render(buildFigure(opts, sorted, summary), opts.ImagePath); err != nil {
		e.logger.Error("render failed",
			zap.String("image", opts.ImagePath),
			zap.Float64("r_squared", summary.RSquared),
			zap.Error(err),
		)
		return summary, err
	}

	e.logger.Info("chart written",
		zap.String("input", opts.InputPath),
		zap.String("image", opts.ImagePath),
		zap.Int("rows", summary.Rows),
		zap.Int("degree", summary.Degree),
		zap.String("equation", summary.Equation()),
		zap.Float64("r_squared", summary.RSquared),
		zap.Bool("r_squared_defined", summary.RSquaredDefined),
	)

	if e.ledger != nil {
		err := e.ledger.RecordEvaluation(ctx, db.EvaluationRun{
			InputPath:       opts.InputPath,
			Fingerprint:     fingerprint,
			Rows:            summary.Rows,
			Degree:          summary.Degree,
			Coefficients:    summary.Coefficients,
			RSquared:        summary.RSquared,
			RSquaredDefined: summary.RSquaredDefined,
			ImagePath:       opts.ImagePath,
		})
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (e *Evaluator) summarize(fingerprint uint64, degreeCap int, table dataset.ResultTable) (ml.FitSummary, error) {
	key := summaryKey{fingerprint: fingerprint, degreeCap: degreeCap}
	if e.cache != nil {
		if summary, ok := e.cache.Get(key); ok {
			e.logger.Debug("summary cache hit", zap.Uint64("fingerprint", fingerprint))
			return summary, nil
		}
	}
	summary, err := ml.Summarize(table, degreeCap)
	if err != nil {
		return ml.FitSummary{}, err
	}
	if e.cache != nil {
		e.cache.Add(key, summary)
	}
	return summary, nil
}

func (e *Evaluator) checkPairing(datasetPath string, table dataset.ResultTable) {
	if datasetPath == "" {
		return
	}
	ds, err := dataset.ReadSamples(datasetPath)
	if err != nil {
		var missing *dataset.MissingInputError
		if !errors.As(err, &missing) {
			e.logger.Warn("pairing check skipped", zap.String("dataset", datasetPath), zap.Error(err))
		}
		return
	}
	if err := dataset.CheckPairing(ds, table); err != nil {
		e.logger.Warn("results do not pair with dataset", zap.String("dataset", datasetPath), zap.Error(err))
	}
}

func buildFigure(opts EvalOptions, sorted dataset.ResultTable, summary ml.FitSummary) plot.Figure {
	fig := plot.Figure{
		Title:      opts.Title,
		XLabel:     opts.XLabel,
		YLabel:     opts.YLabel,
		Scatter:    make([]plot.Point, len(sorted)),
		ScatterTag: "True Data",
		Curve:      make([]plot.Point, len(sorted)),
		CurveTag:   "Regression Line",
		Annotation: summary.Annotation(),
	}
	for i, row := range sorted {
		fig.Scatter[i] = plot.Point{X: row.X, Y: row.YTrue}
		fig.Curve[i] = plot.Point{X: row.X, Y: row.YPred}
	}
	return fig
}
