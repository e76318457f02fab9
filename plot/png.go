package plot

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"regressionlab/dataset"
)

// 6.4x4.8 in at 300 DPI.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1440
	DefaultDPI    = 300.0
)

const (
	headroom        = 0.30
	footroom        = 0.05
	annotationLeft  = 0.30
	annotationStep  = 0.09
	annotationFont  = 8.0
	annotationStart = 0.22
)

var (
	scatterColor = chart.ColorBlue
	curveColor   = chart.ColorRed
)

// PNG renders figures with go-chart.
type PNG struct {
	Width  int
	Height int
	DPI    float64
}

func NewPNG(width, height int, dpi float64) *PNG {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &PNG{Width: width, Height: height, DPI: dpi}
}

// Render draws fig and writes it to path, creating parent directories. Nothing is
// written when drawing fails.
func (r *PNG) Render(fig Figure, path string) error {
	ch, err := r.chart(fig)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &dataset.WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &dataset.WriteError{Path: path, Err: err}
	}
	return nil
}

func (r *PNG) chart(fig Figure) (chart.Chart, error) {
	if len(fig.Scatter) == 0 && len(fig.Curve) == 0 {
		return chart.Chart{}, errors.New("nothing to plot")
	}

	all := append(append([]Point(nil), fig.Scatter...), fig.Curve...)
	xMin, xMax := padded(xsOf(all), footroom, footroom)
	yLow, yHigh := span(ysOf(all))
	ySpan := yHigh - yLow
	yMin, yMax := yLow-footroom*ySpan, yHigh+headroom*ySpan

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    fig.ScatterTag,
			XValues: xsOf(fig.Scatter),
			YValues: ysOf(fig.Scatter),
			Style:   pointStyle(scatterColor),
		},
		chart.ContinuousSeries{
			Name:    fig.CurveTag,
			XValues: xsOf(fig.Curve),
			YValues: ysOf(fig.Curve),
			Style: chart.Style{
				StrokeColor: curveColor,
				StrokeWidth: 4,
			},
		},
	}

	if fig.Annotation != "" {
		x := xMin + annotationLeft*(xMax-xMin)
		var notes []chart.Value2
		for i, line := range strings.Split(fig.Annotation, "\n") {
			notes = append(notes, chart.Value2{
				XValue: x,
				YValue: yHigh + (annotationStart-float64(i)*annotationStep)*ySpan,
				Label:  line,
				Style:  chart.Style{FontSize: annotationFont},
			})
		}
		series = append(series, chart.AnnotationSeries{Annotations: notes})
	}

	ch := chart.Chart{
		Title:      fig.Title,
		Width:      r.Width,
		Height:     r.Height,
		DPI:        r.DPI,
		Background: chart.Style{Padding: chart.Box{Top: 60, Left: 30, Right: 40, Bottom: 30}},
		XAxis: chart.XAxis{
			Name:  fig.XLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  fig.YLabel,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, nil
}

// pointStyle renders points only, without connecting lines.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    6,
		DotColor:    col,
	}
}

// span returns the extent of values, widened around a single value so the axis
// range is never empty.
func span(values []float64) (lo, hi float64) {
	lo, hi = floats.Min(values), floats.Max(values)
	if hi == lo {
		pad := math.Max(1, math.Abs(lo)*0.1)
		lo, hi = lo-pad, hi+pad
	}
	return lo, hi
}

func padded(values []float64, below, above float64) (float64, float64) {
	lo, hi := span(values)
	width := hi - lo
	return lo - below*width, hi + above*width
}
