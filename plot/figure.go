// Package plot turns prediction results into annotated chart images.
package plot

type Point struct {
	X float64
	Y float64
}

// Figure is everything needed to draw one results chart: the true values as an
// unordered point cloud, the prediction curve in x order, and a text annotation.
type Figure struct {
	Title      string
	XLabel     string
	YLabel     string
	Scatter    []Point
	ScatterTag string
	Curve      []Point
	CurveTag   string
	Annotation string
}

// Renderer persists a Figure as an image artifact at path.
type Renderer interface {
	Render(fig Figure, path string) error
}

func xsOf(points []Point) []float64 {
	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
	}
	return xs
}

func ysOf(points []Point) []float64 {
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	return ys
}
