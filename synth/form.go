package synth

import (
	"errors"
	"fmt"
	"strings"
)

// Form is the deterministic part of a synthetic target, y = f(x).
type Form interface {
	Eval(x float64) float64
	Degree() int
	String() string
}

type Linear struct {
	Slope     float64
	Intercept float64
}

func (l Linear) Eval(x float64) float64 {
	return l.Slope*x + l.Intercept
}

func (l Linear) Degree() int { return 1 }

func (l Linear) String() string {
	return fmt.Sprintf("y = %gx + %g", l.Slope, l.Intercept)
}

// Polynomial evaluates sum(c[k] * x^k); Coefficients[0] is the constant term.
type Polynomial struct {
	Coefficients []float64
}

func NewPolynomial(degree int, coefficients []float64) (Polynomial, error) {
	if degree < 0 {
		return Polynomial{}, errors.New("polynomial degree must not be negative")
	}
	if len(coefficients) != degree+1 {
		return Polynomial{}, fmt.Errorf("degree %d needs %d coefficients, got %d", degree, degree+1, len(coefficients))
	}
	c := make([]float64, len(coefficients))
	copy(c, coefficients)
	return Polynomial{Coefficients: c}, nil
}

func (p Polynomial) Eval(x float64) float64 {
	var y float64
	for k := len(p.Coefficients) - 1; k >= 0; k-- {
		y = y*x + p.Coefficients[k]
	}
	return y
}

func (p Polynomial) Degree() int {
	return len(p.Coefficients) - 1
}

func (p Polynomial) String() string {
	terms := make([]string, len(p.Coefficients))
	for k, c := range p.Coefficients {
		switch k {
		case 0:
			terms[k] = fmt.Sprintf("%g", c)
		case 1:
			terms[k] = fmt.Sprintf("%gx", c)
		default:
			terms[k] = fmt.Sprintf("%gx^%d", c, k)
		}
	}
	return "y = " + strings.Join(terms, " + ")
}

// Reference forms. Noise defaults scale with curvature.
var (
	ReferenceLinear     = Linear{Slope: 1.5, Intercept: 2}
	ReferencePolynomial = Polynomial{Coefficients: []float64{1, -2, 0.5, 0.05}}
)

const (
	LinearNoiseStdDev     = 1.5
	PolynomialNoiseStdDev = 3.0
)

func DefaultNoiseStdDev(form Form) float64 {
	if form != nil && form.Degree() > 1 {
		return PolynomialNoiseStdDev
	}
	return LinearNoiseStdDev
}
