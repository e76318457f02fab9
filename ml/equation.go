package ml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const decimals = 3

// FormatEquation renders coefficients, lowest power first, as "y = c0 + c1x + c2x^2".
func FormatEquation(coeffs []float64) string {
	if len(coeffs) == 0 {
		return "y = " + formatFixed(0)
	}

	var b strings.Builder
	b.WriteString("y = ")
	for k, c := range coeffs {
		magnitude := formatFixed(math.Abs(c))
		negative := c < 0 && magnitude != formatFixed(0)

		switch {
		case k == 0 && negative:
			b.WriteString("-")
		case k > 0 && negative:
			b.WriteString(" - ")
		case k > 0:
			b.WriteString(" + ")
		}
		b.WriteString(magnitude)

		switch k {
		case 0:
		case 1:
			b.WriteString("x")
		default:
			fmt.Fprintf(&b, "x^%d", k)
		}
	}
	return b.String()
}

func FormatRSquared(r2 float64, defined bool) string {
	if !defined {
		return "R² = undefined"
	}
	return "R² = " + formatFixed(r2)
}

func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
