package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Polynomial holds coefficients in ascending order: c0 + c1*x + c2*x^2 ...
type Polynomial []float64

// Eval evaluates the polynomial at x using Horner's rule.
func (p Polynomial) Eval(x float64) float64 {
	var v float64
	for i := len(p) - 1; i >= 0; i-- {
		v = v*x + p[i]
	}
	return v
}

// Degree returns the polynomial degree.
func (p Polynomial) Degree() int { return len(p) - 1 }

// FitPolynomial finds the least squares polynomial of the given degree
// through the samples. With fewer samples than coefficients the minimum
// norm solution is returned. Repeated sample positions that leave the
// design rank deficient also yield the minimum norm solution, with a
// status that is not converged.
func FitPolynomial(xs, ys []float64, degree int) (Polynomial, Status, error) {
	if err := checkSamples(xs, ys); err != nil {
		return nil, Status{}, err
	}
	if degree < 0 {
		return nil, Status{}, fmt.Errorf("fit: negative polynomial degree %d", degree)
	}
	// Columns are built on x/scale so cycle counts in the thousands stay
	// well conditioned; the scale is folded back into the coefficients.
	scale := math.Max(math.Abs(floats.Max(xs)), math.Abs(floats.Min(xs)))
	if scale == 0 {
		scale = 1
	}
	n, m := len(xs), degree+1
	a := mat.NewDense(n, m, nil)
	for i, x := range xs {
		v := 1.0
		for j := 0; j < m; j++ {
			a.Set(i, j, v)
			v *= x / scale
		}
	}
	beta, full, err := leastSquares(a, ys)
	if err != nil {
		return nil, Status{}, fmt.Errorf("fit: polynomial: %w", err)
	}
	st := Status{Converged: full}
	if !full {
		st.Reason = fmt.Sprintf("rank deficient design: %d coefficients, %d distinct samples", m, distinct(xs))
	}
	p := make(Polynomial, m)
	div := 1.0
	for j := 0; j < m; j++ {
		p[j] = beta[j] / div
		div *= scale
	}
	st.Residual = sse(xs, ys, p.Eval)
	return p, st, nil
}

func sse(xs, ys []float64, f func(float64) float64) float64 {
	var s float64
	for i, x := range xs {
		d := f(x) - ys[i]
		s += d * d
	}
	return s
}

func distinct(xs []float64) int {
	seen := make(map[float64]struct{}, len(xs))
	for _, x := range xs {
		seen[x] = struct{}{}
	}
	return len(seen)
}
