package fit

import (
	"math"
	"strings"
	"testing"
)

func TestFitPolynomialExactCubic(t *testing.T) {
	want := Polynomial{100, -0.01, 2e-6, -1e-10}
	xs := []float64{0, 500, 1000, 2000, 3000, 5000}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = want.Eval(x)
	}
	p, st, err := FitPolynomial(xs, ys, 3)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if !st.Converged {
		t.Fatalf("expected converged status, got %+v", st)
	}
	for _, x := range []float64{0, 250, 1500, 4000} {
		if d := math.Abs(p.Eval(x) - want.Eval(x)); d > 1e-6 {
			t.Errorf("p(%v) off by %v", x, d)
		}
	}
	if p.Degree() != 3 {
		t.Fatalf("degree %d", p.Degree())
	}
}

func TestFitPolynomialLeastSquaresLine(t *testing.T) {
	// Least squares line is y = 1.8x + 1.3.
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1.5, 2.5, 5.5, 6.5}
	p, _, err := FitPolynomial(xs, ys, 1)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if math.Abs(p[0]-1.3) > 1e-9 || math.Abs(p[1]-1.8) > 1e-9 {
		t.Fatalf("unexpected coefficients %v", p)
	}
}

func TestFitPolynomialRepeatedPositions(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
	}{
		{"single position", []float64{500, 500, 500, 500}, []float64{90, 90, 90, 90}},
		{"two positions", []float64{0, 0, 1000, 1000}, []float64{100, 100, 90, 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, st, err := FitPolynomial(tt.xs, tt.ys, 3)
			if err != nil {
				t.Fatalf("fit: %v", err)
			}
			if st.Converged || !strings.Contains(st.Reason, "rank deficient") {
				t.Fatalf("expected rank deficient status, got %+v", st)
			}
			for i, x := range tt.xs {
				if d := math.Abs(p.Eval(x) - tt.ys[i]); d > 1e-9 {
					t.Errorf("p(%v) = %v want %v", x, p.Eval(x), tt.ys[i])
				}
			}
			if st.Residual > 1e-12 {
				t.Fatalf("residual %v", st.Residual)
			}
		})
	}
}

func TestPolynomialEval(t *testing.T) {
	p := Polynomial{1, 2, 3}
	if got := p.Eval(2); got != 17 {
		t.Fatalf("got %v want 17", got)
	}
	if got := (Polynomial{}).Eval(3); got != 0 {
		t.Fatalf("empty polynomial should be zero, got %v", got)
	}
}
