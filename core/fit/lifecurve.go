package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// LifeCurve is cycles-to-failure as a function of depth of discharge:
//
//	life(d) = a0 + a1*exp(a2*d) + a3*exp(a4*d)
type LifeCurve [5]float64

// Eval returns the cycle life at depth of discharge d (percent).
func (c LifeCurve) Eval(d float64) float64 {
	return c[0] + c[1]*math.Exp(c[2]*d) + c[3]*math.Exp(c[4]*d)
}

// Initial exponents for the rate search. A fast and a slow decay cover the
// usual shape of datasheet cycle-life tables over 0..100% DOD.
var lifeRateGuess = []float64{-0.05, -0.005}

const (
	lifeMaxIterations  = 2000
	lifeMaxEvaluations = 20000
)

// FitLifeCurve fits a LifeCurve to (dod, cycles) samples. The curve is
// linear in a0, a1 and a3 once the rates a2 and a4 are fixed, so the rates
// are searched with Nelder-Mead and each candidate is scored by the linear
// least squares solve for the remaining three coefficients.
//
// A search that stops on an iteration or evaluation limit is reported
// through Status; the best coefficients found are still returned. So is a
// table whose repeated depths cannot separate the three linear terms.
func FitLifeCurve(dod, cycles []float64) (LifeCurve, Status, error) {
	if err := checkSamples(dod, cycles); err != nil {
		return LifeCurve{}, Status{}, err
	}
	var penalty float64
	for _, y := range cycles {
		penalty += y * y
	}
	penalty = penalty*1e6 + 1

	evals := 0
	score := func(x []float64) float64 {
		evals++
		lin, _, ok := solveLinearLife(dod, cycles, x[0], x[1])
		if !ok {
			return penalty
		}
		c := LifeCurve{lin[0], lin[1], x[0], lin[2], x[1]}
		return sse(dod, cycles, c.Eval)
	}

	p := optimize.Problem{Func: score}
	settings := &optimize.Settings{
		MajorIterations: lifeMaxIterations,
		FuncEvaluations: lifeMaxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-9,
			Iterations: 200,
		},
	}
	x0 := append([]float64(nil), lifeRateGuess...)
	res, err := optimize.Minimize(p, x0, settings, &optimize.NelderMead{})
	if res == nil {
		return LifeCurve{}, Status{}, fmt.Errorf("fit: life curve: %w", err)
	}
	rates := res.X
	lin, full, ok := solveLinearLife(dod, cycles, rates[0], rates[1])
	if !ok {
		rates = x0
		lin, full, ok = solveLinearLife(dod, cycles, rates[0], rates[1])
		if !ok {
			return LifeCurve{}, Status{}, errors.New("fit: life curve: no finite solution")
		}
	}
	c := LifeCurve{lin[0], lin[1], rates[0], lin[2], rates[1]}
	st := Status{
		Converged:   err == nil && converged(res.Status),
		Residual:    sse(dod, cycles, c.Eval),
		Evaluations: evals,
		Reason:      res.Status.String(),
	}
	if err != nil {
		st.Reason = err.Error()
	}
	if !full {
		st.Converged = false
		st.Reason = fmt.Sprintf("rank deficient design: %d distinct depths of discharge", distinct(dod))
	}
	return c, st, nil
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionConvergence, optimize.MethodConverge,
		optimize.FunctionThreshold, optimize.GradientThreshold, optimize.StepConvergence:
		return true
	}
	return false
}

// solveLinearLife returns the least squares (a0, a1, a3) for fixed rates.
// full is false when the samples could not separate all three terms.
func solveLinearLife(dod, cycles []float64, r1, r2 float64) (coef []float64, full, ok bool) {
	n := len(dod)
	a := mat.NewDense(n, 3, nil)
	for i, d := range dod {
		e1, e2 := math.Exp(r1*d), math.Exp(r2*d)
		if math.IsInf(e1, 0) || math.IsInf(e2, 0) {
			return nil, false, false
		}
		a.Set(i, 0, 1)
		a.Set(i, 1, e1)
		a.Set(i, 2, e2)
	}
	coef, full, err := leastSquares(a, cycles)
	if err != nil {
		return nil, false, false
	}
	for _, v := range coef {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false, false
		}
	}
	return coef, full, true
}
