package fit

import "errors"

// ErrTooFewSamples is returned when a fit has nothing to work with.
var ErrTooFewSamples = errors.New("fit: too few samples")

// ErrMismatchedSamples is returned when x and y buffers differ in length.
var ErrMismatchedSamples = errors.New("fit: x and y sample counts differ")

// Status reports how a fit terminated. A fit that did not converge still
// returns usable coefficients; callers log the status and carry on.
type Status struct {
	Converged bool
	// Residual is the sum of squared errors at the returned coefficients.
	Residual float64
	// Evaluations counts model evaluations spent by iterative fits.
	Evaluations int
	Reason      string
}

func checkSamples(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return ErrMismatchedSamples
	}
	if len(xs) == 0 {
		return ErrTooFewSamples
	}
	return nil
}
