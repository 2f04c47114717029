package fit

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Table is a two column lookup evaluated by linear interpolation. Queries
// outside the first or last row return that row's value.
type Table struct {
	xs, ys []float64
	pl     interp.PiecewiseLinear
}

// NewTable builds a Table from paired samples. Rows are sorted by x; two
// rows sharing an x value are rejected.
func NewTable(xs, ys []float64) (*Table, error) {
	if err := checkSamples(xs, ys); err != nil {
		return nil, err
	}
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })
	t := &Table{xs: make([]float64, len(xs)), ys: make([]float64, len(ys))}
	for i, j := range idx {
		t.xs[i] = xs[j]
		t.ys[i] = ys[j]
		if i > 0 && t.xs[i] == t.xs[i-1] {
			return nil, fmt.Errorf("fit: duplicate table row at x=%g", t.xs[i])
		}
	}
	if len(t.xs) > 1 {
		if err := t.pl.Fit(t.xs, t.ys); err != nil {
			return nil, fmt.Errorf("fit: table: %w", err)
		}
	}
	return t, nil
}

// At returns the interpolated value at x.
func (t *Table) At(x float64) float64 {
	if len(t.xs) == 1 {
		return t.ys[0]
	}
	return t.pl.Predict(x)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.xs) }
