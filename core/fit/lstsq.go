package fit

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// rankTolerance is the singular value cutoff, relative to the largest, below
// which a direction of the design is treated as unidentified by the samples.
const rankTolerance = 1e-12

// leastSquares solves min |a*x - b|. A design that the direct solve reports
// as ill conditioned is solved again through a thin SVD truncated at its
// numerical rank, which yields the minimum norm solution. full is false
// when that truncation dropped at least one direction.
func leastSquares(a *mat.Dense, b []float64) (x []float64, full bool, err error) {
	r, c := a.Dims()
	bv := mat.NewVecDense(r, append([]float64(nil), b...))
	var v mat.VecDense
	err = v.SolveVec(a, bv)
	if err == nil {
		return vecData(&v, c), true, nil
	}
	var cond mat.Condition
	if !errors.As(err, &cond) {
		return nil, false, err
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, false, errors.New("fit: svd factorization failed")
	}
	rank := svd.Rank(rankTolerance)
	if rank == 0 {
		return make([]float64, c), false, nil
	}
	var s mat.VecDense
	svd.SolveVecTo(&s, bv, rank)
	return vecData(&s, c), rank == min(r, c), nil
}

func vecData(v *mat.VecDense, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
