// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package lapack

import (
	"errors"

	"github.com/gocvx/coneopt/linalg"
	"gonum.org/v1/gonum/mat"
)

/*
Syevd computes the eigenvalues, and optionally the eigenvectors, of a real
symmetric n-by-n matrix (divide-and-conquer driver).

	Syevd(A, W, opts...)

PURPOSE

Returns the eigenvalues/vectors of a real symmetric n-by-n matrix A stored
row-major in a flat slice with leading dimension ldA. On exit, W contains
the eigenvalues in ascending order. If Jobz is PJobV, the (orthonormal)
eigenvectors are also returned in A, one per column; if Jobz is PJobNo,
only the eigenvalues are computed and the contents of A are unspecified on
return.

ARGUMENTS

	A   []float64, row-major storage of the symmetric matrix
	W   []float64, length at least n; on exit, the eigenvalues ascending

OPTIONS

	N        matrix order; required. If negative, Syevd returns an error.
	LDa      leading dimension, >= max(1,N). If zero, defaults to N.
	OffsetA  offset of A's first element within the backing slice
	OffsetW  offset of W's first element within the backing slice
*/
func Syevd(A, W []float64, opts ...linalg.Opt) error {
	pars, err := linalg.GetParameters(opts...)
	if err != nil {
		return err
	}
	ind := linalg.GetIndexOpts(opts...)
	if ind.N < 0 {
		return errors.New("lapack: Syevd requires N (WithN option)")
	}
	n := ind.N
	if n == 0 {
		return nil
	}
	lda := ind.LDa
	if lda == 0 {
		lda = n
	}
	if lda < n {
		return errors.New("lapack: lda")
	}
	if ind.OffsetA < 0 {
		return errors.New("lapack: offsetA")
	}
	if len(A) < ind.OffsetA+(n-1)*lda+n {
		return errors.New("lapack: sizeA")
	}
	if ind.OffsetW < 0 {
		return errors.New("lapack: offsetW")
	}
	if len(W) < ind.OffsetW+n {
		return errors.New("lapack: sizeW")
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, A[ind.OffsetA+i*lda+j])
		}
	}

	var eig mat.EigenSym
	ok := eig.Factorize(sym, pars.Jobz == linalg.PJobV)
	if !ok {
		return errors.New("lapack: Syevd call error")
	}

	vals := eig.Values(nil)
	copy(W[ind.OffsetW:ind.OffsetW+n], vals)

	if pars.Jobz == linalg.PJobV {
		var vecs mat.Dense
		eig.VectorsTo(&vecs)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				A[ind.OffsetA+i*lda+j] = vecs.At(i, j)
			}
		}
	}
	return nil
}
