// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package cone

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Trisc scales the off-diagonal entries of each 's' block of x by 2: it
// is applied before a transposed Sgemv so that the dense matrix-vector
// product computes the correct inner product against a symmetric matrix
// stored with only its lower triangle meaningful.
func Trisc(x []float64, d Dims, offset int) {
	ind := offset + d.NLQ(0)
	for _, m := range d.S {
		for j := 0; j < m; j++ {
			if m-j-1 > 0 {
				blas64.Scal(2.0, subvec(x, ind+j*(m+1)+1, m-j-1))
			}
		}
		ind += m * m
	}
}

// Triusc undoes Trisc by scaling the same off-diagonal entries by 0.5.
func Triusc(x []float64, d Dims, offset int) {
	ind := offset + d.NLQ(0)
	for _, m := range d.S {
		for j := 0; j < m; j++ {
			if m-j-1 > 0 {
				blas64.Scal(0.5, subvec(x, ind+j*(m+1)+1, m-j-1))
			}
		}
		ind += m * m
	}
}

// Sgemv computes y := alpha*A*x + beta*y (trans == false) or
// y := alpha*A'*x + beta*y (trans == true), where A is an m-by-n dense
// matrix in row-major storage (gonum convention) representing a linear
// map between R^n and the cone-vector space S described by d (m = d.L +
// d.SumQ() + d.SumS()).
func Sgemv(A []float64, x, y []float64, d Dims, trans bool, alpha, beta float64, n, lda, offsetA, offsetx, offsety int) {
	m := d.L + d.SumQ() + d.SumS()
	if trans && alpha != 0 {
		Trisc(x, d, offsetx)
	}
	rows, cols := m, n
	tA := blas.NoTrans
	if trans {
		tA = blas.Trans
	}
	gen := blas64.General{Rows: rows, Cols: cols, Stride: lda, Data: A[offsetA:]}
	if trans {
		xv := subvec(x, offsetx, m)
		yv := subvec(y, offsety, n)
		blas64.Gemv(tA, alpha, gen, xv, beta, yv)
	} else {
		xv := subvec(x, offsetx, n)
		yv := subvec(y, offsety, m)
		blas64.Gemv(tA, alpha, gen, xv, beta, yv)
	}
	if trans && alpha != 0 {
		Triusc(x, d, offsetx)
	}
}
