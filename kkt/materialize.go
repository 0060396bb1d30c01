// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package kkt

import (
	"github.com/gocvx/coneopt/cone"
	"github.com/gocvx/coneopt/linop"
	"github.com/gocvx/coneopt/scaling"
)

// wInvCol returns W^{-1}*e_j, the j-th column of W^{-1} over the cone
// space of dimensions d.
func wInvCol(w *scaling.W, d cone.Dims, m, j int) []float64 {
	e := make([]float64, m)
	e[j] = 1.0
	scaling.Scale(e, w, d, false, true)
	return e
}

// wTCol returns W'*e_j, the j-th column of W' (trans=true, inverse=false).
func wTCol(w *scaling.W, d cone.Dims, m, j int) []float64 {
	e := make([]float64, m)
	e[j] = 1.0
	scaling.Scale(e, w, d, true, false)
	return e
}

// denseColumns returns the dense n-column (rows x n) matrix representation
// of operator op, stored row-major.
func denseColumns(op linop.Operator) []float64 {
	return linop.Materialize(op)
}

// materialize builds the full (n+p+m)-by-(n+p+m) KKT matrix in row-major
// storage:
//
//	[ P   A'  G'*W^{-1} ]
//	[ A   0   0         ]
//	[ G   0   -W'       ]
func materialize(G, A linop.Operator, d cone.Dims, mnl int, w *scaling.W, H linop.Operator) (K []float64, n, p, m int) {
	n = G.Cols()
	m = G.Rows()
	if A != nil {
		p = A.Rows()
	}
	N := n + p + m
	K = make([]float64, N*N)

	set := func(i, j int, v float64) { K[i*N+j] += v }

	if H != nil {
		Hd := denseColumns(H)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				set(i, j, Hd[i*n+j])
			}
		}
	}

	if A != nil {
		Ad := denseColumns(A)
		for i := 0; i < p; i++ {
			for j := 0; j < n; j++ {
				set(n+i, j, Ad[i*n+j])
				set(j, n+i, Ad[i*n+j])
			}
		}
	}

	Gd := denseColumns(G)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			set(n+p+i, j, Gd[i*n+j])
		}
	}
	for j := 0; j < m; j++ {
		col := wInvCol(w, d, m, j)
		gtw := make([]float64, n)
		G.Apply(1.0, col, true, 0.0, gtw)
		for i := 0; i < n; i++ {
			set(i, n+p+j, gtw[i])
		}
	}

	for j := 0; j < m; j++ {
		col := wTCol(w, d, m, j)
		for i := 0; i < m; i++ {
			set(n+p+i, n+p+j, -col[i])
		}
	}

	return K, n, p, m
}
