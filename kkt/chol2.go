// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package kkt

import (
	"github.com/gocvx/coneopt/cone"
	"github.com/gocvx/coneopt/linop"
	"github.com/gocvx/coneopt/scaling"
	"gonum.org/v1/gonum/mat"
)

// CHOL2 targets cone programs without second-order or semidefinite
// blocks (W^{-1} is then diagonal), reducing the system to the
// n-by-n positive-definite normal equations
//
//	S = H + G' * W^{-1} * W^{-T} * G
//
// solved by Cholesky. If S is numerically singular (H == 0 and G rank
// deficient), the unweighted term A'*A is added to restore definiteness when an
// equality operator A is present, otherwise the factory reports
// ErrRankDeficient.
func CHOL2(d cone.Dims, mnl int) Factory {
	return func(G, A linop.Operator, _ cone.Dims, w *scaling.W, H, Df linop.Operator) (Solver, error) {
		if Df != nil {
			if G == nil {
				G = Df
			} else {
				G = stackRows(Df, G)
			}
		}
		n := G.Cols()
		m := G.Rows()
		S := mat.NewSymDense(n, nil)
		if H != nil {
			Hd := denseColumns(H)
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					S.SetSym(i, j, Hd[i*n+j])
				}
			}
		}
		for j := 0; j < n; j++ {
			e := make([]float64, n)
			e[j] = 1.0
			gcol := make([]float64, m)
			G.Apply(1.0, e, false, 0.0, gcol)
			scaling.Scale(gcol, w, d, true, true)
			scaling.Scale(gcol, w, d, false, true)
			gtg := make([]float64, n)
			G.Apply(1.0, gcol, true, 0.0, gtg)
			for i := 0; i <= j; i++ {
				S.SetSym(i, j, S.At(i, j)+gtg[i])
			}
		}

		var chol mat.Cholesky
		if !chol.Factorize(S) {
			if A == nil {
				return nil, ErrRankDeficient
			}
			p := A.Rows()
			for j := 0; j < n; j++ {
				e := make([]float64, n)
				e[j] = 1.0
				acol := make([]float64, p)
				A.Apply(1.0, e, false, 0.0, acol)
				ata := make([]float64, n)
				A.Apply(1.0, acol, true, 0.0, ata)
				for i := 0; i <= j; i++ {
					S.SetSym(i, j, S.At(i, j)+ata[i])
				}
			}
			if !chol.Factorize(S) {
				return nil, ErrRankDeficient
			}
		}
		return &chol2Solver{chol: &chol, G: G, w: w, d: d, n: n, m: m}, nil
	}
}

type chol2Solver struct {
	chol *mat.Cholesky
	G    linop.Operator
	w    *scaling.W
	d    cone.Dims
	n, m int
}

func (s *chol2Solver) Solve(bx, by, bz []float64) error {
	wbz := append([]float64(nil), bz...)
	scaling.Scale(wbz, s.w, s.d, true, true)
	scaling.Scale(wbz, s.w, s.d, false, true)
	rhs := make([]float64, s.n)
	s.G.Apply(1.0, wbz, true, 0.0, rhs)
	for i := range rhs {
		rhs[i] += bx[i]
	}
	x := mat.NewVecDense(s.n, rhs)
	var sol mat.VecDense
	if err := s.chol.SolveVecTo(&sol, x); err != nil {
		return ErrSingularKKT
	}
	ux := make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		ux[i] = sol.AtVec(i)
	}
	gz := make([]float64, s.m)
	s.G.Apply(1.0, ux, false, 0.0, gz)
	for i := range gz {
		gz[i] -= bz[i]
	}
	scaling.Scale(gz, s.w, s.d, true, true)
	copy(bx, ux)
	copy(bz, gz)
	return nil
}
