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

// LDL is the general-purpose KKT factory: it materializes the full dense
// symmetric-indefinite KKT matrix and factors it once per scaling update.
// gonum's public mat API has no symmetric-indefinite (Bunch-Kaufman)
// factorization, so the materialized system is solved with a pivoted LU
// factorization instead; this solves the same linear system correctly
// without exploiting symmetry for the 2x storage/flop saving a true LDL
// would give.
func LDL(d cone.Dims, mnl int) Factory {
	return func(G, A linop.Operator, _ cone.Dims, w *scaling.W, H, Df linop.Operator) (Solver, error) {
		if Df != nil {
			if G == nil {
				G = Df
			} else {
				G = stackRows(Df, G)
			}
		}
		K, n, p, m := materialize(G, A, d, mnl, w, H)
		N := n + p + m
		lu := mat.NewDense(N, N, K)
		var luf mat.LU
		luf.Factorize(lu)
		if c := luf.Cond(); c > 1e16 {
			return nil, ErrRankDeficient
		}
		return &ldlSolver{lu: &luf, n: n, p: p, m: m}, nil
	}
}

type ldlSolver struct {
	lu      *mat.LU
	n, p, m int
}

func (s *ldlSolver) Solve(bx, by, bz []float64) error {
	N := s.n + s.p + s.m
	rhs := mat.NewDense(N, 1, nil)
	for i, v := range bx {
		rhs.Set(i, 0, v)
	}
	for i, v := range by {
		rhs.Set(s.n+i, 0, v)
	}
	for i, v := range bz {
		rhs.Set(s.n+s.p+i, 0, v)
	}
	var sol mat.Dense
	if err := s.lu.SolveTo(&sol, false, rhs); err != nil {
		return ErrSingularKKT
	}
	for i := range bx {
		bx[i] = sol.At(i, 0)
	}
	for i := range by {
		by[i] = sol.At(s.n+i, 0)
	}
	for i := range bz {
		bz[i] = sol.At(s.n+s.p+i, 0)
	}
	return nil
}

// stackRows returns an operator stacking Df above G, used by the CP
// epigraph reduction to fold the nonlinear constraint Jacobian into the
// cone operator before materializing the KKT system.
func stackRows(Df, G linop.Operator) linop.Operator {
	return &linop.Func{
		NRows: Df.Rows() + G.Rows(),
		NCols: G.Cols(),
		ApplyFunc: func(alpha float64, x []float64, trans bool, beta float64, y []float64) {
			if !trans {
				Df.Apply(alpha, x, false, beta, y[:Df.Rows()])
				G.Apply(alpha, x, false, beta, y[Df.Rows():])
			} else {
				tmp := append([]float64(nil), y...)
				Df.Apply(alpha, x[:Df.Rows()], true, beta, tmp)
				G.Apply(alpha, x[Df.Rows():], true, 1.0, tmp)
				copy(y, tmp)
			}
		},
	}
}
