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

// CHOL targets cone programs with equality constraints: it eliminates z
// through the scaling (as CHOL2 does) to obtain the n-by-n positive
// definite block S = H + G'*W^{-1}*W^{-T}*G, checks A's row rank with a
// QR factorization, and solves the resulting (n+p)-by-(n+p) saddle-point
// system
//
//	[ S   A' ] [ux]   [rx]
//	[ A   0  ] [uy] = [by]
//
// by LU factorization of the reduced system.
func CHOL(d cone.Dims, mnl int) Factory {
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
		p := 0
		if A != nil {
			p = A.Rows()
		}

		if A != nil && p > 0 {
			Ad := denseColumns(A)
			At := mat.NewDense(p, n, Ad)
			var qr mat.QR
			qr.Factorize(At.T())
			var rFactor mat.Dense
			qr.RTo(&rFactor)
			rank := 0
			for i := 0; i < min(p, n); i++ {
				if abs(rFactor.At(i, i)) > 1e-12 {
					rank++
				}
			}
			if rank < p {
				return nil, ErrRankDeficient
			}
		}

		N := n + p
		K := make([]float64, N*N)
		for j := 0; j < n; j++ {
			e := make([]float64, n)
			e[j] = 1.0
			gcol := make([]float64, m)
			G.Apply(1.0, e, false, 0.0, gcol)
			scaling.Scale(gcol, w, d, true, true)
			scaling.Scale(gcol, w, d, false, true)
			gtg := make([]float64, n)
			G.Apply(1.0, gcol, true, 0.0, gtg)
			for i := 0; i < n; i++ {
				K[i*N+j] += gtg[i]
			}
		}
		if H != nil {
			Hd := denseColumns(H)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					K[i*N+j] += Hd[i*n+j]
				}
			}
		}
		if A != nil {
			Ad := denseColumns(A)
			for i := 0; i < p; i++ {
				for j := 0; j < n; j++ {
					K[(n+i)*N+j] = Ad[i*n+j]
					K[j*N+(n+i)] = Ad[i*n+j]
				}
			}
		}

		dense := mat.NewDense(N, N, K)
		var lu mat.LU
		lu.Factorize(dense)
		if c := lu.Cond(); c > 1e16 {
			return nil, ErrRankDeficient
		}
		return &cholSolver{lu: &lu, G: G, w: w, d: d, n: n, p: p, m: m}, nil
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

type cholSolver struct {
	lu      *mat.LU
	G       linop.Operator
	w       *scaling.W
	d       cone.Dims
	n, p, m int
}

func (s *cholSolver) Solve(bx, by, bz []float64) error {
	wbz := append([]float64(nil), bz...)
	scaling.Scale(wbz, s.w, s.d, true, true)
	scaling.Scale(wbz, s.w, s.d, false, true)
	rx := make([]float64, s.n)
	s.G.Apply(1.0, wbz, true, 0.0, rx)
	for i := range rx {
		rx[i] += bx[i]
	}

	N := s.n + s.p
	rhs := mat.NewDense(N, 1, nil)
	for i := 0; i < s.n; i++ {
		rhs.Set(i, 0, rx[i])
	}
	for i := 0; i < s.p; i++ {
		rhs.Set(s.n+i, 0, by[i])
	}
	var sol mat.Dense
	if err := s.lu.SolveTo(&sol, false, rhs); err != nil {
		return ErrSingularKKT
	}
	ux := make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		ux[i] = sol.At(i, 0)
	}
	for i := 0; i < s.p; i++ {
		by[i] = sol.At(s.n+i, 0)
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
