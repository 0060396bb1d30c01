// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

// Package scaling implements the Nesterov-Todd scaling operator W used by
// the primal-dual interior-point method to map the primal slack and dual
// variables onto a common point lambda on the boundary of the cone, and
// to transport the log-barrier Hessian between the scaled and unscaled
// spaces.
package scaling

import (
	"math"

	"github.com/gocvx/coneopt/cone"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// W is the Nesterov-Todd scaling operator: a block-diagonal map whose
// blocks are the diagonal scalings Dnl, Dnli (nonlinear slacks) and D, Di
// (the 'l' block), the hyperbolic Householder reflections described by V
// and Beta (the 'q' blocks), and the congruences R, Rti (the 's' blocks).
type W struct {
	Dnl, Dnli []float64
	D, Di     []float64
	V         [][]float64
	Beta      []float64
	R, Rti    []*mat.Dense
}

func sqrt(x float64) float64 { return math.Sqrt(x) }

// ComputeScaling returns the Nesterov-Todd scaling W at points s and z,
// and the scaled variable lambda satisfying W*z = W^{-T}*s = lambda.
func ComputeScaling(s, z []float64, d cone.Dims, mnl int) (*W, []float64, error) {
	lmbda := make([]float64, mnl+d.L+d.SumQ()+d.SumS())
	w := &W{}

	if mnl > 0 {
		w.Dnl = make([]float64, mnl)
		w.Dnli = make([]float64, mnl)
		for i := 0; i < mnl; i++ {
			w.Dnl[i] = sqrt(s[i] / z[i])
			w.Dnli[i] = 1.0 / w.Dnl[i]
			lmbda[i] = sqrt(s[i] * z[i])
		}
	}

	m := d.L
	w.D = make([]float64, m)
	w.Di = make([]float64, m)
	for i := 0; i < m; i++ {
		w.D[i] = sqrt(s[mnl+i] / z[mnl+i])
		w.Di[i] = 1.0 / w.D[i]
		lmbda[mnl+i] = sqrt(s[mnl+i] * z[mnl+i])
	}

	ind := mnl + d.L
	w.V = make([][]float64, len(d.Q))
	w.Beta = make([]float64, len(d.Q))
	for k, mk := range d.Q {
		v := make([]float64, mk)
		aa := cone.Jnrm2(s, ind, mk)
		bb := cone.Jnrm2(z, ind, mk)
		w.Beta[k] = sqrt(aa / bb)

		cc := sqrt((blas64.Dot(sub(s, ind, mk), sub(z, ind, mk))/aa/bb + 1.0) / 2.0)

		copy(v, z[ind:ind+mk])
		blas64.Scal(-1.0/bb, vec(v))
		v[0] *= -1.0
		blas64.Axpy(1.0/aa, sub(s, ind, mk), vec(v))
		blas64.Scal(1.0/2.0/cc, vec(v))

		v[0] += 1.0
		blas64.Scal(1.0/sqrt(2.0*v[0]), vec(v))
		w.V[k] = v

		lmbda[ind] = cc
		dd := 2*cc + s[ind]/aa + z[ind]/bb
		copy(lmbda[ind+1:ind+mk], s[ind+1:ind+mk])
		blas64.Scal((cc+z[ind]/bb)/dd/aa, vec(lmbda[ind+1:ind+mk]))
		blas64.Axpy((cc+s[ind]/aa)/dd/bb, sub(z, ind+1, mk-1), vec(lmbda[ind+1:ind+mk]))
		blas64.Scal(sqrt(aa*bb), sub(lmbda, ind, mk))

		ind += mk
	}

	w.R = make([]*mat.Dense, len(d.S))
	w.Rti = make([]*mat.Dense, len(d.S))
	ind2 := ind
	for k, mk := range d.S {
		if mk == 0 {
			w.R[k] = mat.NewDense(0, 0, nil)
			w.Rti[k] = mat.NewDense(0, 0, nil)
			continue
		}
		Ls := toDense(s[ind2:ind2+mk*mk], mk)
		Lz := toDense(z[ind2:ind2+mk*mk], mk)
		var cs, cz mat.Cholesky
		if ok := cs.Factorize(toSym(Ls, mk)); !ok {
			return nil, nil, errRankDeficient("s-block factor of s is not positive definite")
		}
		if ok := cz.Factorize(toSym(Lz, mk)); !ok {
			return nil, nil, errRankDeficient("s-block factor of z is not positive definite")
		}
		var lsT mat.TriDense
		cs.LTo(&lsT)
		var lzT mat.TriDense
		cz.LTo(&lzT)

		var prod mat.Dense
		prod.Mul(lzT.T(), &lsT)

		var svd mat.SVD
		if ok := svd.Factorize(&prod, mat.SVDFull); !ok {
			return nil, nil, errRankDeficient("svd of s-block did not converge")
		}
		sv := svd.Values(nil)
		var U, V mat.Dense
		svd.UTo(&U)
		svd.VTo(&V)

		var lzInvT mat.Dense
		if err := lzInvT.Solve(lzT.T(), &U); err != nil {
			return nil, nil, errRankDeficient("s-block r factor solve failed")
		}
		var rti mat.Dense
		rti.Mul(&lzT, &U)

		r := &mat.Dense{}
		r.CloneFrom(&lzInvT)
		rtiD := &mat.Dense{}
		rtiD.CloneFrom(&rti)

		for i := 0; i < mk; i++ {
			a := sqrt(sv[i])
			for j := 0; j < mk; j++ {
				r.Set(j, i, r.At(j, i)*a)
				rtiD.Set(j, i, rtiD.At(j, i)/a)
			}
			lmbda[ind+i] = sv[i]
		}
		w.R[k] = r
		w.Rti[k] = rtiD

		ind += mk
		ind2 += mk * mk
	}

	return w, lmbda, nil
}

func sub(x []float64, offset, n int) blas64.Vector { return blas64.Vector{N: n, Data: x[offset:], Inc: 1} }
func vec(x []float64) blas64.Vector               { return blas64.Vector{N: len(x), Data: x, Inc: 1} }

func toDense(x []float64, m int) *mat.Dense {
	data := make([]float64, m*m)
	copy(data, x)
	return mat.NewDense(m, m, data)
}

func toSym(a *mat.Dense, m int) mat.Symmetric {
	sym := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			sym.SetSym(i, j, a.At(i, j))
		}
	}
	return sym
}

type rankDeficientError string

func (e rankDeficientError) Error() string { return "scaling: " + string(e) }

func errRankDeficient(msg string) error { return rankDeficientError(msg) }
