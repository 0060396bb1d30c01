// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package scaling

import (
	"github.com/gocvx/coneopt/cone"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// UpdateScaling updates W and lmbda in place so that on exit W*zt =
// W^{-T}*st = lmbda, given that on entry the nonlinear, 'l' and 'q'
// components of s and z hold W^{-T}*st and W*zt (the new iterates in the
// current scaling), and the 's' components hold the Cholesky factors Ls,
// Lz of the new iterates in the current scaling.
func UpdateScaling(w *W, lmbda, s, z []float64, d cone.Dims) error {
	mnl := len(w.Dnl)
	ml := len(w.D)
	m := mnl + ml
	for i := 0; i < m; i++ {
		s[i] = sqrt(s[i])
		z[i] = sqrt(z[i])
	}
	if mnl > 0 {
		for i := 0; i < mnl; i++ {
			w.Dnl[i] *= s[i] / z[i]
			w.Dnli[i] = 1.0 / w.Dnl[i]
		}
	}
	for i := 0; i < ml; i++ {
		w.D[i] *= s[mnl+i] / z[mnl+i]
		w.Di[i] = 1.0 / w.D[i]
	}
	for i := 0; i < m; i++ {
		lmbda[i] = s[i] * z[i]
	}

	ind := m
	for k := range w.V {
		v := w.V[k]
		mk := len(v)

		aa := cone.Jnrm2(s, ind, mk)
		blas64.Scal(1.0/aa, sub(s, ind, mk))
		bb := cone.Jnrm2(z, ind, mk)
		blas64.Scal(1.0/bb, sub(z, ind, mk))

		cc := sqrt((1.0 + blas64.Dot(sub(s, ind, mk), sub(z, ind, mk))) / 2.0)

		vs := blas64.Dot(vec(v), sub(s, ind, mk))
		vz := jdotOffset(v, z, ind, mk)
		vq := (vs + vz) / 2.0 / cc
		vu := vs - vz

		lmbda[ind] = cc
		wk0 := 2*v[0]*vq - (s[ind]+z[ind])/2.0/cc
		dd := (v[0]*vu - s[ind]/2.0 + z[ind]/2.0) / (wk0 + 1.0)

		copy(lmbda[ind+1:ind+mk], v[1:mk])
		blas64.Scal(2.0*(-dd*vq+0.5*vu), sub(lmbda, ind+1, mk-1))
		blas64.Axpy(0.5*(1.0-dd/cc), sub(s, ind+1, mk-1), sub(lmbda, ind+1, mk-1))
		blas64.Axpy(0.5*(1.0+dd/cc), sub(z, ind+1, mk-1), sub(lmbda, ind+1, mk-1))
		blas64.Scal(sqrt(aa*bb), sub(lmbda, ind, mk))

		blas64.Scal(2.0*vq, vec(v))
		v[0] -= s[ind] / 2.0 / cc
		blas64.Axpy(0.5/cc, sub(s, ind+1, mk-1), blas64.Vector{N: mk - 1, Data: v[1:], Inc: 1})
		blas64.Axpy(-0.5/cc, sub(z, ind, mk), vec(v))

		v[0] += 1.0
		blas64.Scal(1.0/sqrt(2.0*v[0]), vec(v))

		w.Beta[k] *= sqrt(aa / bb)
		ind += mk
	}

	ind2, ind3 := ind, 0
	for k := range w.R {
		r, rti := w.R[k], w.Rti[k]
		mk, _ := r.Dims()
		if mk == 0 {
			continue
		}
		// toDense reads the column-major blocks row by row, so Ls and Lz
		// hold the transposes of the lower Cholesky factors.
		Ls := toDense(s[ind2:ind2+mk*mk], mk)
		Lz := toDense(z[ind2:ind2+mk*mk], mk)

		var work mat.Dense
		work.Mul(r, Ls.T())
		r.CloneFrom(&work)

		var work2 mat.Dense
		work2.Mul(rti, Lz.T())
		rti.CloneFrom(&work2)

		var prod mat.Dense
		prod.Mul(Lz, Ls.T())

		var svd mat.SVD
		if ok := svd.Factorize(&prod, mat.SVDFull); !ok {
			return errRankDeficient("svd of s-block update did not converge")
		}
		sv := svd.Values(nil)
		var U, V mat.Dense
		svd.UTo(&U)
		svd.VTo(&V)

		var rv mat.Dense
		rv.Mul(r, &V)
		r.CloneFrom(&rv)

		var rtiu mat.Dense
		rtiu.Mul(rti, &U)
		rti.CloneFrom(&rtiu)

		for i := 0; i < mk; i++ {
			a := 1.0 / sqrt(sv[i])
			for j := 0; j < mk; j++ {
				r.Set(j, i, r.At(j, i)*a)
				rti.Set(j, i, rti.At(j, i)*a)
			}
			lmbda[ind+i] = sv[i]
		}
		ind += mk
		ind2 += mk * mk
		ind3 += mk
	}
	return nil
}

func jdotOffset(v, y []float64, offset, n int) float64 {
	a := v[0]*y[offset] - blas64.Dot(blas64.Vector{N: n - 1, Data: v[1:], Inc: 1}, sub(y, offset+1, n-1))
	return a
}
