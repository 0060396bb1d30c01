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

// Scale applies the Nesterov-Todd scaling (or its inverse/transpose) to
// x in place.
//
//	x := W*x        (trans=false, inverse=false)
//	x := W^T*x      (trans=true,  inverse=false)
//	x := W^{-1}*x   (trans=false, inverse=true)
//	x := W^{-T}*x   (trans=true,  inverse=true)
func Scale(x []float64, w *W, d cone.Dims, trans, inverse bool) {
	ind := 0
	if len(w.Dnl) > 0 {
		dd := w.Dnl
		if inverse {
			dd = w.Dnli
		}
		for i := range dd {
			x[i] *= dd[i]
		}
		ind += len(dd)
	}

	dd := w.D
	if inverse {
		dd = w.Di
	}
	for i := range dd {
		x[ind+i] *= dd[i]
	}
	ind += len(dd)

	// 'q' blocks: W_k = beta_k * (2*v*v' - J). -J*u is computed by
	// negating only the first entry of the block, since J = diag(1,-I).
	for k, v := range w.V {
		mk := len(v)
		if inverse {
			x[ind] = -x[ind]
		}
		wv := blas64.Dot(sub(x, ind, mk), vec(v))
		x[ind] = -x[ind]
		blas64.Axpy(2.0*wv, vec(v), sub(x, ind, mk))
		var a float64
		if inverse {
			x[ind] = -x[ind]
			a = 1.0 / w.Beta[k]
		} else {
			a = w.Beta[k]
		}
		blas64.Scal(a, sub(x, ind, mk))
		ind += mk
	}

	// 's' blocks: xk := r'*mat(xk)*r (trans=N) or r*mat(xk)*r' (trans=T);
	// inverse scaling uses rti = r^{-T} with the transposition flipped
	// (rti*mat(xk)*rti' for W^{-1}, rti'*mat(xk)*rti for W^{-T}). Each 's'
	// block of x already holds a fully populated symmetric matrix, so this
	// is a direct dense congruence.
	for k, r := range w.R {
		mk, _ := r.Dims()
		if mk == 0 {
			continue
		}
		op := r
		t := trans
		if inverse {
			op = w.Rti[k]
			t = !trans
		}
		X := toDense(x[ind:ind+mk*mk], mk)
		var a, out mat.Dense
		if !t {
			a.Mul(op.T(), X)
			out.Mul(&a, op)
		} else {
			a.Mul(X, op.T())
			out.Mul(op, &a)
		}
		for i := 0; i < mk; i++ {
			for j := 0; j < mk; j++ {
				x[ind+j*mk+i] = out.At(i, j)
			}
		}
		ind += mk * mk
	}
}

// Scale2 applies the Hessian of the logarithmic barrier at lmbda^{1/2}
// (inverse=false) or lmbda^{-1/2} (inverse=true) to x in place.
func Scale2(lmbda, x []float64, d cone.Dims, mnl int, inverse bool) {
	n := mnl + d.L
	if !inverse {
		for i := 0; i < n; i++ {
			x[i] /= lmbda[i]
		}
	} else {
		for i := 0; i < n; i++ {
			x[i] *= lmbda[i]
		}
	}

	ind := n
	for _, m := range d.Q {
		a := cone.Jnrm2(lmbda, ind, m)
		var lx float64
		if !inverse {
			lx = jdotOffset2(lmbda, x, ind, m) / a
		} else {
			lx = blas64.Dot(sub(lmbda, ind, m), sub(x, ind, m)) / a
		}
		x0 := x[ind]
		x[ind] = lx
		c := (lx + x0) / (lmbda[ind]/a + 1) / a
		if !inverse {
			c *= -1.0
		}
		blas64.Axpy(c, sub(lmbda, ind+1, m-1), sub(x, ind+1, m-1))
		if !inverse {
			a = 1.0 / a
		}
		blas64.Scal(a, sub(x, ind, m))
		ind += m
	}

	ind2 := ind
	for _, m := range d.S {
		for j := 0; j < m; j++ {
			for i := 0; i < m; i++ {
				c := sqrt(lmbda[ind2+j]) * sqrt(lmbda[ind2+i])
				if !inverse {
					x[ind+j*m+i] /= c
				} else {
					x[ind+j*m+i] *= c
				}
			}
		}
		ind += m * m
		ind2 += m
	}
}

func jdotOffset2(lmbda, x []float64, offset, n int) float64 {
	return lmbda[offset]*x[offset] - blas64.Dot(sub(lmbda, offset+1, n-1), sub(x, offset+1, n-1))
}
