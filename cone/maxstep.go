// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package cone

import (
	"github.com/gocvx/coneopt/linalg"
	"github.com/gocvx/coneopt/linalg/lapack"
)

// MaxStep returns min{ t | x + t*e >= 0 }, where e is the vector of ones
// on the nonlinear and 'l' blocks, the first unit vector on each 'q'
// block, and the identity matrix on each 's' block.
//
// If sigma is non-nil, the eigenvalues of the 's' blocks of x are written
// into sigma (packed contiguously, one run per block) and the
// eigenvectors overwrite the 's' blocks of x in place. If sigma is nil,
// x is left untouched and only the threshold t is returned.
func MaxStep(x []float64, d Dims, mnl int, sigma []float64) float64 {
	haveT := false
	var t float64

	ind := mnl + d.L
	if ind > 0 {
		m := x[0]
		for i := 1; i < ind; i++ {
			if x[i] < m {
				m = x[i]
			}
		}
		t, haveT = -m, true
	}

	for _, m := range d.Q {
		if m > 0 {
			v := Jnrm2SOCGap(x, ind, m)
			if !haveT || v > t {
				t = v
			}
			haveT = true
		}
		ind += m
	}

	ind2 := 0
	for _, m := range d.S {
		if m == 0 {
			ind2 += m
			continue
		}
		var minEig float64
		if sigma == nil {
			buf := make([]float64, m*m)
			copy(buf, x[ind:ind+m*m])
			w := make([]float64, m)
			_ = lapack.Syevd(buf, w, linalg.WithN(m), linalg.WithJobz(linalg.PJobNo))
			minEig = w[0]
			for _, e := range w[1:] {
				if e < minEig {
					minEig = e
				}
			}
		} else {
			_ = lapack.Syevd(x, sigma, linalg.WithN(m), linalg.WithJobz(linalg.PJobV),
				linalg.WithOffsetA(ind), linalg.WithOffsetW(ind2))
			minEig = sigma[ind2]
		}
		v := -minEig
		if !haveT || v > t {
			t = v
		}
		haveT = true
		ind += m * m
		ind2 += m
	}

	if !haveT {
		return 0.0
	}
	return t
}

// Jnrm2SOCGap returns ||x[1:]|| - x[0] for the 'q' block of length m
// starting at offset: the amount x must be pushed by along e0 to reach
// the cone boundary.
func Jnrm2SOCGap(x []float64, offset, m int) float64 {
	if m <= 1 {
		return -x[offset]
	}
	a := 0.0
	for i := 1; i < m; i++ {
		a += x[offset+i] * x[offset+i]
	}
	return sqrt(a) - x[offset]
}
