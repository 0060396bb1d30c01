// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package cone

import "gonum.org/v1/gonum/blas/blas64"

func vec(x []float64) blas64.Vector {
	return blas64.Vector{N: len(x), Data: x, Inc: 1}
}

func subvec(x []float64, offset, n int) blas64.Vector {
	return blas64.Vector{N: n, Data: x[offset:], Inc: 1}
}

// Jnrm2 returns sqrt(x' * J * x) for x a vector in a second-order cone,
// where J = diag(1, -I). n defaults to len(x)-offset when n == 0.
func Jnrm2(x []float64, offset, n int) float64 {
	if n == 0 {
		n = len(x) - offset
	}
	a := blas64.Nrm2(subvec(x, offset+1, n-1))
	return sqrt(x[offset]-a) * sqrt(x[offset]+a)
}

// jdot returns x' * J * y for x, y vectors in a second-order cone block of
// length n starting at the given offsets.
func jdot(x, y []float64, offsetx, offsety, n int) float64 {
	a := x[offsetx]*y[offsety] - blas64.Dot(subvec(x, offsetx+1, n-1), subvec(y, offsety+1, n-1))
	return a
}

// Sdot returns the inner product of two vectors in the cone product,
// folding the factor-of-2 contribution of the off-diagonal PSD entries.
func Sdot(x, y []float64, d Dims, mnl int) float64 {
	ind := d.NLQ(mnl)
	a := blas64.Dot(subvec(x, 0, ind), subvec(y, 0, ind))
	for _, m := range d.S {
		a += blas64.Dot(
			blas64.Vector{N: m, Data: x[ind:], Inc: m + 1},
			blas64.Vector{N: m, Data: y[ind:], Inc: m + 1},
		)
		for j := 1; j < m; j++ {
			a += 2.0 * blas64.Dot(
				blas64.Vector{N: m - j, Data: x[ind+j:], Inc: m + 1},
				blas64.Vector{N: m - j, Data: y[ind+j:], Inc: m + 1},
			)
		}
		ind += m * m
	}
	return a
}

// Symm symmetrizes the m-by-m block of x starting at offset by copying
// its lower triangle into its upper triangle.
func Symm(x []float64, m, offset int) {
	for i := 0; i < m; i++ {
		for j := i + 1; j < m; j++ {
			x[offset+j*m+i] = x[offset+i*m+j]
		}
	}
}

// Sprod computes x := y o x, the Jordan product, in place. If diag is
// true, the 's' blocks of y are taken to be diagonal matrices whose
// diagonal is stored packed (only m entries per block rather than m^2).
func Sprod(x, y []float64, d Dims, mnl int, diag bool) {
	// nonlinear and 'l' blocks: elementwise product
	for i := 0; i < mnl+d.L; i++ {
		x[i] *= y[i]
	}

	// 'q' blocks
	ind := mnl + d.L
	for _, m := range d.Q {
		dd := blas64.Dot(subvec(x, ind, m), subvec(y, ind, m))
		blas64.Scal(y[ind], subvec(x, ind+1, m-1))
		blas64.Axpy(x[ind], subvec(y, ind+1, m-1), subvec(x, ind+1, m-1))
		x[ind] = dd
		ind += m
	}

	// 's' blocks
	if !diag {
		maxm := d.MaxS()
		A := make([]float64, maxm*maxm)
		for _, m := range d.S {
			copy(A[:m*m], x[ind:ind+m*m])
			Symm(A, m, 0)
			Symm(y, m, ind)
			sprodSym(A, y, x, m, ind)
			ind += m * m
		}
	} else {
		ind2 := ind
		for _, m := range d.S {
			for j := 0; j < m; j++ {
				u := make([]float64, m-j)
				for i := 0; i < m-j; i++ {
					u[i] = 0.5 * (y[ind2+j+i] + y[ind2+j])
				}
				for i := 0; i < m-j; i++ {
					x[ind+j*(m+1)+i] *= u[i]
				}
			}
			ind += m * m
			ind2 += m
		}
	}
}

// sprodSym computes x[ind:ind+m*m] := 0.5*(A*Y + Y*A) where Y is the
// symmetric m-by-m block of y at offset ind (column-major), and A is a
// dense m-by-m buffer. This is the dense syr2k-equivalent step of Sprod's
// 's' branch.
func sprodSym(A, y, x []float64, m, ind int) {
	if m == 0 {
		return
	}
	out := make([]float64, m*m)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			var s float64
			for k := 0; k < m; k++ {
				s += A[k*m+i]*y[ind+j*m+k] + y[ind+k*m+i]*A[j*m+k]
			}
			out[j*m+i] = 0.5 * s
		}
	}
	copy(x[ind:ind+m*m], out)
}

// Sinv computes x := y o\ x, the inverse Jordan product, in place, for
// the case where the 's' components of y are diagonal (as produced by
// the scaled-variable lambda of the NT scaling).
func Sinv(x, y []float64, d Dims, mnl int) {
	for i := 0; i < mnl+d.L; i++ {
		x[i] /= y[i]
	}

	ind := mnl + d.L
	for _, m := range d.Q {
		aa := Jnrm2(y, ind, m)
		aa2 := aa * aa
		cc := x[ind]
		dd := blas64.Dot(subvec(y, ind+1, m-1), subvec(x, ind+1, m-1))
		x[ind] = cc*y[ind] - dd
		blas64.Scal(aa2/y[ind], subvec(x, ind+1, m-1))
		blas64.Axpy(dd/y[ind]-cc, subvec(y, ind+1, m-1), subvec(x, ind+1, m-1))
		blas64.Scal(1.0/aa2, subvec(x, ind, m))
		ind += m
	}

	ind2 := ind
	for _, m := range d.S {
		for j := 0; j < m; j++ {
			for i := 0; i < m-j; i++ {
				g := 0.5 * (y[ind2+j+i] + y[ind2+j])
				x[ind+j*(m+1)+i] /= g
			}
		}
		ind += m * m
		ind2 += m
	}
}

// Pack copies x, whose 's' blocks are stored unpacked, to y with the 's'
// blocks stored packed (lower triangle, column-major) and the
// off-diagonal entries scaled by sqrt(2).
func Pack(x, y []float64, d Dims, mnl, offsetx, offsety int) {
	nlq := d.NLQ(mnl)
	copy(y[offsety:offsety+nlq], x[offsetx:offsetx+nlq])
	iu, ip := offsetx+nlq, offsety+nlq
	for _, n := range d.S {
		for k := 0; k < n; k++ {
			copy(y[ip:ip+n-k], x[iu+k*(n+1):iu+k*(n+1)+n-k])
			y[ip] /= sqrt(2.0)
			ip += n - k
		}
		iu += n * n
	}
	np := d.SumSPacked()
	blas64.Scal(sqrt(2.0), subvec(y, offsety+nlq, np))
}

// Unpack copies x, whose 's' blocks are stored packed with off-diagonal
// entries scaled by sqrt(2), to y with the 's' blocks stored unpacked.
func Unpack(x, y []float64, d Dims, mnl, offsetx, offsety int) {
	nlq := d.NLQ(mnl)
	copy(y[offsety:offsety+nlq], x[offsetx:offsetx+nlq])
	iu, ip := offsety+nlq, offsetx+nlq
	for _, n := range d.S {
		for k := 0; k < n; k++ {
			copy(y[iu+k*(n+1):iu+k*(n+1)+n-k], x[ip:ip+n-k])
			if n-k-1 > 0 {
				blas64.Scal(1.0/sqrt(2.0), subvec(y, iu+k*(n+1)+1, n-k-1))
			}
			for i := 1; i < n-k; i++ {
				y[iu+(k+i)*n+k] = y[iu+k*(n+1)+i]
			}
			ip += n - k
		}
		iu += n * n
	}
}

// Pack2 packs the 's' blocks of x in place (scaling off-diagonals by
// sqrt(2) and compacting storage), leaving the nonlinear/'l'/'q' blocks
// untouched.
func Pack2(x []float64, d Dims, mnl int) {
	if len(d.S) == 0 {
		return
	}
	y := make([]float64, d.NP(mnl))
	Pack(x, y, d, mnl, 0, 0)
	copy(x[:len(y)], y)
}
