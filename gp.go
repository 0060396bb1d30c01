// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package coneopt

import (
	"math"

	"github.com/gocvx/coneopt/cone"
	"github.com/gocvx/coneopt/linop"
)

// Gp solves a geometric program in convex (log-transformed) form:
//
//	minimize    log sum_i exp( (F*x+g)_i ),  i ranging over group 0
//	subject to  log sum_i exp( (F*x+g)_i ) <= 0,  i ranging over groups 1..len(K)-1
//	            G*x + s = h,  s in the cone described by d
//	            A*x = b
//
// K partitions the rows of F (and g) into consecutive groups: K[0] rows
// form the objective posynomial, K[1:] form the constraint posynomials.
// Gp builds the log-sum-exp oracle for these groups and solves the
// resulting convex program with Cp.
func Gp(K []int, F linop.Operator, g []float64, G, A linop.Operator, h, b []float64, d cone.Dims, opts Options) (*Result, error) {
	n := F.Cols()
	Fd := linop.Materialize(F)
	oracle := &gpOracle{K: K, F: Fd, g: g, n: n}
	return Cp(oracle, G, A, h, b, d, opts)
}

// gpOracle evaluates the mnl+1 log-sum-exp groups of a geometric
// program and their gradients/Hessian from a dense copy of F, using a
// ymax-shifted softmax for numerical stability (exp(y-ymax) instead of
// exp(y), matching the standard log-sum-exp evaluation trick).
type gpOracle struct {
	K    []int
	F, g []float64
	n    int
}

func (o *gpOracle) ngroups() int { return len(o.K) }

func (o *gpOracle) groupRange(k int) (start, end int) {
	for i := 0; i < k; i++ {
		start += o.K[i]
	}
	end = start + o.K[k]
	return
}

func (o *gpOracle) Init() (int, []float64) {
	return o.ngroups() - 1, make([]float64, o.n)
}

func (o *gpOracle) Eval(x []float64) ([]float64, linop.Operator, bool) {
	ng := o.ngroups()
	f := make([]float64, ng)
	Df := make([]float64, ng*o.n)

	for k := 0; k < ng; k++ {
		start, end := o.groupRange(k)
		ymax := math.Inf(-1)
		y := make([]float64, end-start)
		for i := start; i < end; i++ {
			yi := o.g[i]
			for j := 0; j < o.n; j++ {
				yi += o.F[i*o.n+j] * x[j]
			}
			y[i-start] = yi
			if yi > ymax {
				ymax = yi
			}
		}
		sum := 0.0
		w := make([]float64, end-start)
		for i := range y {
			w[i] = math.Exp(y[i] - ymax)
			sum += w[i]
		}
		f[k] = ymax + math.Log(sum)
		for i := range w {
			w[i] /= sum
		}
		for j := 0; j < o.n; j++ {
			grad := 0.0
			for i := start; i < end; i++ {
				grad += w[i-start] * o.F[i*o.n+j]
			}
			Df[k*o.n+j] = grad
		}
	}
	return f, &linop.Dense{NRows: ng, NCols: o.n, Data: Df}, true
}

func (o *gpOracle) Hessian(x, z []float64) linop.Operator {
	ng := o.ngroups()
	H := make([]float64, o.n*o.n)
	for k := 0; k < ng; k++ {
		if z[k] == 0 {
			continue
		}
		start, end := o.groupRange(k)
		ymax := math.Inf(-1)
		y := make([]float64, end-start)
		for i := start; i < end; i++ {
			yi := o.g[i]
			for j := 0; j < o.n; j++ {
				yi += o.F[i*o.n+j] * x[j]
			}
			y[i-start] = yi
			if yi > ymax {
				ymax = yi
			}
		}
		sum := 0.0
		w := make([]float64, end-start)
		for i := range y {
			w[i] = math.Exp(y[i] - ymax)
			sum += w[i]
		}
		for i := range w {
			w[i] /= sum
		}
		// H += z[k] * F' * (diag(w) - w*w') * F
		for a := 0; a < end-start; a++ {
			ra := start + a
			for b := 0; b < end-start; b++ {
				rb := start + b
				coef := -w[a] * w[b]
				if a == b {
					coef += w[a]
				}
				coef *= z[k]
				if coef == 0 {
					continue
				}
				for i := 0; i < o.n; i++ {
					fi := o.F[ra*o.n+i]
					if fi == 0 {
						continue
					}
					for j := 0; j < o.n; j++ {
						H[i*o.n+j] += coef * fi * o.F[rb*o.n+j]
					}
				}
			}
		}
	}
	return &linop.Dense{NRows: o.n, NCols: o.n, Data: H}
}
