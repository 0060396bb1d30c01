// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package coneopt

import (
	"github.com/gocvx/coneopt/cone"
	"github.com/gocvx/coneopt/linop"
)

// Cp solves a convex program with a nonlinear objective:
//
//	minimize    f_0(x)
//	subject to  f_k(x) <= 0, k = 1, ..., m
//	            G*x + s = h,  s in the cone described by d
//	            A*x = b
//
// F.Eval(x) returns the stacked values f = (f_0(x), ..., f_m(x)) and the
// Jacobian of (f_0, ..., f_m) with respect to x; F.Init's mnl is m (the
// objective row is not counted). Cp introduces an epigraph variable t,
// rewrites the objective as the linear function t subject to the extra
// nonlinear constraint f_0(x) - t <= 0, and solves the result with Cpl
// over the augmented variable (x, t).
func Cp(F Oracle, G, A linop.Operator, h, b []float64, d cone.Dims, opts Options) (*Result, error) {
	mnl, x0 := F.Init()
	n := len(x0)

	epi := &epigraphOracle{F: F, n: n, mnl: mnl}
	c := make([]float64, n+1)
	c[n] = 1

	var Gaug linop.Operator
	if G != nil {
		Gaug = &linop.Func{
			NRows: G.Rows(),
			NCols: n + 1,
			ApplyFunc: func(alpha float64, x []float64, trans bool, beta float64, y []float64) {
				if !trans {
					G.Apply(alpha, x[:n], false, beta, y)
				} else {
					G.Apply(alpha, x, true, beta, y[:n])
					y[n] *= beta
				}
			},
		}
	}
	var Aaug linop.Operator
	if A != nil {
		Aaug = &linop.Func{
			NRows: A.Rows(),
			NCols: n + 1,
			ApplyFunc: func(alpha float64, x []float64, trans bool, beta float64, y []float64) {
				if !trans {
					A.Apply(alpha, x[:n], false, beta, y)
				} else {
					A.Apply(alpha, x, true, beta, y[:n])
					y[n] *= beta
				}
			},
		}
	}

	result, err := Cpl(c, epi, Gaug, Aaug, h, b, d, opts)
	if result != nil {
		result.X = result.X[:n]
	}
	return result, err
}

// epigraphOracle adapts an Oracle (f0 included) into the NLConstraints
// shape Cpl expects (mnl constraints only, linear objective), following
// the epigraph reduction t >= f0(x) rewritten as f0(x) - t <= 0.
type epigraphOracle struct {
	F   Oracle
	n   int
	mnl int
}

func (o *epigraphOracle) Init() (int, []float64) {
	_, x0 := o.F.Init()
	f, _, _ := o.F.Eval(x0)
	t0 := 0.0
	if len(f) > 0 {
		t0 = f[0] + 1
	}
	aug := append(append([]float64(nil), x0...), t0)
	return o.mnl + 1, aug
}

// Eval returns the mnl+1 epigraph constraints f0(x)-t<=0, f1(x)<=0, ...
// and their Jacobian with respect to (x, t). Df from the wrapped Oracle
// already covers all mnl+1 rows, row 0 being the objective gradient;
// the epigraph reduction only adds a -1 column for the new variable t
// on row 0.
func (o *epigraphOracle) Eval(xt []float64) ([]float64, linop.Operator, bool) {
	x := xt[:o.n]
	t := xt[o.n]
	f, Df, ok := o.F.Eval(x)
	if !ok {
		return nil, nil, false
	}
	out := make([]float64, o.mnl+1)
	out[0] = f[0] - t
	copy(out[1:], f[1:])

	aug := &linop.Func{
		NRows: o.mnl + 1,
		NCols: o.n + 1,
		ApplyFunc: func(alpha float64, x []float64, trans bool, beta float64, y []float64) {
			if !trans {
				Df.Apply(alpha, x[:o.n], false, beta, y)
				y[0] -= alpha * x[o.n]
			} else {
				Df.Apply(alpha, x, true, beta, y[:o.n])
				y[o.n] = beta*y[o.n] - alpha*x[0]
			}
		},
	}
	return out, aug, true
}

func (o *epigraphOracle) Hessian(xt, z []float64) linop.Operator {
	x := xt[:o.n]
	H := o.F.Hessian(x, z)
	if H == nil {
		return nil
	}
	return &linop.Func{
		NRows: o.n + 1,
		NCols: o.n + 1,
		ApplyFunc: func(alpha float64, x []float64, trans bool, beta float64, y []float64) {
			H.Apply(alpha, x[:o.n], false, beta, y[:o.n])
			y[o.n] = beta * y[o.n]
		},
	}
}
