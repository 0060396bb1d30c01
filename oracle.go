// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package coneopt

import "github.com/gocvx/coneopt/linop"

// Oracle is the nonlinear convex objective/constraint callback consumed
// by Cp and, after the epigraph reduction, by Cpl. It generalizes the
// three-call convention of the reference interior-point algorithm:
//
//   - Init returns the number of nonlinear constraints mnl and a point
//     x0 in (or near) their domain, used to build the initial iterate.
//   - Eval, given a candidate x, returns the mnl+1 stacked function
//     values f (f[0] is the objective) and the (mnl+1)-by-n Jacobian Df
//     of all of them (row 0 is the objective gradient), or ok=false if
//     x falls outside the domain of f.
//   - Hessian, given x and a vector z of length mnl+1 of multipliers,
//     returns the Hessian of z[0]*f0(x) + sum_k z[k+1]*fk(x).
//
// Implementations must treat x (and z, in Hessian) as read-only.
type Oracle interface {
	Init() (mnl int, x0 []float64)
	Eval(x []float64) (f []float64, Df linop.Operator, ok bool)
	Hessian(x, z []float64) (H linop.Operator)
}

// NLConstraints is the oracle consumed directly by Cpl: a linear
// objective c is supplied separately, and Eval/Hessian describe only
// the mnl nonlinear inequality constraints f_k(x) <= 0 (no epigraph
// objective row). Cp builds one of these internally from an Oracle via
// the epigraph reduction documented on Cp.
type NLConstraints interface {
	Init() (mnl int, x0 []float64)
	Eval(x []float64) (f []float64, Df linop.Operator, ok bool)
	Hessian(x, z []float64) (H linop.Operator)
}

// noConstraints is the trivial NLConstraints used by ConeLP/LP/SOCP/SDP,
// which have no nonlinear inequalities at all.
type noConstraints struct{ n int }

func (o *noConstraints) Init() (int, []float64)        { return 0, make([]float64, o.n) }
func (o *noConstraints) Eval(x []float64) ([]float64, linop.Operator, bool) {
	return nil, nil, true
}
func (o *noConstraints) Hessian(x, z []float64) linop.Operator { return nil }
