// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package coneopt

import (
	"github.com/gocvx/coneopt/cone"
	"github.com/gocvx/coneopt/linop"
)

// ConeLP solves the linear cone program
//
//	minimize    c'*x
//	subject to  G*x + s = h,  s in the cone described by d
//	            A*x = b
//
// by routing it through Cpl with no nonlinear constraints (mnl == 0).
func ConeLP(c []float64, G, A linop.Operator, h, b []float64, d cone.Dims, opts Options) (*Result, error) {
	return Cpl(c, nil, G, A, h, b, d, opts)
}

// LP solves the linear program minimize c'*x subject to G*x <= h, A*x = b,
// a ConeLP with the nonnegative orthant as its only cone block.
func LP(c []float64, G linop.Operator, h []float64, A linop.Operator, b []float64, opts Options) (*Result, error) {
	d := cone.Dims{L: len(h)}
	return ConeLP(c, G, A, h, b, d, opts)
}

// SOCP solves a second-order cone program: minimize c'*x subject to
// G*x + s = h with s partitioned into second-order cone blocks of the
// given orders, and A*x = b.
func SOCP(c []float64, G linop.Operator, h []float64, q []int, A linop.Operator, b []float64, opts Options) (*Result, error) {
	d := cone.Dims{Q: q}
	return ConeLP(c, G, A, h, b, d, opts)
}

// SDP solves a semidefinite program: minimize c'*x subject to
// G*x + s = h with s partitioned into PSD blocks of the given orders
// (h and the rows of G store each block unpacked, row-major), and
// A*x = b.
func SDP(c []float64, G linop.Operator, h []float64, s []int, A linop.Operator, b []float64, opts Options) (*Result, error) {
	d := cone.Dims{S: s}
	return ConeLP(c, G, A, h, b, d, opts)
}

// QP solves the convex quadratic program
//
//	minimize    (1/2)*x'*P*x + q'*x
//	subject to  G*x <= h
//	            A*x = b
//
// by reducing it to Cp with a trivial oracle whose Hessian is the
// constant P; the true work is a single call into Cpl since the
// objective is z-independent except through the quadratic term.
func QP(P linop.Operator, q []float64, G linop.Operator, h []float64, A linop.Operator, b []float64, opts Options) (*Result, error) {
	n := len(q)
	oracle := &qpOracle{P: P, q: q, n: n}
	d := cone.Dims{L: len(h)}
	return Cp(oracle, G, A, h, b, d, opts)
}

// qpOracle implements Oracle for a quadratic objective (1/2)x'Px + q'x
// with no further nonlinear inequality constraints (mnl == 0): Cp's
// epigraph reduction turns this into a single nonlinear inequality
// f0(x) - t <= 0 handled by the ordinary Cpl Newton system, with P
// supplied through Hessian.
type qpOracle struct {
	P linop.Operator
	q []float64
	n int
}

func (o *qpOracle) Init() (int, []float64) { return 0, make([]float64, o.n) }

func (o *qpOracle) Eval(x []float64) ([]float64, linop.Operator, bool) {
	px := make([]float64, o.n)
	if o.P != nil {
		o.P.Apply(1.0, x, false, 0.0, px)
	}
	f0 := 0.5*dot(x, px) + dot(o.q, x)

	grad := make([]float64, o.n)
	copy(grad, px)
	addInto(grad, o.q)

	f := []float64{f0}
	Df := &linop.Dense{NRows: 1, NCols: o.n, Data: grad}
	return f, Df, true
}

func (o *qpOracle) Hessian(x, z []float64) linop.Operator {
	if o.P == nil {
		return nil
	}
	zeta := 1.0
	if len(z) > 0 {
		zeta = z[0]
	}
	return &linop.Func{
		NRows: o.n, NCols: o.n,
		ApplyFunc: func(alpha float64, x []float64, trans bool, beta float64, y []float64) {
			o.P.Apply(alpha*zeta, x, trans, beta, y)
		},
	}
}
