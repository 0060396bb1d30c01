// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

// Package linop abstracts the problem operators G, A, Df, H as callable
// matrices: a component may be backed by a dense matrix or by an
// arbitrary function, so that a caller exploiting problem structure (a
// fast transform, a sparse representation) never has to materialize a
// dense matrix just to satisfy the solver's interface.
package linop

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Operator is a linear map between R^cols and R^rows (or, for a cone
// operator, the cone-vector space S of the given dimensions) that can be
// applied and applied transposed.
type Operator interface {
	Rows() int
	Cols() int
	// Apply computes y := alpha*Op*x + beta*y (trans=false) or
	// y := alpha*Op'*x + beta*y (trans=true).
	Apply(alpha float64, x []float64, trans bool, beta float64, y []float64)
}

// Materialize returns the rows-by-cols dense row-major matrix represented
// by op, built by applying op to each standard basis vector in turn.
func Materialize(op Operator) []float64 {
	rows, cols := op.Rows(), op.Cols()
	out := make([]float64, rows*cols)
	e := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		e[j] = 1
		op.Apply(1.0, e, false, 0.0, col)
		e[j] = 0
		for i := 0; i < rows; i++ {
			out[i*cols+j] = col[i]
		}
	}
	return out
}

// Dense is an Operator backed by a plain row-major dense matrix, usable
// for the equality constraint operator A and for G over any cone product
// (the 'q' and 's' rows are ordinary rows of the matrix).
type Dense struct {
	NRows, NCols int
	Data         []float64
}

func (o *Dense) Rows() int { return o.NRows }
func (o *Dense) Cols() int { return o.NCols }

func (o *Dense) Apply(alpha float64, x []float64, trans bool, beta float64, y []float64) {
	gen := blas64.General{Rows: o.NRows, Cols: o.NCols, Stride: o.NCols, Data: o.Data}
	t := blas.NoTrans
	if trans {
		t = blas.Trans
	}
	var xv, yv blas64.Vector
	if trans {
		xv = blas64.Vector{N: o.NRows, Data: x, Inc: 1}
		yv = blas64.Vector{N: o.NCols, Data: y, Inc: 1}
	} else {
		xv = blas64.Vector{N: o.NCols, Data: x, Inc: 1}
		yv = blas64.Vector{N: o.NRows, Data: y, Inc: 1}
	}
	blas64.Gemv(t, alpha, gen, xv, beta, yv)
}

// Func is an Operator backed by an arbitrary apply function, the hook
// that lets a caller supply a fast custom transform in place of a dense
// matrix for G, A, Df, or H.
type Func struct {
	NRows, NCols int
	ApplyFunc    func(alpha float64, x []float64, trans bool, beta float64, y []float64)
}

func (o *Func) Rows() int { return o.NRows }
func (o *Func) Cols() int { return o.NCols }

func (o *Func) Apply(alpha float64, x []float64, trans bool, beta float64, y []float64) {
	o.ApplyFunc(alpha, x, trans, beta, y)
}
