// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

// Package kkt implements the KKT solver factories for the primal-dual
// interior-point method: given the current Nesterov-Todd scaling W (and,
// for nonlinear problems, the Hessian block H and Jacobian Df of the
// nonlinear objective/constraint term), a factory builds a Solver for
//
//	[ P   A'  G'*W^{-1} ] [ ux ]   [ bx ]
//	[ A   0   0         ] [ uy ] = [ by ]
//	[ G   0   -W'       ] [ uz ]   [ bz ]
//
// in place: on return bx/by/bz hold ux/uy/uz, with uz scaled so that bz
// holds W*uz.
package kkt

import (
	"errors"

	"github.com/gocvx/coneopt/cone"
	"github.com/gocvx/coneopt/linop"
	"github.com/gocvx/coneopt/scaling"
)

// ErrRankDeficient is returned when a KKT factor is numerically singular.
var ErrRankDeficient = errors.New("kkt: system is rank-deficient")

// ErrSingularKKT is returned by a Solver's Solve when the factored system
// cannot be solved for the given right-hand side.
var ErrSingularKKT = errors.New("kkt: singular KKT system")

// Solver solves the 3x3 saddle-point system in place for one right-hand
// side.
type Solver interface {
	Solve(bx, by, bz []float64) error
}

// Factory builds a Solver from the problem operators (G, A), the cone
// dimensions, the current scaling W, and, for nonlinear problems, the
// Hessian H and Jacobian Df of the nonlinear term (both may be nil for a
// pure linear-objective cone program).
type Factory func(G, A linop.Operator, d cone.Dims, w *scaling.W, H, Df linop.Operator) (Solver, error)
