// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package coneopt

import "github.com/gocvx/coneopt/kkt"

// Options collects the tuning knobs of the primal-dual interior-point
// iteration. The zero value is not usable directly; start from
// DefaultOptions and override individual fields.
type Options struct {
	MaxIters int
	AbsTol   float64
	RelTol   float64
	FeasTol  float64

	// Refinement is the number of fixed-point iterative refinement steps
	// applied to the corrector KKT solve of each iteration (the affine
	// solve is not refined). Cpl uses 0 when the cone has no 'q' or 's'
	// blocks.
	Refinement int

	// Step, Beta, Alpha and Expon parameterize the backtracking/relaxed
	// line search: Step shrinks the computed step length away from the
	// boundary of the cone, Beta and Alpha are the backtracking ratio
	// and the Armijo-style slope tolerance applied to the merit
	// function, and Expon is the centering exponent: the centering
	// parameter is sigma = min(g, g^Expon), where g is the gap ratio
	// reached by the affine step.
	Step  float64
	Beta  float64
	Alpha float64
	Expon float64

	// MaxRelaxedIters bounds the number of consecutive iterations the
	// solver is allowed to accept a step that only decreases the merit
	// function's linearization (rather than the merit function itself)
	// before it must fall back to a strictly monotone step.
	MaxRelaxedIters int

	// KKTSolver selects the factory used to build the Newton system
	// solver at every iteration. When nil, kkt.LDL is used; CHOL, CHOL2
	// and QR are used only when set here explicitly.
	KKTSolver kkt.Factory

	// ShowProgress prints per-iteration residual and gap information to
	// Progress (os.Stdout if nil) when true.
	ShowProgress bool
	Progress     ProgressWriter
}

// ProgressWriter receives the per-iteration progress line. It is
// satisfied by *os.File, bytes.Buffer, and similar io.Writer-like types
// restricted to the one method the solver needs.
type ProgressWriter interface {
	WriteString(s string) (int, error)
}

// DefaultOptions returns the solver's recommended tuning, matching the
// defaults used by the reference interior-point implementation this
// package's algorithm is drawn from.
func DefaultOptions() Options {
	return Options{
		MaxIters:        100,
		AbsTol:          1e-7,
		RelTol:          1e-6,
		FeasTol:         1e-7,
		Refinement:      1,
		Step:            0.99,
		Beta:            0.5,
		Alpha:           0.01,
		Expon:           3,
		MaxRelaxedIters: 8,
		ShowProgress:    false,
	}
}
