// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package coneopt_test

import (
	"testing"

	"github.com/gocvx/coneopt"
	"github.com/gocvx/coneopt/linop"
	"github.com/stretchr/testify/require"
)

// TestLPSmallInequality reproduces the textbook LP
//
//	minimize   -4x - 5y
//	subject to  2x +  y <= 3
//	             x + 2y <= 3
//	            x, y >= 0
//
// whose optimum is x=(1,1) with objective -9.
func TestLPSmallInequality(t *testing.T) {
	c := []float64{-4, -5}
	G := &linop.Dense{NRows: 4, NCols: 2, Data: []float64{
		2, 1,
		1, 2,
		-1, 0,
		0, -1,
	}}
	h := []float64{3, 3, 0, 0}

	opts := coneopt.DefaultOptions()
	res, err := coneopt.LP(c, G, h, nil, nil, opts)
	require.NoError(t, err)
	require.Equal(t, coneopt.Optimal, res.Status)
	require.InDelta(t, -9.0, res.PrimalObjective, 1e-4)
	require.InDelta(t, 1.0, res.X[0], 1e-3)
	require.InDelta(t, 1.0, res.X[1], 1e-3)
}

// TestLPWithEqualityConstraint adds the equality constraint
// x0+x1+x2=1 to the LP minimize x1 over x >= 0 and checks the solver
// both respects it and reports an optimal status.
func TestLPWithEqualityConstraint(t *testing.T) {
	c := []float64{0, 1, 0}
	G := &linop.Dense{NRows: 3, NCols: 3, Data: []float64{
		-1, 0, 0,
		0, -1, 0,
		0, 0, -1,
	}}
	h := []float64{0, 0, 0}
	A := &linop.Dense{NRows: 1, NCols: 3, Data: []float64{1, 1, 1}}
	b := []float64{1}

	opts := coneopt.DefaultOptions()
	res, err := coneopt.LP(c, G, h, A, b, opts)
	require.NoError(t, err)
	require.Equal(t, coneopt.Optimal, res.Status)
	require.InDelta(t, 1.0, res.X[0]+res.X[1]+res.X[2], 1e-4)
	require.InDelta(t, 0.0, res.X[1], 1e-3)
}

func TestResultStatusString(t *testing.T) {
	require.Equal(t, "optimal", coneopt.Optimal.String())
	require.Equal(t, "primal infeasible", coneopt.PrimalInfeasible.String())
	require.Equal(t, "dual infeasible", coneopt.DualInfeasible.String())
	require.Equal(t, "unknown", coneopt.Unknown.String())
}

func TestDefaultOptions(t *testing.T) {
	opts := coneopt.DefaultOptions()
	require.Equal(t, 100, opts.MaxIters)
	require.InDelta(t, 1e-7, opts.AbsTol, 0)
	require.InDelta(t, 1e-6, opts.RelTol, 0)
	require.InDelta(t, 1e-7, opts.FeasTol, 0)
	require.Equal(t, 1, opts.Refinement)
	require.Equal(t, 8, opts.MaxRelaxedIters)
}
