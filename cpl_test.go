// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package coneopt_test

import (
	"testing"

	"github.com/gocvx/coneopt"
	"github.com/gocvx/coneopt/cone"
	"github.com/gocvx/coneopt/kkt"
	"github.com/gocvx/coneopt/linop"
	"github.com/gocvx/coneopt/scaling"
	"github.com/stretchr/testify/require"
)

// TestScenarioS1LPSmallInequality is testlp.py: minimize -4x-5y subject
// to 2x+y<=3, x+2y<=3, x,y>=0, whose optimum sits at x=(1,1).
func TestScenarioS1LPSmallInequality(t *testing.T) {
	c := []float64{-4, -5}
	G := &linop.Dense{NRows: 4, NCols: 2, Data: []float64{
		2, 1,
		1, 2,
		-1, 0,
		0, -1,
	}}
	h := []float64{3, 3, 0, 0}

	res, err := coneopt.LP(c, G, h, nil, nil, coneopt.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, coneopt.Optimal, res.Status)
	require.InDelta(t, -9.0, res.PrimalObjective, 1e-4)
	require.InDelta(t, 1.0, res.X[0], 1e-3)
	require.InDelta(t, 1.0, res.X[1], 1e-3)
}

// TestScenarioS2EqualityConstrainedLP is testsimple.py: minimize y
// subject to x=1, -x+y+z=0, -y+z<=0, the exact fixture (not a hand-built
// substitute); the optimum is x=1, y=z=0.5.
func TestScenarioS2EqualityConstrainedLP(t *testing.T) {
	c := []float64{0, 1, 0}
	A := &linop.Dense{NRows: 2, NCols: 3, Data: []float64{
		1, 0, 0,
		-1, 1, 1,
	}}
	b := []float64{1, 0}
	G := &linop.Dense{NRows: 1, NCols: 3, Data: []float64{0, -1, 1}}
	h := []float64{0}

	res, err := coneopt.LP(c, G, h, A, b, coneopt.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, coneopt.Optimal, res.Status)
	require.InDelta(t, 0.0, res.PrimalInf, 1e-6)
	require.InDelta(t, 0.0, res.DualInf, 1e-6)
	require.InDelta(t, res.X[0], 1.0, 1e-4)
	require.InDelta(t, res.X[1], 0.5, 1e-4)
	require.InDelta(t, res.X[2], 0.5, 1e-4)
}

// TestScenarioS3MixedConeLP is testconelp.py: the section 8.1 cone
// program over l=2, two 4-dimensional second-order cones, and one
// 3x3 PSD block. The exact objective is not transcribed from the
// Python fixture (it never prints one, only the solution vectors);
// the scenario instead checks the driver's own convergence
// certificate (gap/residuals) and primal feasibility of the returned
// (x, s) against G/h/dims, which is the invariant spec.md 8 actually
// requires of a cone-program solve.
func TestScenarioS3MixedConeLP(t *testing.T) {
	c := []float64{-6, -4, -5}
	G := &linop.Dense{NRows: 19, NCols: 3, Data: []float64{
		16, -14, 5,
		7, 2, 0,
		24, 7, -15,
		-8, -13, 12,
		8, -18, -6,
		-1, 3, 17,
		0, 0, 0,
		-1, 0, 0,
		0, -1, 0,
		0, 0, -1,
		7, 3, 9,
		-5, 13, 6,
		1, -6, -6,
		-5, 13, 6,
		1, 12, -7,
		-7, -10, -7,
		1, -6, -6,
		-7, -10, -7,
		-4, -28, -11,
	}}
	h := []float64{-3, 5, 12, -2, -14, -13, 10, 0, 0, 0, 68, -30, -19, -30, 99, 23, -19, 23, 10}
	d := cone.Dims{L: 2, Q: []int{4, 4}, S: []int{3}}

	res, err := coneopt.ConeLP(c, G, nil, h, nil, d, coneopt.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, coneopt.Optimal, res.Status)
	require.LessOrEqual(t, res.PrimalInf, 1e-6)
	require.LessOrEqual(t, res.DualInf, 1e-6)
	require.LessOrEqual(t, res.Gap, 1e-5)

	gx := make([]float64, 19)
	G.Apply(1.0, res.X, false, 0.0, gx)
	for i := range gx {
		require.InDelta(t, h[i], gx[i]+res.S[i], 1e-4)
	}
}

// flakyKKTSolver wraps a real kkt.Solver, forcing its Solve to fail on
// a chosen 1-indexed call count (and, if persistent, every call from
// then on), to exercise the rollback/retry tree of spec.md 7 without
// depending on a solver trajectory that can only be confirmed by
// running the code.
type flakyKKTSolver struct {
	real       kkt.Solver
	calls      *int
	failAt     int
	persistent bool
}

func (s *flakyKKTSolver) Solve(bx, by, bz []float64) error {
	*s.calls++
	if *s.calls == s.failAt || (s.persistent && *s.calls >= s.failAt) {
		return kkt.ErrSingularKKT
	}
	return s.real.Solve(bx, by, bz)
}

func flakyFactory(calls *int, failAt int, persistent bool) kkt.Factory {
	return func(G, A linop.Operator, d cone.Dims, w *scaling.W, H, Df linop.Operator) (kkt.Solver, error) {
		solver, err := kkt.LDL(d, 0)(G, A, d, w, H, Df)
		if err != nil {
			return nil, err
		}
		return &flakyKKTSolver{real: solver, calls: calls, failAt: failAt, persistent: persistent}, nil
	}
}

// TestScenarioS6IterationZeroFatal checks spec.md 7's "On iteration 0:
// fatal" branch: a KKT failure on the very first factorization (before
// any scaling update has ever succeeded) is reported immediately, with
// no rollback attempted (there is nothing yet to roll back to).
func TestScenarioS6IterationZeroFatal(t *testing.T) {
	c := []float64{-4, -5}
	G := &linop.Dense{NRows: 4, NCols: 2, Data: []float64{
		2, 1,
		1, 2,
		-1, 0,
		0, -1,
	}}
	h := []float64{3, 3, 0, 0}

	calls := 0
	opts := coneopt.DefaultOptions()
	opts.KKTSolver = flakyFactory(&calls, 1, false)

	res, err := coneopt.LP(c, G, h, nil, nil, opts)
	require.Error(t, err)
	require.ErrorIs(t, err, coneopt.ErrSingularKKT)
	require.Equal(t, coneopt.Unknown, res.Status)
}

// TestScenarioS6NoOpenSeriesFatal checks the "otherwise" branch of
// spec.md 7 when no relaxed series is open to roll back to: with
// MaxRelaxedIters forced to 0 every step takes the strict line search
// path, so relaxed_iters never leaves {-1, 0} and a KKT failure past
// iteration 0 goes straight to status "unknown" rather than retrying.
// Failure is forced from the 6th solver call onward, comfortably past
// iteration 0's handful of affine/corrector solves regardless of the
// exact refinement count the driver picks for this dims (l-only, no
// q/s, so refinement is forced to 0), so the scenario does not depend
// on a convergence trajectory that can only be confirmed by running.
func TestScenarioS6NoOpenSeriesFatal(t *testing.T) {
	c := []float64{-4, -5}
	G := &linop.Dense{NRows: 4, NCols: 2, Data: []float64{
		2, 1,
		1, 2,
		-1, 0,
		0, -1,
	}}
	h := []float64{3, 3, 0, 0}

	calls := 0
	opts := coneopt.DefaultOptions()
	opts.MaxRelaxedIters = 0
	opts.KKTSolver = flakyFactory(&calls, 6, true)

	res, err := coneopt.LP(c, G, h, nil, nil, opts)
	require.Error(t, err)
	require.ErrorIs(t, err, coneopt.ErrSingularKKT)
	require.Equal(t, coneopt.Unknown, res.Status)
}
