// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package kkt

import (
	"testing"

	"github.com/gocvx/coneopt/cone"
	"github.com/gocvx/coneopt/linop"
	"github.com/gocvx/coneopt/scaling"
	"github.com/stretchr/testify/require"
)

// TestCHOL2IdentitySystem checks that CHOL2 correctly solves the
// trivial KKT system G=I, W=I, H=I, recovering ux = (bx + bz)/2 exactly
// (since, with no A, the reduced system is (I+I)*ux = bx + G'bz and
// the z update is G*ux - bz).
func TestCHOL2IdentitySystem(t *testing.T) {
	d := cone.Dims{L: 2}
	G := &linop.Dense{NRows: 2, NCols: 2, Data: []float64{1, 0, 0, 1}}
	s := []float64{1, 1}
	z := []float64{1, 1}
	w, _, err := scaling.ComputeScaling(s, z, d, 0)
	require.NoError(t, err)

	H := &linop.Dense{NRows: 2, NCols: 2, Data: []float64{1, 0, 0, 1}}
	factory := CHOL2(d, 0)
	solver, err := factory(G, nil, d, w, H, nil)
	require.NoError(t, err)

	bx := []float64{3, 5}
	by := []float64{}
	bz := []float64{1, 1}
	require.NoError(t, solver.Solve(bx, by, bz))
	require.InDelta(t, 2.0, bx[0], 1e-9)
	require.InDelta(t, 3.0, bx[1], 1e-9)
}

// TestLDLMatchesCHOL2 checks that the general-purpose LDL factory
// agrees with CHOL2 on the same identity system.
func TestLDLMatchesCHOL2(t *testing.T) {
	d := cone.Dims{L: 2}
	G := &linop.Dense{NRows: 2, NCols: 2, Data: []float64{1, 0, 0, 1}}
	s := []float64{1, 1}
	z := []float64{1, 1}
	w, _, err := scaling.ComputeScaling(s, z, d, 0)
	require.NoError(t, err)
	H := &linop.Dense{NRows: 2, NCols: 2, Data: []float64{1, 0, 0, 1}}

	factory := LDL(d, 0)
	solver, err := factory(G, nil, d, w, H, nil)
	require.NoError(t, err)

	bx := []float64{3, 5}
	by := []float64{}
	bz := []float64{1, 1}
	require.NoError(t, solver.Solve(bx, by, bz))
	require.InDelta(t, 2.0, bx[0], 1e-9)
	require.InDelta(t, 3.0, bx[1], 1e-9)
}
