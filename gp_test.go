// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package coneopt_test

import (
	"math"
	"testing"

	"github.com/gocvx/coneopt"
	"github.com/gocvx/coneopt/cone"
	"github.com/gocvx/coneopt/linop"
	"github.com/stretchr/testify/require"
)

// TestGpSingleTermObjective minimizes the (degenerate, single-term)
// posynomial exp(y1+y2) subject to y1,y2 >= 0 in log space, equivalent
// to minimizing x1*x2 subject to x1,x2 >= 1. The optimum sits at the
// boundary y=(0,0).
func TestGpSingleTermObjective(t *testing.T) {
	F := &linop.Dense{NRows: 1, NCols: 2, Data: []float64{1, 1}}
	g := []float64{0}
	G := &linop.Dense{NRows: 2, NCols: 2, Data: []float64{-1, 0, 0, -1}}
	h := []float64{0, 0}

	opts := coneopt.DefaultOptions()
	res, err := coneopt.Gp([]int{1}, F, g, G, nil, h, nil, cone.Dims{L: 2}, opts)
	require.NoError(t, err)
	require.Equal(t, coneopt.Optimal, res.Status)
	require.InDelta(t, 0.0, res.PrimalObjective, 5e-2)
}

// TestScenarioS5GpFloorPlanning is testgp.py's section 9.3 floor-planning
// GP: minimize the wall/floor area of a room of height h, width w, depth
// d subject to aspect-ratio bounds, the exact fixture (K, F, g derived
// from Aflr/Awall/alpha/beta/gamma/delta) rather than a hand-built
// substitute. testgp.py never prints a numeric optimum either (the
// reference run only logs it); the scenario checks the returned
// certificate instead of a transcribed x.
func TestScenarioS5GpFloorPlanning(t *testing.T) {
	const (
		Aflr  = 1000.0
		Awall = 100.0
		alpha = 0.5
		beta  = 2.0
		gamma = 0.5
		delta = 2.0
	)
	F := &linop.Dense{NRows: 8, NCols: 3, Data: []float64{
		-1, -1, -1,
		1, 1, 0,
		1, 0, 1,
		0, 1, 1,
		-1, 1, 0,
		1, -1, 0,
		0, 1, -1,
		0, -1, 1,
	}}
	g := []float64{
		math.Log(1.0),
		math.Log(2 / Awall),
		math.Log(2 / Awall),
		math.Log(1 / Aflr),
		math.Log(alpha),
		math.Log(1 / beta),
		math.Log(gamma),
		math.Log(1 / delta),
	}
	K := []int{1, 2, 1, 1, 1, 1, 1}

	opts := coneopt.DefaultOptions()
	res, err := coneopt.Gp(K, F, g, nil, nil, nil, nil, cone.Dims{}, opts)
	require.NoError(t, err)
	require.Equal(t, coneopt.Optimal, res.Status)
	require.LessOrEqual(t, res.PrimalInf, 1e-5)
	require.LessOrEqual(t, res.DualInf, 1e-5)
	require.LessOrEqual(t, res.Gap, 1e-4)
}
