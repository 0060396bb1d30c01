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

// TestSOCPUnitBall minimizes -x1 subject to ||x|| <= 1 (a single
// second-order cone constraint), whose optimum is x=(1,0) with
// objective -1.
func TestSOCPUnitBall(t *testing.T) {
	c := []float64{-1, 0}
	// s = h - G*x with s = (t, x1, x2) in the cone Q^3, t=1, x1,x2 free:
	// G = -I (3x2 padded with a zero row for t), h = (1,0,0).
	G := &linop.Dense{NRows: 3, NCols: 2, Data: []float64{
		0, 0,
		-1, 0,
		0, -1,
	}}
	h := []float64{1, 0, 0}

	opts := coneopt.DefaultOptions()
	res, err := coneopt.SOCP(c, G, h, []int{3}, nil, nil, opts)
	require.NoError(t, err)
	require.Equal(t, coneopt.Optimal, res.Status)
	require.InDelta(t, -1.0, res.PrimalObjective, 1e-3)
	require.InDelta(t, 1.0, res.X[0], 1e-2)
}
