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

// TestQPBoxConstrained minimizes (1/2)||x||^2 - x subject to 0<=x<=2,
// whose unconstrained minimizer x=1 already lies in the box.
func TestQPBoxConstrained(t *testing.T) {
	P := &linop.Dense{NRows: 2, NCols: 2, Data: []float64{1, 0, 0, 1}}
	q := []float64{-1, -1}
	G := &linop.Dense{NRows: 4, NCols: 2, Data: []float64{
		-1, 0,
		0, -1,
		1, 0,
		0, 1,
	}}
	h := []float64{0, 0, 2, 2}

	opts := coneopt.DefaultOptions()
	res, err := coneopt.QP(P, q, G, h, nil, nil, opts)
	require.NoError(t, err)
	require.Equal(t, coneopt.Optimal, res.Status)
	require.InDelta(t, 1.0, res.X[0], 1e-2)
	require.InDelta(t, 1.0, res.X[1], 1e-2)
}
