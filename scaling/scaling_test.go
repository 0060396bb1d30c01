// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package scaling

import (
	"testing"

	"github.com/gocvx/coneopt/cone"
	"github.com/stretchr/testify/require"
)

// TestComputeScalingIdentityOrthant checks that when s == z on a pure
// orthant block, the NT scaling degenerates to D == Di == 1 and
// lambda == s == z.
func TestComputeScalingIdentityOrthant(t *testing.T) {
	d := cone.Dims{L: 3}
	s := []float64{1, 2, 3}
	z := []float64{1, 2, 3}
	w, lmbda, err := ComputeScaling(s, z, d, 0)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.InDelta(t, 1.0, w.D[i], 1e-9)
		require.InDelta(t, 1.0, w.Di[i], 1e-9)
		require.InDelta(t, s[i], lmbda[i], 1e-9)
	}
}

// TestComputeScalingOrthantRatio checks the scaling satisfies
// D[i] == sqrt(s[i]/z[i]) and lambda[i] == sqrt(s[i]*z[i]) for a pure
// orthant block with distinct s, z.
func TestComputeScalingOrthantRatio(t *testing.T) {
	d := cone.Dims{L: 2}
	s := []float64{4, 9}
	z := []float64{1, 4}
	w, lmbda, err := ComputeScaling(s, z, d, 0)
	require.NoError(t, err)
	require.InDelta(t, 2.0, w.D[0], 1e-9)
	require.InDelta(t, 1.5, w.D[1], 1e-9)
	require.InDelta(t, 2.0, lmbda[0], 1e-9)
	require.InDelta(t, 6.0, lmbda[1], 1e-9)
}

// TestScaleRoundTrip checks that applying W then W^{-1} recovers the
// original vector for an orthant+SOC product cone.
func TestScaleRoundTrip(t *testing.T) {
	d := cone.Dims{L: 2, Q: []int{3}}
	s := []float64{2, 3, 2, 0.5, 0.5}
	z := []float64{1, 1, 1, 0.1, 0.1}
	w, _, err := ComputeScaling(s, z, d, 0)
	require.NoError(t, err)

	x := []float64{1, 2, 3, 0.2, 0.1}
	orig := append([]float64(nil), x...)
	Scale(x, w, d, false, false)
	Scale(x, w, d, false, true)
	for i := range x {
		require.InDelta(t, orig[i], x[i], 1e-6)
	}
}
