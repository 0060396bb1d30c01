// Copyright (c) 2024 The gocvx Authors.

package cone

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSdotOrthant(t *testing.T) {
	d := Dims{L: 3}
	x := []float64{1, 2, 3}
	y := []float64{4, 5, 6}
	require.InDelta(t, 1*4+2*5+3*6, Sdot(x, y, d, 0), 1e-12)
}

func TestJnrm2UnitCone(t *testing.T) {
	x := []float64{2, 1, 1}
	require.InDelta(t, math.Sqrt(2.0), Jnrm2(x, 0, 3), 1e-9)
}

func TestSprodSinvInverse(t *testing.T) {
	d := Dims{L: 2, Q: []int{3}}
	y := []float64{2, 3, 5, 1, 1}
	x := []float64{1, 1, 0.1, 0.2, 0.1}
	orig := append([]float64(nil), x...)
	Sprod(x, y, d, 0, false)
	Sinv(x, y, d, 0)
	for i := range orig {
		require.InDelta(t, orig[i], x[i], 1e-9)
	}
}

func TestMaxStepOrthant(t *testing.T) {
	d := Dims{L: 3}
	x := []float64{1, -2, 3}
	require.InDelta(t, 2.0, MaxStep(x, d, 0, nil), 1e-12)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	d := Dims{L: 1, S: []int{2}}
	x := []float64{5, 1, 2, 2, 3}
	y := make([]float64, d.NP(0))
	Pack(x, y, d, 0, 0, 0)
	back := make([]float64, d.NU(0))
	Unpack(y, back, d, 0, 0, 0)
	for i := range x {
		require.InDelta(t, x[i], back[i], 1e-9)
	}
}
