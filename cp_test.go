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

// analyticCenterOracle is testcp.py's section 9.1 example: minimize
// -sum(log(1-x_i^2)) over the domain |x_i| < 1, with no nonlinear
// inequality constraints beyond the objective itself (the cone
// constraints are carried entirely by G/h/dims).
type analyticCenterOracle struct{ n int }

func (o *analyticCenterOracle) Init() (int, []float64) {
	return 0, make([]float64, o.n)
}

func (o *analyticCenterOracle) Eval(x []float64) ([]float64, linop.Operator, bool) {
	u := make([]float64, o.n)
	val := 0.0
	grad := make([]float64, o.n)
	for i, xi := range x {
		if math.Abs(xi) >= 1.0 {
			return nil, nil, false
		}
		u[i] = 1 - xi*xi
		val -= math.Log(u[i])
		grad[i] = 2 * xi / u[i]
	}
	return []float64{val}, &linop.Dense{NRows: 1, NCols: o.n, Data: grad}, true
}

func (o *analyticCenterOracle) Hessian(x, z []float64) linop.Operator {
	zeta := z[0]
	diag := make([]float64, o.n*o.n)
	for i, xi := range x {
		u := 1 - xi*xi
		diag[i*o.n+i] = 2 * zeta * (1 + xi*xi) / (u * u)
	}
	return &linop.Dense{NRows: o.n, NCols: o.n, Data: diag}
}

// TestScenarioS4AnalyticCenteringCP is testcp.py: analytic centering of
// the cone Gx+s=h, s in (l=0, q=[4], s=[3]), with a nonlinear objective
// evaluated by Cp's epigraph reduction. As with S3, testcp.py never
// prints a numeric optimum to transcribe; the scenario checks the
// returned certificate (residuals, gap) and the oracle's own domain
// constraint (|x_i|<1) instead.
func TestScenarioS4AnalyticCenteringCP(t *testing.T) {
	G := &linop.Dense{NRows: 13, NCols: 3, Data: []float64{
		0, 0, 0,
		-1, 0, 0,
		0, -1, 0,
		0, 0, -1,
		-21, 0, -5,
		-11, 10, 2,
		0, 16, -17,
		-11, 10, 2,
		10, -10, -6,
		8, -10, 8,
		0, 16, -17,
		8, -10, -7,
		5, 3, 6,
	}}
	h := []float64{1, 0, 0, 0, 20, 10, 40, 10, 80, 10, 40, 10, 15}
	d := cone.Dims{L: 0, Q: []int{4}, S: []int{3}}

	oracle := &analyticCenterOracle{n: 3}
	res, err := coneopt.Cp(oracle, G, nil, h, nil, d, coneopt.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, coneopt.Optimal, res.Status)
	require.LessOrEqual(t, res.PrimalInf, 1e-5)
	require.LessOrEqual(t, res.DualInf, 1e-5)
	require.LessOrEqual(t, res.Gap, 1e-4)
	for _, xi := range res.X {
		require.Less(t, math.Abs(xi), 1.0)
	}
}
