// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

// Package cone implements the Jordan-algebra vector operations for the
// product cone R^l x Q x P (nonnegative orthant, second-order cones, and
// positive semidefinite cones) that the primal-dual interior-point method
// operates on.
package cone

import "math"

// Dims describes the cone product a vector is partitioned into: L is the
// size of the nonnegative-orthant block, Q the sizes of the second-order
// cone blocks, and S the orders of the (unpacked) PSD blocks.
type Dims struct {
	L int
	Q []int
	S []int
}

// SumQ returns the total length of the 'q' blocks.
func (d Dims) SumQ() int {
	n := 0
	for _, m := range d.Q {
		n += m
	}
	return n
}

// SumS returns the total unpacked length of the 's' blocks (sum of m^2).
func (d Dims) SumS() int {
	n := 0
	for _, m := range d.S {
		n += m * m
	}
	return n
}

// SumSPacked returns the total packed length of the 's' blocks (sum of m(m+1)/2).
func (d Dims) SumSPacked() int {
	n := 0
	for _, m := range d.S {
		n += m * (m + 1) / 2
	}
	return n
}

// MaxS returns the largest 's' block order, or 0 if there are none.
func (d Dims) MaxS() int {
	max := 0
	for _, m := range d.S {
		if m > max {
			max = m
		}
	}
	return max
}

// NLQ returns mnl + L + SumQ, the offset at which the 's' blocks begin in
// an unpacked cone vector.
func (d Dims) NLQ(mnl int) int {
	return mnl + d.L + d.SumQ()
}

// NU returns the total length of an unpacked cone vector with mnl leading
// nonlinear-slack entries.
func (d Dims) NU(mnl int) int {
	return d.NLQ(mnl) + d.SumS()
}

// NP returns the total length of a packed cone vector with mnl leading
// nonlinear-slack entries.
func (d Dims) NP(mnl int) int {
	return d.NLQ(mnl) + d.SumSPacked()
}

func sqrt(x float64) float64 { return math.Sqrt(x) }
