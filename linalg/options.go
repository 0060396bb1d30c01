// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

// Package linalg provides the functional-options machinery shared by the
// linalg/lapack wrappers: named parameters (job/uplo flags) and index
// overrides (submatrix offsets, leading dimensions) passed as a variadic
// tail instead of a fixed positional argument list.
package linalg

// ParamValue is a job/uplo-style LAPACK flag.
type ParamValue int

const (
	PJobNo ParamValue = iota
	PJobV
	PLower
	PUpper
)

// Opt is a functional option mutating Parameters or IndexOpts.
type Opt func(p *Parameters, ind *IndexOpts)

// Parameters carries LAPACK job/uplo style flags.
type Parameters struct {
	Jobz ParamValue
	Uplo ParamValue
}

// IndexOpts carries submatrix shape/offset overrides. Negative N means
// "not set" (Syevd rejects it); zero LDa means "use the default".
type IndexOpts struct {
	N       int
	LDa     int
	OffsetA int
	OffsetW int
}

func defaultParameters() Parameters {
	return Parameters{Jobz: PJobV, Uplo: PLower}
}

func defaultIndexOpts() IndexOpts {
	return IndexOpts{N: -1, LDa: 0, OffsetA: 0, OffsetW: 0}
}

// GetParameters folds opts into a Parameters value seeded with defaults.
func GetParameters(opts ...Opt) (Parameters, error) {
	p := defaultParameters()
	ind := defaultIndexOpts()
	for _, o := range opts {
		o(&p, &ind)
	}
	return p, nil
}

// GetIndexOpts folds opts into an IndexOpts value seeded with defaults.
func GetIndexOpts(opts ...Opt) IndexOpts {
	p := defaultParameters()
	ind := defaultIndexOpts()
	for _, o := range opts {
		o(&p, &ind)
	}
	return ind
}

// ParamString renders a ParamValue as the single LAPACK character it stands for.
func ParamString(v ParamValue) string {
	switch v {
	case PJobNo:
		return "N"
	case PJobV:
		return "V"
	case PLower:
		return "L"
	case PUpper:
		return "U"
	}
	return "N"
}

// WithJobz overrides the jobz flag.
func WithJobz(v ParamValue) Opt {
	return func(p *Parameters, ind *IndexOpts) { p.Jobz = v }
}

// WithUplo overrides the uplo flag.
func WithUplo(v ParamValue) Opt {
	return func(p *Parameters, ind *IndexOpts) { p.Uplo = v }
}

// WithN overrides the matrix order.
func WithN(n int) Opt {
	return func(p *Parameters, ind *IndexOpts) { ind.N = n }
}

// WithLDa overrides the leading dimension.
func WithLDa(lda int) Opt {
	return func(p *Parameters, ind *IndexOpts) { ind.LDa = lda }
}

// WithOffsetA overrides the offset into the A backing slice.
func WithOffsetA(off int) Opt {
	return func(p *Parameters, ind *IndexOpts) { ind.OffsetA = off }
}

// WithOffsetW overrides the offset into the W (eigenvalue) backing slice.
func WithOffsetW(off int) Opt {
	return func(p *Parameters, ind *IndexOpts) { ind.OffsetW = off }
}
