// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

package coneopt

import (
	"fmt"
	"math"
	"os"

	"github.com/gocvx/coneopt/cone"
	"github.com/gocvx/coneopt/kkt"
	"github.com/gocvx/coneopt/linop"
	"github.com/gocvx/coneopt/scaling"
	"gonum.org/v1/gonum/mat"
)

const maxLineSearch = 40

// seriesState is the iterate snapshot saved at the start of a relaxed
// line-search series (spec.md 4.3.1). It is restored when the monotone
// backtrack that ends a series leaves the merit function at or above the
// value saved at the series start, and whenever an arithmetic error
// strikes while a series is open (the rollback/retry tree of spec.md 7).
type seriesState struct {
	x, y, s, z []float64
	W          *scaling.W
	lmbda      []float64
	step       float64
	phi        float64
	dphi       float64
}

func cloneW(w *scaling.W) *scaling.W {
	out := &scaling.W{
		Dnl:  append([]float64(nil), w.Dnl...),
		Dnli: append([]float64(nil), w.Dnli...),
		D:    append([]float64(nil), w.D...),
		Di:   append([]float64(nil), w.Di...),
		Beta: append([]float64(nil), w.Beta...),
	}
	out.V = make([][]float64, len(w.V))
	for i, v := range w.V {
		out.V[i] = append([]float64(nil), v...)
	}
	out.R = make([]*mat.Dense, len(w.R))
	out.Rti = make([]*mat.Dense, len(w.Rti))
	for i, r := range w.R {
		if r == nil {
			continue
		}
		c := mat.NewDense(r.RawMatrix().Rows, r.RawMatrix().Cols, nil)
		c.Copy(r)
		out.R[i] = c
	}
	for i, rti := range w.Rti {
		if rti == nil {
			continue
		}
		c := mat.NewDense(rti.RawMatrix().Rows, rti.RawMatrix().Cols, nil)
		c.Copy(rti)
		out.Rti[i] = c
	}
	return out
}

// choleskyFactorPSDBlocks overwrites each PSD block of x (already
// symmetric, column-major dense) with its lower Cholesky factor, the
// form update_scaling requires of its s/z arguments on the 's' blocks.
func choleskyFactorPSDBlocks(x []float64, d cone.Dims, mnl int) error {
	ind := mnl + d.L + d.SumQ()
	for _, m := range d.S {
		if m == 0 {
			continue
		}
		cone.Symm(x, m, ind)
		sym := mat.NewSymDense(m, nil)
		for i := 0; i < m; i++ {
			for j := i; j < m; j++ {
				sym.SetSym(i, j, x[ind+j*m+i])
			}
		}
		var chol mat.Cholesky
		if ok := chol.Factorize(sym); !ok {
			return fmt.Errorf("%w: PSD block is not positive definite", kkt.ErrRankDeficient)
		}
		var l mat.TriDense
		chol.LTo(&l)
		for j := 0; j < m; j++ {
			for i := 0; i < m; i++ {
				x[ind+j*m+i] = l.At(i, j)
			}
		}
		ind += m * m
	}
	return nil
}

// applyGtT computes (Df' z[:mnl] + G' z[mnl:]) into out; it is the GG'
// term in the residual rx and in the refined KKT residual.
func applyGtT(Df, G linop.Operator, n, mnl int, z []float64) []float64 {
	out := make([]float64, n)
	if mnl > 0 {
		Df.Apply(1.0, z[:mnl], true, 0.0, out)
	}
	if G != nil {
		tmp := make([]float64, n)
		G.Apply(1.0, z[mnl:], true, 0.0, tmp)
		addInto(out, tmp)
	}
	return out
}

// wTwApply computes W'W*z in place (z holds both the nonlinear and cone
// blocks), used by refineKKT to recompute the third-block residual of
// the unreduced 3x3 Newton system.
func wTwApply(w *scaling.W, d cone.Dims, mnl int, z []float64) []float64 {
	out := append([]float64(nil), z...)
	scaling.Scale(out, w, d, false, false)
	scaling.Scale(out, w, d, true, false)
	return out
}

// refineKKT solves the 3x3 Newton system with opts.Refinement fixed-point
// refinement passes, recomputing the unreduced residual at each pass from
// the problem operators (spec.md 4.3 step 7: f4 vs f4_no_ir). refinement
// <= 0 reduces to a single factored solve (f4_no_ir).
func refineKKT(solver kkt.Solver, H, Df, G, A linop.Operator, w *scaling.W, d cone.Dims, mnl, n, p, ml, refinement int, bx, by, bz []float64) error {
	ux := append([]float64(nil), bx...)
	uy := append([]float64(nil), by...)
	uz := append([]float64(nil), bz...)
	if err := solver.Solve(ux, uy, uz); err != nil {
		return err
	}
	for t := 0; t < refinement; t++ {
		rx := append([]float64(nil), bx...)
		if H != nil {
			tmp := make([]float64, n)
			H.Apply(1.0, ux, false, 0.0, tmp)
			for i := range rx {
				rx[i] -= tmp[i]
			}
		}
		if A != nil {
			tmp := make([]float64, n)
			A.Apply(1.0, uy, true, 0.0, tmp)
			for i := range rx {
				rx[i] -= tmp[i]
			}
		}
		// The solver returns W*uz; the residual needs uz itself.
		uzu := append([]float64(nil), uz...)
		scaling.Scale(uzu, w, d, false, true)
		gtuz := applyGtT(Df, G, n, mnl, uzu)
		for i := range rx {
			rx[i] -= gtuz[i]
		}

		ry := append([]float64(nil), by...)
		if A != nil {
			tmp := make([]float64, p)
			A.Apply(1.0, ux, false, 0.0, tmp)
			for i := range ry {
				ry[i] -= tmp[i]
			}
		}

		rz := append([]float64(nil), bz...)
		gtux := make([]float64, ml)
		if mnl > 0 {
			Df.Apply(1.0, ux, false, 0.0, gtux[:mnl])
		}
		if G != nil {
			G.Apply(1.0, ux, false, 0.0, gtux[mnl:])
		}
		for i := range rz {
			rz[i] -= gtux[i]
		}
		wtwuz := wTwApply(w, d, mnl, uzu)
		for i := range rz {
			rz[i] += wtwuz[i]
		}

		dux, duy, duz := rx, ry, rz
		if err := solver.Solve(dux, duy, duz); err != nil {
			return err
		}
		addInto(ux, dux)
		addInto(uy, duy)
		addInto(uz, duz)
	}
	copy(bx, ux)
	copy(by, uy)
	copy(bz, uz)
	return nil
}

// Cpl solves a convex program with a linear objective and nonlinear
// inequality constraints over a product cone:
//
//	minimize    c'*x
//	subject to  f_k(x) <= 0, k = 1, ..., mnl   (given by F)
//	            G*x + s = h,  s in the cone described by d
//	            A*x = b
//
// F supplies the nonlinear constraints and their derivatives; pass nil
// for a purely linear cone program (mnl == 0), in which case Cpl reduces
// to the algorithm used internally by ConeLP. G and A may be nil when
// the corresponding block of constraints is absent. opts.KKTSolver selects
// the Newton system factorization; LDL is used when nil.
//
// The iteration is the predictor-corrector method with Nesterov-Todd
// scaling, iteratively-refined KKT solves, and a relaxed line search
// with rollback (spec.md 4.3/4.3.1): the merit function
// phi = theta1*gap + theta2*||rx|| + theta3*||rznl|| is allowed to
// increase for up to MaxRelaxedIters consecutive steps before the driver
// falls back to a strictly monotone backtrack, restoring the iterate
// saved at the start of the relaxed series if the merit function after
// that backtrack is not below the value saved with it.
func Cpl(c []float64, F NLConstraints, G, A linop.Operator, h, b []float64, d cone.Dims, opts Options) (*Result, error) {
	n := len(c)
	if F == nil {
		F = &noConstraints{n: n}
	}
	mnl, x0 := F.Init()
	if len(x0) != n {
		return nil, &DimensionError{"F.Init() x0", len(x0), n}
	}
	if G != nil && G.Cols() != n {
		return nil, &DimensionError{"G columns", G.Cols(), n}
	}
	if A != nil && A.Cols() != n {
		return nil, &DimensionError{"A columns", A.Cols(), n}
	}
	p := 0
	if A != nil {
		p = A.Rows()
	}
	mG := d.L + d.SumQ() + d.SumS()
	if G != nil && G.Rows() != mG {
		return nil, &DimensionError{"G rows", G.Rows(), mG}
	}
	if len(h) != mG {
		return nil, &DimensionError{"h", len(h), mG}
	}
	if len(b) != p {
		return nil, &DimensionError{"b", len(b), p}
	}
	ml := mnl + mG
	degree := mnl + d.L + len(d.Q) + sumInts(d.S)

	kktFactory := opts.KKTSolver
	if kktFactory == nil {
		kktFactory = kkt.LDL(d, mnl)
	}

	x := append([]float64(nil), x0...)
	y := make([]float64, p)
	s := coneUnit(d, mnl)
	z := coneUnit(d, mnl)
	var W *scaling.W
	var lmbda []float64

	var relaxedIters int
	var series *seriesState

	var thetaGap, thetaRx, thetaRznl float64
	var presDenom, dresDenom float64

	var result Result
	for iter := 0; iter <= opts.MaxIters; iter++ {
		f, Df, ok := F.Eval(x)
		if !ok {
			return nil, ErrDomain
		}
		if len(f) != mnl {
			return nil, &DimensionError{"F.Eval(x) f", len(f), mnl}
		}
		H := F.Hessian(x, z[:mnl])

		rx := make([]float64, n)
		copy(rx, c)
		if A != nil {
			tmp := make([]float64, n)
			A.Apply(1.0, y, true, 0.0, tmp)
			addInto(rx, tmp)
		}
		addInto(rx, applyGtT(Df, G, n, mnl, z))

		ry := make([]float64, p)
		if A != nil {
			A.Apply(1.0, x, false, 0.0, ry)
			for i := range ry {
				ry[i] -= b[i]
			}
		}

		rz := make([]float64, ml)
		copy(rz[:mnl], f)
		for i := 0; i < mnl; i++ {
			rz[i] += s[i]
		}
		if G != nil {
			G.Apply(1.0, x, false, 0.0, rz[mnl:])
			for i := 0; i < mG; i++ {
				rz[mnl+i] += s[mnl+i] - h[i]
			}
		}

		gap := cone.Sdot(s, z, d, mnl)
		resx := norm2(rx)
		resy := norm2(ry)
		resz := norm2(rz)
		rznlNorm := norm2(rz[:mnl])

		pobj := dot(c, x)
		dobj := pobj + dot(y, ry) + dot(z[:mnl], rz[:mnl]) + dot(z[mnl:], rz[mnl:]) - gap

		var relgap float64
		switch {
		case pobj < 0:
			relgap = gap / -pobj
		case dobj > 0:
			relgap = gap / dobj
		default:
			relgap = 1.0
		}

		if iter == 0 {
			thetaGap = 1.0 / math.Max(gap, 1e-10)
			thetaRx = 1.0 / math.Max(resx, 1e-10)
			thetaRznl = 1.0 / math.Max(rznlNorm, 1e-10)
			presDenom = math.Max(1.0, math.Sqrt(resy*resy+resz*resz))
			dresDenom = math.Max(1.0, resx)
		}
		pres := math.Sqrt(resy*resy+resz*resz) / presDenom
		dres := resx / dresDenom

		result = Result{
			Status:          Unknown,
			PrimalObjective: pobj,
			DualObjective:   dobj,
			Gap:             gap,
			RelGap:          relgap,
			PrimalInf:       pres,
			DualInf:         dres,
			X:               x, Y: y, S: s, Z: z,
			Iterations: iter,
		}

		if opts.ShowProgress {
			printProgress(opts.Progress, iter, pobj, dobj, gap, resx, resy)
		}

		if pres <= opts.FeasTol && dres <= opts.FeasTol &&
			(gap <= opts.AbsTol || relgap <= opts.RelTol) {
			result.Status = Optimal
			ts := cone.MaxStep(append([]float64(nil), s...), d, mnl, nil)
			tz := cone.MaxStep(append([]float64(nil), z...), d, mnl, nil)
			result.PrimalSlack = -ts
			result.DualSlack = -tz
			return &result, nil
		}
		if iter == opts.MaxIters {
			result.Status = Unknown
			return &result, ErrMaxIters
		}

		if iter == 0 {
			var err error
			W, lmbda, err = scaling.ComputeScaling(s, z, d, mnl)
			if err != nil {
				return &result, fmt.Errorf("%w: Rank(A) < p or Rank([H; A; Df; G]) < n", ErrSingularKKT)
			}
		}
		mu := gap / float64(degree)

		refinement := opts.Refinement
		if d.SumQ() == 0 && d.SumS() == 0 {
			refinement = 0
		}

		phi := thetaGap*gap + thetaRx*resx + thetaRznl*rznlNorm

		unit := coneUnit(d, mnl)

		strict := false
		var accepted float64
		var dx, dy, dz, ds []float64
		attempt := 0
		for {
			// lamSq = lambda o lambda must track the current lmbda: it is
			// recomputed on every pass, not just the first, since a retry
			// after a rollback (below) restores a different lmbda.
			lamSq := expandLambda(lmbda, d, mnl)
			cone.Sprod(lamSq, lmbda, d, mnl, true)

			if attempt > 0 {
				// A restore just ran (see the rollback branch below): the
				// oracle and residuals must be refreshed at the restored
				// point before the retried factorization and solve.
				var evalOK bool
				f, Df, evalOK = F.Eval(x)
				if !evalOK {
					return nil, ErrDomain
				}
				H = F.Hessian(x, z[:mnl])
				rx = make([]float64, n)
				copy(rx, c)
				if A != nil {
					tmp := make([]float64, n)
					A.Apply(1.0, y, true, 0.0, tmp)
					addInto(rx, tmp)
				}
				addInto(rx, applyGtT(Df, G, n, mnl, z))
				ry = make([]float64, p)
				if A != nil {
					A.Apply(1.0, x, false, 0.0, ry)
					for i := range ry {
						ry[i] -= b[i]
					}
				}
				rz = make([]float64, ml)
				copy(rz[:mnl], f)
				for i := 0; i < mnl; i++ {
					rz[i] += s[i]
				}
				if G != nil {
					G.Apply(1.0, x, false, 0.0, rz[mnl:])
					for i := 0; i < mG; i++ {
						rz[mnl+i] += s[mnl+i] - h[i]
					}
				}
				gap = cone.Sdot(s, z, d, mnl)
				resx = norm2(rx)
				rznlNorm = norm2(rz[:mnl])
				mu = gap / float64(degree)
				phi = thetaGap*gap + thetaRx*resx + thetaRznl*rznlNorm
			}
			var stepErr error
			dx, dy, dz, ds, accepted, stepErr = func() ([]float64, []float64, []float64, []float64, float64, error) {
				solver, err := kktFactory(G, A, d, W, H, Df)
				if err != nil {
					return nil, nil, nil, nil, 0, err
				}

				// Phase 0: affine-scaling direction (f4_no_ir, no refinement).
				// The complementarity residual is bs = -(lambda o lambda); it
				// is folded into bz (via lambda o\ bs and a W' multiply)
				// exactly as localcvx.py's f4_no_ir does before the reduced
				// (H, A, G, -W') solve, and unfolded into ds afterwards.
				sArgA := negate(lamSq)
				cone.Sinv(sArgA, lmbda, d, mnl)
				ws3A := append([]float64(nil), sArgA...)
				scaling.Scale(ws3A, W, d, true, false)
				bx := negate(rx)
				by := negate(ry)
				bz := negate(rz)
				for i := range bz {
					bz[i] -= ws3A[i]
				}
				if err := refineKKT(solver, H, Df, G, A, W, d, mnl, n, p, ml, 0, bx, by, bz); err != nil {
					return nil, nil, nil, nil, 0, err
				}
				dzA := bz
				dsA := append([]float64(nil), sArgA...)
				for i := range dsA {
					dsA[i] -= dzA[i]
				}

				// ds'*dz is taken on the raw (pre-scale2) solved vectors,
				// matching localcvx.py's dsdz = misc.sdot(ds, dz, ...)
				// computed ahead of misc.scale2; only the max-step
				// boundary search below operates in the lambda-scaled
				// space.
				dsdzAff := cone.Sdot(dsA, dzA, d, mnl)
				dsTildeA := append([]float64(nil), dsA...)
				scaling.Scale2(lmbda, dsTildeA, d, mnl, false)
				dzTildeA := append([]float64(nil), dzA...)
				scaling.Scale2(lmbda, dzTildeA, d, mnl, false)
				tsA := cone.MaxStep(dsTildeA, d, mnl, nil)
				tzA := cone.MaxStep(dzTildeA, d, mnl, nil)
				tauA := math.Max(0, math.Max(tsA, tzA))
				stepA := 1.0
				if tauA > 0 {
					stepA = math.Min(1.0, opts.Step/tauA)
				}

				newGapAffine := func(st float64) float64 {
					return (1-st)*gap + st*st*dsdzAff
				}
				dphi0 := -phi
				phi0 := func(st float64) float64 {
					ng := newGapAffine(st)
					return thetaGap*ng + thetaRx*(1-st)*resx + thetaRznl*(1-st)*rznlNorm
				}
				inRelaxedWindow := relaxedIters >= 0 && relaxedIters < opts.MaxRelaxedIters
				degenerate0 := !inRelaxedWindow || strict
				for k := 0; k < maxLineSearch; k++ {
					ng := newGapAffine(stepA)
					accept := ng <= (1-opts.Alpha*stepA)*gap &&
						(!degenerate0 || phi0(stepA) <= phi+opts.Alpha*stepA*dphi0)
					if accept {
						break
					}
					stepA *= opts.Beta
				}
				gamma := 1.0
				if gap > 0 {
					gamma = newGapAffine(stepA) / gap
				}
				sigma := clamp01(math.Min(gamma, math.Pow(gamma, opts.Expon)))

				// Phase 1: corrector direction, bs = -(lambda o lambda) +
				// sigma*mu*e, folded into bz2 the same way as phase 0.
				bsCorr := make([]float64, ml)
				for i := range bsCorr {
					bsCorr[i] = -lamSq[i] + sigma*mu*unit[i]
				}
				sArg1 := append([]float64(nil), bsCorr...)
				cone.Sinv(sArg1, lmbda, d, mnl)
				ws3C := append([]float64(nil), sArg1...)
				scaling.Scale(ws3C, W, d, true, false)

				// eta is fixed at 0 throughout (no higher-order residual
				// correction), so unlike the gap term in newGap1/dphi1
				// below, the residuals themselves are left unscaled here,
				// matching localcvx.py's "-(1-eta)*r" with eta==0.
				bx2 := negate(rx)
				by2 := negate(ry)
				bz2 := negate(rz)
				for i := range bz2 {
					bz2[i] -= ws3C[i]
				}
				if err := refineKKT(solver, H, Df, G, A, W, d, mnl, n, p, ml, refinement, bx2, by2, bz2); err != nil {
					return nil, nil, nil, nil, 0, err
				}
				dx, dy, dz := bx2, by2, bz2
				ds := append([]float64(nil), sArg1...)
				for i := range ds {
					ds[i] -= dz[i]
				}

				dsdz1 := cone.Sdot(ds, dz, d, mnl)
				dsTilde := append([]float64(nil), ds...)
				scaling.Scale2(lmbda, dsTilde, d, mnl, false)
				dzTilde := append([]float64(nil), dz...)
				scaling.Scale2(lmbda, dzTilde, d, mnl, false)
				ts := cone.MaxStep(dsTilde, d, mnl, nil)
				tz := cone.MaxStep(dzTilde, d, mnl, nil)
				tau := math.Max(0, math.Max(ts, tz))
				step := 1.0
				if tau > 0 {
					step = math.Min(1.0, opts.Step/tau)
				}

				// Domain backtrack (spec.md 4.3 step 10): the cone part of
				// the step is exactly feasible by construction; only the
				// nonlinear constraints (merely convex, not conic) need it.
				for k := 0; k < maxLineSearch; k++ {
					xt := addScaled(x, dx, step)
					if _, _, ok := F.Eval(xt); ok {
						break
					}
					step *= opts.Beta
				}

				newGap1 := func(st float64) float64 {
					return (1-(1-sigma)*st)*gap + st*st*dsdz1
				}
				phi1 := func(st float64) float64 {
					ng := newGap1(st)
					return thetaGap*ng + thetaRx*(1-st)*resx + thetaRznl*(1-st)*rznlNorm
				}
				dphi1 := -thetaGap*(1-sigma)*gap - thetaRx*resx - thetaRznl*rznlNorm

				strictBranch := strict || relaxedIters == -1 || (relaxedIters == 0 && opts.MaxRelaxedIters == 0)
				accepted := step
				switch {
				case strictBranch:
					for k := 0; k < maxLineSearch; k++ {
						if phi1(accepted) <= phi+opts.Alpha*accepted*dphi1 {
							break
						}
						accepted *= opts.Beta
					}
					relaxedIters = 0
					series = nil
				case relaxedIters == 0:
					if phi1(accepted) <= phi+opts.Alpha*accepted*dphi1 {
						relaxedIters = 0
					} else {
						series = &seriesState{
							x: append([]float64(nil), x...), y: append([]float64(nil), y...),
							s: append([]float64(nil), s...), z: append([]float64(nil), z...),
							W: cloneW(W), lmbda: append([]float64(nil), lmbda...),
							step: accepted, phi: phi, dphi: dphi1,
						}
						relaxedIters = 1
					}
				case relaxedIters > 0 && relaxedIters < opts.MaxRelaxedIters:
					if phi1(accepted) <= series.phi+opts.Alpha*series.step*series.dphi {
						relaxedIters = 0
						series = nil
					} else {
						relaxedIters++
					}
				case relaxedIters == opts.MaxRelaxedIters:
					threshold := series.phi + opts.Alpha*series.step*series.dphi
					for k := 0; k < maxLineSearch; k++ {
						if phi1(accepted) <= threshold {
							break
						}
						accepted *= opts.Beta
					}
					np := phi1(accepted)
					switch {
					case np <= threshold:
						relaxedIters = 0
						series = nil
					case np >= series.phi:
						restoreSeriesInto(series, &x, &y, &s, &z, &W, &lmbda)
						relaxedIters = -1
						series = nil
						accepted = 0
					default:
						relaxedIters = -1
						series = nil
					}
				}
				return dx, dy, dz, ds, accepted, nil
			}()

			if stepErr == nil {
				break
			}
			if iter == 0 {
				result.Status = Unknown
				return &result, fmt.Errorf("%w: Rank(A) < p or Rank([H; A; Df; G]) < n", ErrSingularKKT)
			}
			if attempt == 0 && series != nil && relaxedIters > 0 && relaxedIters < opts.MaxRelaxedIters {
				restoreSeriesInto(series, &x, &y, &s, &z, &W, &lmbda)
				relaxedIters = -1
				series = nil
				strict = true
				attempt++
				continue
			}
			result.Status = Unknown
			return &result, fmt.Errorf("%w: Terminated (singular KKT matrix)", ErrSingularKKT)
		}

		if accepted > 0 {
			// dz, ds are the raw solved Newton directions (the max-step
			// search above works off separate Scale2'd copies, dsTilde/
			// dzTilde, and never mutates dz/ds themselves); the iterate
			// update maps them to the physical directions W^{-1}*dz and
			// W'*ds, matching localcvx.py's dz2/ds2.
			dzPhys := append([]float64(nil), dz...)
			scaling.Scale(dzPhys, W, d, false, true)
			dsPhys := append([]float64(nil), ds...)
			scaling.Scale(dsPhys, W, d, true, false)
			sNew := addScaled(s, dsPhys, accepted)
			zNew := addScaled(z, dzPhys, accepted)
			x = addScaled(x, dx, accepted)
			for i := range y {
				y[i] += accepted * dy[i]
			}

			sArg := append([]float64(nil), sNew...)
			scaling.Scale(sArg, W, d, true, true)
			zArg := append([]float64(nil), zNew...)
			scaling.Scale(zArg, W, d, false, false)
			if err := choleskyFactorPSDBlocks(sArg, d, mnl); err != nil {
				return &result, fmt.Errorf("%w: Terminated (singular KKT matrix)", ErrSingularKKT)
			}
			if err := choleskyFactorPSDBlocks(zArg, d, mnl); err != nil {
				return &result, fmt.Errorf("%w: Terminated (singular KKT matrix)", ErrSingularKKT)
			}
			if err := scaling.UpdateScaling(W, lmbda, sArg, zArg, d); err != nil {
				result.Status = Unknown
				return &result, fmt.Errorf("%w: Terminated (singular KKT matrix)", ErrSingularKKT)
			}

			s = expandLambda(lmbda, d, mnl)
			scaling.Scale(s, W, d, true, false)
			z = expandLambda(lmbda, d, mnl)
			scaling.Scale(z, W, d, false, true)
		}
	}

	result.Status = Unknown
	return &result, ErrMaxIters
}

// restoreSeriesInto swaps the running iterate back to the snapshot taken
// at the start of a relaxed line-search series.
func restoreSeriesInto(series *seriesState, x, y, s, z *[]float64, W **scaling.W, lmbda *[]float64) {
	*x = series.x
	*y = series.y
	*s = series.s
	*z = series.z
	*W = series.W
	*lmbda = series.lmbda
}

// printProgress writes one pcost/dcost/gap/resx/resy iteration line to
// w (os.Stdout when w is nil), matching the plain tabular progress
// report of the reference interior-point solver.
func printProgress(w ProgressWriter, iter int, pobj, dobj, gap, resx, resy float64) {
	line := fmt.Sprintf("%3d: pobj=%+.4e dobj=%+.4e gap=%.2e resx=%.2e resy=%.2e\n",
		iter, pobj, dobj, gap, resx, resy)
	if w == nil {
		os.Stdout.WriteString(line)
		return
	}
	w.WriteString(line)
}

func coneUnit(d cone.Dims, mnl int) []float64 {
	n := d.NU(mnl)
	e := make([]float64, n)
	for i := 0; i < mnl+d.L; i++ {
		e[i] = 1
	}
	ind := mnl + d.L
	for _, m := range d.Q {
		e[ind] = 1
		ind += m
	}
	for _, m := range d.S {
		for i := 0; i < m; i++ {
			e[ind+i*m+i] = 1
		}
		ind += m * m
	}
	return e
}

// expandLambda places the compact scaling point lmbda (one entry per 'l'
// and nonlinear-slack position, one per 'q' position, but only the m
// eigenvalues of an m-by-m 's' block) into the unpacked cone-vector space
// that ds, dz, s, and z occupy, with each 's' block's eigenvalues placed
// on the diagonal of an otherwise-zero m-by-m matrix. The result is the
// base lambda needs to be in before cone.Sprod/Sinv operate on it jointly
// with full unpacked vectors such as dz or ds.
func expandLambda(lmbda []float64, d cone.Dims, mnl int) []float64 {
	nlq := d.NLQ(mnl)
	out := make([]float64, d.NU(mnl))
	copy(out[:nlq], lmbda[:nlq])
	ind, ind2 := nlq, nlq
	for _, m := range d.S {
		for i := 0; i < m; i++ {
			out[ind+i*m+i] = lmbda[ind2+i]
		}
		ind += m * m
		ind2 += m
	}
	return out
}

func sumInts(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}

func addInto(dst, src []float64) {
	for i := range dst {
		dst[i] += src[i]
	}
}

func negate(x []float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = -v
	}
	return y
}

func addScaled(x, d []float64, step float64) []float64 {
	y := make([]float64, len(x))
	for i := range x {
		y[i] = x[i] + step*d[i]
	}
	return y
}

func norm2(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
