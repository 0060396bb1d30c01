// Copyright (c) 2024 The gocvx Authors.

// This file is part of the coneopt package. It is free software, distributed
// under the terms of GNU Lesser General Public License Version 3, or any later
// version. See the COPYING file included in this archive.

/*
Package coneopt solves convex optimization problems over products of the
nonnegative orthant, second-order (quadratic) cones, and positive
semidefinite cones, using a primal-dual interior-point method with
Nesterov-Todd scaling.

It is a from-scratch Go rendition of the algorithms in the CVXOPT python
package's cvx and misc modules: it provides solvers for cone programs with
linear objectives (Cpl) and convex programs with nonlinear objectives (Cp),
plus a geometric-programming front end (Gp) that reduces to Cp.

Package coneopt depends on gonum's mat and blas64 packages for dense linear
algebra: matrix containers, Cholesky and QR factorizations, and symmetric
eigendecomposition are treated as external collaborators supplied by gonum
rather than reimplemented here.

Solvers

The following entry points are provided:

   ConeLP   Linear cone programs (no nonlinear objective term)
   LP       Linear programs (dims.Q, dims.S both empty)
   SOCP     Second-order cone programs
   SDP      Semidefinite programs
   Cpl      Convex programs with a linear objective and nonlinear
            constraints, advanced interface with custom KKT solvers
   Cp       Convex programs with a nonlinear objective
   QP       Quadratic objective, reduced to Cp
   Gp       Geometric programs, reduced to Cp via a log-sum-exp oracle

ConeLP and Cpl are the advanced interfaces. LP, SOCP, SDP, QP and Gp are
convenience wrappers with the plain matrix interface. Every entry point
takes Options, so each accepts a custom KKT solver factory through
Options.KKTSolver.

Scaling

W is a scaling operator, a block-diagonal map

    W*u = ( W0*u_0, ..., W_{N+M}*u_{N+M} )

defined as follows.

For the 'l' block (W_0):

    W_0 = diag(d)

with d a positive vector of length dims.L.

For each 'q' block (W_{k+1}, k = 0, ..., N-1):

    W_{k+1} = beta_k * ( 2 * v_k * v_k' - J )

where beta_k is a positive scalar, v_k is a vector in R^{dims.Q[k]} with
v_k[0] > 0 and v_k'*J*v_k = 1, and J = [1, 0; 0, -I].

For each 's' block (W_{k+N}, k = 0, ..., M-1):

    W_k * u = vec(r_k' * mat(u) * r_k)

where r_k is a nonsingular matrix of order dims.S[k], and mat(x) is the
inverse of the vec operation.

A scaling.W value exposes these as struct fields: D, Di, Beta, V, R, Rti.

KKT solvers

The kkt package's Factory type is the custom-solver hook: a factory
produces a Solver from a scaling W (and, for Cpl/Cp, the Hessian block H and
Jacobian Df of the nonlinear term). The returned Solver solves

    [ P   A'  G'*W^{-1}  ] [ ux ]   [ bx ]
    [ A   0   0          ] [ uy ] = [ by ]
    [ G   0   -W'        ] [ uz ]   [ bz ]

in place: on return, x, y, z hold the solution, with uz scaled so that z
holds W*uz.
*/
package coneopt
