// Package solver provides BranchBound, a small MILP solver built on the
// gonum simplex. It solves the LP relaxation of each node with
// gonum.org/v1/gonum/optimize/convex/lp and branches depth-first on
// fractional binary, then integer, columns.
//
// It is meant for small instances, tests and smoke runs. Larger models
// should be exported in LP format and handed to a dedicated MILP solver.
package solver
