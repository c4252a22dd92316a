// Package solver defines the boundary between a generated model and the
// optimisation back end that solves it.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/rcpsp/core/milp"
)

// Status is the terminal state of a solve.
type Status int

const (
	// StatusOptimal means the returned values are proven optimal.
	StatusOptimal Status = iota
	// StatusFeasible means values are feasible but optimality is unproven.
	StatusFeasible
	// StatusInfeasible means the model admits no solution.
	StatusInfeasible
	// StatusUnbounded means the objective can decrease without limit.
	StatusUnbounded
	// StatusLimit means a limit was hit before any solution was found.
	StatusLimit
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusLimit:
		return "limit"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// HasSolution reports whether Result.Values is populated.
func (s Status) HasSolution() bool { return s == StatusOptimal || s == StatusFeasible }

// Result is what a Solver returns. Infeasibility is reported through
// Status, never as an error.
type Result struct {
	Status    Status
	Objective float64
	Values    []float64 // indexed by milp.VarID
	Nodes     int
	Elapsed   time.Duration
}

// Value returns the value of the named variable.
func (r Result) Value(m *milp.Model, name string) (float64, bool) {
	id, ok := m.Lookup(name)
	if !ok || int(id) >= len(r.Values) {
		return 0, false
	}
	return r.Values[id], true
}

// Solver solves a MILP.
type Solver interface {
	Solve(ctx context.Context, m *milp.Model) (Result, error)
}

// ErrNoModel is returned when Solve is called with a nil model.
var ErrNoModel = errors.New("solver: nil model")

// Func adapts a function to the Solver interface.
type Func func(ctx context.Context, m *milp.Model) (Result, error)

// Solve calls f.
func (f Func) Solve(ctx context.Context, m *milp.Model) (Result, error) { return f(ctx, m) }
