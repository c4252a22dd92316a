package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/rcpsp/core/logger"
	"github.com/kilianp07/rcpsp/core/milp"
	"github.com/kilianp07/rcpsp/core/solver"
)

const (
	// DefaultNodeLimit bounds the search tree.
	DefaultNodeLimit = 20000
	// DefaultLPTolerance is passed to the simplex.
	DefaultLPTolerance = 1e-7
	// DefaultIntTolerance is the distance to an integer accepted as integral.
	DefaultIntTolerance = 1e-6
)

// BranchBound is a depth-first branch-and-bound MILP solver.
type BranchBound struct {
	NodeLimit    int
	TimeLimit    time.Duration // zero means none
	IntTolerance float64
	LPTolerance  float64
	Logger       logger.Logger
}

// NewBranchBound returns a solver with default limits.
func NewBranchBound(log logger.Logger) *BranchBound {
	return &BranchBound{
		NodeLimit:    DefaultNodeLimit,
		IntTolerance: DefaultIntTolerance,
		LPTolerance:  DefaultLPTolerance,
		Logger:       logger.OrNop(log),
	}
}

type node struct {
	lo, hi []float64
}

// Solve implements solver.Solver.
//
//gocyclo:ignore
func (b *BranchBound) Solve(ctx context.Context, m *milp.Model) (solver.Result, error) {
	if m == nil {
		return solver.Result{}, solver.ErrNoModel
	}
	start := time.Now()
	log := logger.OrNop(b.Logger)
	nodeLimit := b.NodeLimit
	if nodeLimit <= 0 {
		nodeLimit = DefaultNodeLimit
	}
	intTol := b.IntTolerance
	if intTol <= 0 {
		intTol = DefaultIntTolerance
	}
	lpTol := b.LPTolerance
	if lpTol <= 0 {
		lpTol = DefaultLPTolerance
	}

	relax, err := newRelaxation(m, lpTol)
	if err != nil {
		return solver.Result{}, fmt.Errorf("branch and bound: %w", err)
	}

	root := node{lo: make([]float64, len(m.Vars)), hi: make([]float64, len(m.Vars))}
	for i, v := range m.Vars {
		root.lo[i], root.hi[i] = v.Lower, v.Upper
		if v.Kind != milp.Continuous {
			root.lo[i] = math.Ceil(v.Lower - intTol)
			root.hi[i] = math.Floor(v.Upper + intTol)
		}
	}

	var (
		best      []float64
		bestObj   = math.Inf(1) // minimisation sense
		nodes     int
		limitHit  bool
		unbounded bool
	)
	stack := []node{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return solver.Result{}, err
		}
		if nodes >= nodeLimit || (b.TimeLimit > 0 && time.Since(start) > b.TimeLimit) {
			limitHit = true
			break
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		values, err := relax.solve(n.lo, n.hi)
		switch {
		case errors.Is(err, errNodeInfeasible):
			continue
		case errors.Is(err, errNodeUnbounded):
			unbounded = true
			stack = nil
			continue
		case err != nil:
			return solver.Result{}, fmt.Errorf("branch and bound: node %d: %w", nodes, err)
		}
		obj := relax.sign * m.Objective(values)
		if obj >= bestObj-lpTol {
			continue
		}

		branch := pickBranch(m, values, intTol)
		if branch < 0 {
			for i, v := range m.Vars {
				if v.Kind != milp.Continuous {
					values[i] = math.Round(values[i])
				}
			}
			best, bestObj = values, obj
			log.Debugw("incumbent improved", map[string]any{"node": nodes, "objective": relax.sign * obj})
			continue
		}

		x := values[branch]
		down := node{lo: clone(n.lo), hi: clone(n.hi)}
		down.hi[branch] = math.Floor(x)
		up := node{lo: clone(n.lo), hi: clone(n.hi)}
		up.lo[branch] = math.Ceil(x)
		// Explore the nearer side first.
		if x-math.Floor(x) < 0.5 {
			stack = append(stack, up, down)
		} else {
			stack = append(stack, down, up)
		}
	}

	res := solver.Result{Nodes: nodes, Elapsed: time.Since(start)}
	switch {
	case unbounded && best == nil:
		res.Status = solver.StatusUnbounded
	case best == nil && limitHit:
		res.Status = solver.StatusLimit
	case best == nil:
		res.Status = solver.StatusInfeasible
	case limitHit:
		res.Status = solver.StatusFeasible
	default:
		res.Status = solver.StatusOptimal
	}
	if best != nil {
		res.Values = best
		res.Objective = m.Objective(best)
	}
	log.Infow("branch and bound finished", map[string]any{
		"model":   m.Name,
		"status":  res.Status.String(),
		"nodes":   nodes,
		"elapsed": res.Elapsed.String(),
	})
	return res, nil
}

// pickBranch returns the first fractional binary, then the first fractional
// integer, or -1 when the relaxation is integral.
func pickBranch(m *milp.Model, values []float64, tol float64) int {
	integer := -1
	for i, v := range m.Vars {
		if v.Kind == milp.Continuous {
			continue
		}
		if math.Abs(values[i]-math.Round(values[i])) <= tol {
			continue
		}
		if v.Kind == milp.Binary {
			return i
		}
		if integer < 0 {
			integer = i
		}
	}
	return integer
}

func clone(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}

var _ solver.Solver = (*BranchBound)(nil)
