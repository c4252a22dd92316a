package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/rcpsp/core/milp"
)

var (
	errNodeInfeasible = errors.New("node infeasible")
	errNodeUnbounded  = errors.New("node unbounded")
	errFreeVariable   = errors.New("variables without a finite lower bound are not supported")
)

// relaxation is the LP relaxation of a model, shifted so that every column
// starts at zero: x = lo + x'.
type relaxation struct {
	m       *milp.Model
	cols    []milp.VarID // variables that appear in at least one row
	colOf   []int        // VarID -> column, -1 when the variable is unused
	tol     float64
	sign    float64 // -1 for maximisation
	simplex func(c []float64, A mat.Matrix, b []float64, tol float64, initialBasic []int) (float64, []float64, error)
}

func newRelaxation(m *milp.Model, tol float64) (*relaxation, error) {
	used := make([]bool, len(m.Vars))
	for _, c := range m.Constraints {
		for _, t := range c.Terms {
			used[t.Var] = true
		}
	}
	r := &relaxation{m: m, colOf: make([]int, len(m.Vars)), tol: tol, sign: 1, simplex: lp.Simplex}
	if m.Sense == milp.Maximize {
		r.sign = -1
	}
	for i, v := range m.Vars {
		if math.IsInf(v.Lower, -1) {
			return nil, errFreeVariable
		}
		r.colOf[i] = -1
		if used[i] || !math.IsInf(v.Upper, 1) {
			r.colOf[i] = len(r.cols)
			r.cols = append(r.cols, milp.VarID(i))
		}
	}
	return r, nil
}

// solve returns the optimal values of the relaxation under bounds lo/hi.
//
//gocyclo:ignore
func (r *relaxation) solve(lo, hi []float64) ([]float64, error) {
	for i := range lo {
		if lo[i] > hi[i]+r.tol {
			return nil, errNodeInfeasible
		}
	}
	n := len(r.cols)
	var rows [][]float64
	var rhs []float64
	add := func(row []float64, b float64) {
		rows = append(rows, row)
		rhs = append(rhs, b)
	}

	for _, c := range r.m.Constraints {
		row := make([]float64, n)
		shift := 0.0
		for _, t := range c.Terms {
			row[r.colOf[t.Var]] += t.Coef
			shift += t.Coef * lo[t.Var]
		}
		empty := true
		for _, v := range row {
			if v != 0 {
				empty = false
				break
			}
		}
		if empty {
			if shift < c.Lower-r.tol || shift > c.Upper+r.tol {
				return nil, errNodeInfeasible
			}
			continue
		}
		if !math.IsInf(c.Upper, 1) {
			add(row, c.Upper-shift)
		}
		if !math.IsInf(c.Lower, -1) {
			neg := make([]float64, n)
			for j, v := range row {
				neg[j] = -v
			}
			add(neg, shift-c.Lower)
		}
	}
	for j, id := range r.cols {
		if math.IsInf(hi[id], 1) {
			continue
		}
		row := make([]float64, n)
		row[j] = 1
		add(row, hi[id]-lo[id])
	}

	values := make([]float64, len(r.m.Vars))
	copy(values, lo)
	for i, v := range r.m.Vars {
		if r.colOf[i] < 0 && r.sign*v.Obj < 0 {
			return nil, errNodeUnbounded
		}
	}

	// Columns without a single non-zero entry stay at their lower bound.
	var active []int
	for j, id := range r.cols {
		nonZero := false
		for _, row := range rows {
			if row[j] != 0 {
				nonZero = true
				break
			}
		}
		if nonZero {
			active = append(active, j)
			continue
		}
		if r.sign*r.m.Vars[id].Obj < 0 {
			return nil, errNodeUnbounded
		}
	}
	if len(rows) == 0 {
		return values, nil
	}

	// Standard form: [G | I] [x'; s] = h with x', s >= 0.
	m, k := len(rows), len(active)
	A := mat.NewDense(m, k+m, nil)
	feasibleSlack := true
	for i, row := range rows {
		for a, j := range active {
			if row[j] != 0 {
				A.Set(i, a, row[j])
			}
		}
		A.Set(i, k+i, 1)
		if rhs[i] < 0 {
			feasibleSlack = false
		}
	}
	c := make([]float64, k+m)
	for a, j := range active {
		c[a] = r.sign * r.m.Vars[r.cols[j]].Obj
	}
	var basic []int
	if feasibleSlack {
		basic = make([]int, m)
		for i := range basic {
			basic[i] = k + i
		}
	}

	_, x, err := r.simplex(c, A, rhs, r.tol, basic)
	if basic != nil && (errors.Is(err, lp.ErrSingular) || errors.Is(err, lp.ErrBland)) {
		_, x, err = r.simplex(c, A, rhs, r.tol, nil)
	}
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return nil, errNodeInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return nil, errNodeUnbounded
	case err != nil:
		return nil, err
	}
	for a, j := range active {
		id := r.cols[j]
		values[id] = lo[id] + x[a]
	}
	return values, nil
}
