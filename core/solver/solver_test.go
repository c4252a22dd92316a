package solver

import (
	"context"
	"testing"

	"github.com/kilianp07/rcpsp/core/milp"
)

func TestResultValue(t *testing.T) {
	m := milp.New("v")
	if _, err := m.AddVar(milp.Variable{Name: "a", Upper: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	var s Solver = Func(func(context.Context, *milp.Model) (Result, error) {
		return Result{Status: StatusOptimal, Values: []float64{0.5}}, nil
	})
	res, err := s.Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if v, ok := res.Value(m, "a"); !ok || v != 0.5 {
		t.Fatalf("expected 0.5 got %v %v", v, ok)
	}
	if _, ok := res.Value(m, "b"); ok {
		t.Fatalf("unknown variable resolved")
	}
}

func TestStatus(t *testing.T) {
	if !StatusFeasible.HasSolution() || StatusInfeasible.HasSolution() || StatusLimit.HasSolution() {
		t.Fatalf("unexpected HasSolution")
	}
	if StatusInfeasible.String() != "infeasible" {
		t.Fatalf("bad string %s", StatusInfeasible)
	}
}
