package solver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rcpsp/core/formulation"
	"github.com/kilianp07/rcpsp/core/milp"
	"github.com/kilianp07/rcpsp/core/model"
	"github.com/kilianp07/rcpsp/core/solver"
)

func instance(t *testing.T, capacity int, tasks ...model.Task) *model.Instance {
	t.Helper()
	inst := model.NewInstance("test", tasks, []model.Resource{{Capacity: capacity}})
	inst.LinkPredecessors()
	require.NoError(t, inst.Validate())
	return inst
}

func value(t *testing.T, m *milp.Model, res solver.Result, name string) float64 {
	t.Helper()
	v, ok := res.Value(m, name)
	require.True(t, ok, "missing %s", name)
	return v
}

func TestSolveChain(t *testing.T) {
	inst := instance(t, 10,
		model.Task{ID: 1, Duration: 0, Resources: []int{0}},
		model.Task{ID: 2, Duration: 5, Successors: []int{3}, Resources: []int{0}},
		model.Task{ID: 3, Duration: 0, Resources: []int{0}},
	)
	m, err := formulation.Generate(inst, formulation.DefaultConfig())
	require.NoError(t, err)

	res, err := NewBranchBound(nil).Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, solver.StatusOptimal, res.Status)
	assert.InDelta(t, 5, value(t, m, res, formulation.StartVar(3)), 1e-6)
	assert.InDelta(t, 5, value(t, m, res, formulation.MakespanVar), 1e-6)
	assert.InDelta(t, 0, value(t, m, res, formulation.StartVar(2)), 1e-6)
}

func TestSolveDisjunctivePairDoesNotOverlap(t *testing.T) {
	inst := instance(t, 10,
		model.Task{ID: 1, Duration: 3, Resources: []int{6}},
		model.Task{ID: 2, Duration: 4, Resources: []int{6}},
	)
	m, err := formulation.Generate(inst, formulation.DefaultConfig())
	require.NoError(t, err)

	res, err := NewBranchBound(nil).Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, solver.StatusOptimal, res.Status)

	s1 := value(t, m, res, formulation.StartVar(1))
	s2 := value(t, m, res, formulation.StartVar(2))
	assert.True(t, s1+3 <= s2+1e-6 || s2+4 <= s1+1e-6, "tasks overlap: s1=%g s2=%g", s1, s2)
	assert.InDelta(t, 7, value(t, m, res, formulation.MakespanVar), 1e-6)

	for _, c := range m.Constraints {
		assert.True(t, c.Satisfied(res.Values, 1e-6), "violated %s", c.Name)
	}
}

func TestSolveIntegerInfeasible(t *testing.T) {
	m := milp.New("parity")
	x, err := m.AddVar(milp.Variable{Name: "x", Kind: milp.Integer, Upper: 10, Obj: 1})
	require.NoError(t, err)
	require.NoError(t, m.AddConstraint(milp.Constraint{
		Name: "odd", Terms: []milp.Term{{Var: x, Coef: 2}}, Lower: 1, Upper: 1,
	}))

	res, err := NewBranchBound(nil).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, res.Status)
	assert.Nil(t, res.Values)
}

func TestSolveBoundInfeasible(t *testing.T) {
	m := milp.New("bounds")
	x, err := m.AddVar(milp.Variable{Name: "x", Kind: milp.Integer, Upper: 5})
	require.NoError(t, err)
	require.NoError(t, m.AddConstraint(milp.Constraint{
		Name: "high", Terms: []milp.Term{{Var: x, Coef: 1}}, Lower: 7, Upper: milp.Inf,
	}))

	res, err := NewBranchBound(nil).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, res.Status)
}

func TestSolveMaximize(t *testing.T) {
	m := milp.New("max")
	m.Sense = milp.Maximize
	x, _ := m.AddVar(milp.Variable{Name: "x", Kind: milp.Integer, Upper: 2, Obj: 1})
	y, _ := m.AddVar(milp.Variable{Name: "y", Kind: milp.Integer, Upper: 2, Obj: 1})
	require.NoError(t, m.AddConstraint(milp.Constraint{
		Name: "sum", Terms: []milp.Term{{Var: x, Coef: 1}, {Var: y, Coef: 1}}, Lower: -milp.Inf, Upper: 3.5,
	}))

	res, err := NewBranchBound(nil).Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, solver.StatusOptimal, res.Status)
	assert.InDelta(t, 3, res.Objective, 1e-6)
	for _, v := range res.Values {
		assert.InDelta(t, math.Round(v), v, 1e-9)
	}
}

func TestSolveNodeLimit(t *testing.T) {
	inst := instance(t, 10,
		model.Task{ID: 1, Duration: 3, Resources: []int{6}},
		model.Task{ID: 2, Duration: 4, Resources: []int{6}},
	)
	m, err := formulation.Generate(inst, formulation.DefaultConfig())
	require.NoError(t, err)

	bb := NewBranchBound(nil)
	bb.NodeLimit = 1
	res, err := bb.Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusLimit, res.Status)
	assert.Equal(t, 1, res.Nodes)
}

func TestSolveCancelled(t *testing.T) {
	m := milp.New("empty")
	_, _ = m.AddVar(milp.Variable{Name: "x", Kind: milp.Integer, Upper: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBranchBound(nil).Solve(ctx, m)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSolveNilModel(t *testing.T) {
	_, err := NewBranchBound(nil).Solve(context.Background(), nil)
	assert.ErrorIs(t, err, solver.ErrNoModel)
}
