package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelBuild(t *testing.T) {
	m := New("demo")
	x, err := m.AddVar(Variable{Name: "x", Kind: Integer, Upper: Inf, Obj: 1})
	require.NoError(t, err)
	y, err := m.AddVar(Variable{Name: "y", Kind: Binary, Lower: -3, Upper: 7})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Vars[y].Lower)
	assert.Equal(t, 1.0, m.Vars[y].Upper)

	_, err = m.AddVar(Variable{Name: "x"})
	assert.ErrorIs(t, err, ErrDuplicateVar)

	require.NoError(t, m.AddConstraint(Constraint{
		Name: "c", Class: "demo",
		Terms: []Term{{x, 1}, {y, -4}},
		Lower: 2, Upper: Inf,
	}))
	err = m.AddConstraint(Constraint{Name: "bad", Terms: []Term{{VarID(9), 1}}, Lower: -Inf, Upper: 0})
	assert.ErrorIs(t, err, ErrUnknownVar)

	id, ok := m.Lookup("y")
	assert.True(t, ok)
	assert.Equal(t, y, id)

	vals := []float64{6, 1}
	assert.Equal(t, 6.0, m.Objective(vals))
	assert.Equal(t, 2.0, m.Constraints[0].Activity(vals))
	assert.True(t, m.Constraints[0].Satisfied(vals, 1e-9))
	assert.False(t, m.Constraints[0].Satisfied([]float64{1, 1}, 1e-9))

	s := m.Stats()
	assert.Equal(t, 2, s.Variables)
	assert.Equal(t, 1, s.Constraints)
	assert.Equal(t, map[string]int{"integer": 1, "binary": 1}, s.ByKind)
	assert.Equal(t, []string{"demo"}, s.Classes())
}

func TestParseVarKind(t *testing.T) {
	k, err := ParseVarKind("continuous")
	require.NoError(t, err)
	assert.Equal(t, Continuous, k)
	k, err = ParseVarKind("")
	require.NoError(t, err)
	assert.Equal(t, Integer, k)
	_, err = ParseVarKind("real")
	assert.Error(t, err)
}
