package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rcpsp/core/milp"
)

func TestWriteLP(t *testing.T) {
	m := milp.New("demo")
	s1, _ := m.AddVar(milp.Variable{Name: "start_1", Kind: milp.Integer, Upper: milp.Inf, Obj: 0.0001})
	s2, _ := m.AddVar(milp.Variable{Name: "start_2", Kind: milp.Integer, Upper: 20, Obj: 0.0001})
	y, _ := m.AddVar(milp.Variable{Name: "order_1_2_r0", Kind: milp.Binary})
	mk, _ := m.AddVar(milp.Variable{Name: "makespan", Kind: milp.Continuous, Upper: milp.Inf, Obj: 1})
	require.NoError(t, m.AddConstraint(milp.Constraint{
		Name: "prec_1_2", Terms: []milp.Term{{Var: s2, Coef: 1}, {Var: s1, Coef: -1}}, Lower: 3, Upper: milp.Inf,
	}))
	require.NoError(t, m.AddConstraint(milp.Constraint{
		Name: "base", Terms: []milp.Term{{Var: s1, Coef: 1}, {Var: y, Coef: 1007}}, Lower: -milp.Inf, Upper: 1010,
	}))
	require.NoError(t, m.AddConstraint(milp.Constraint{
		Name: "fix", Terms: []milp.Term{{Var: mk, Coef: 2}}, Lower: 8, Upper: 8,
	}))
	require.NoError(t, m.AddConstraint(milp.Constraint{
		Name: "range", Terms: []milp.Term{{Var: mk, Coef: -1}}, Lower: -9, Upper: 4,
	}))

	var buf bytes.Buffer
	require.NoError(t, WriteLP(&buf, m))
	out := buf.String()

	for _, want := range []string{
		"\\ Problem: demo\n",
		"Minimize\n obj: 0.0001 start_1 + 0.0001 start_2 + makespan\n",
		" prec_1_2: start_2 - start_1 >= 3\n",
		" base: start_1 + 1007 order_1_2_r0 <= 1010\n",
		" fix: 2 makespan = 8\n",
		" range_lo: - makespan >= -9\n",
		" range_hi: - makespan <= 4\n",
		" start_1 >= 0\n",
		" 0 <= start_2 <= 20\n",
		"General\n start_1 start_2\n",
		"Binary\n order_1_2_r0\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "End\n"))
	assert.NotContains(t, out, "order_1_2_r0 >=", "binaries carry no explicit bounds")
}

func TestWriteLPWrapsLongRows(t *testing.T) {
	m := milp.New("wide")
	var terms []milp.Term
	for i := 0; i < 20; i++ {
		id, err := m.AddVar(milp.Variable{Name: strings.Repeat("x", 30) + string(rune('a'+i)), Kind: milp.Binary})
		require.NoError(t, err)
		terms = append(terms, milp.Term{Var: id, Coef: 1})
	}
	require.NoError(t, m.AddConstraint(milp.Constraint{Name: "cap", Terms: terms, Lower: -milp.Inf, Upper: 5}))

	var buf bytes.Buffer
	require.NoError(t, WriteLP(&buf, m))
	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len(line), 255)
	}
}
