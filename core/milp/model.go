// Package milp holds a solver-independent mixed-integer linear program:
// bounded variables with objective coefficients and linear rows with an
// optional lower and upper bound. It is the hand-off format between the
// formulation code and any solver adapter.
package milp

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Inf is used for absent bounds.
var Inf = math.Inf(1)

// VarKind is the domain of a variable.
type VarKind int

const (
	Continuous VarKind = iota
	Integer
	Binary
)

func (k VarKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("VarKind(%d)", int(k))
	}
}

// ParseVarKind converts a configuration string into a VarKind.
func ParseVarKind(s string) (VarKind, error) {
	switch s {
	case "continuous":
		return Continuous, nil
	case "integer", "":
		return Integer, nil
	case "binary":
		return Binary, nil
	default:
		return 0, fmt.Errorf("unknown variable kind %q", s)
	}
}

// Sense is the optimisation direction.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// VarID indexes Model.Vars.
type VarID int

// Variable is one decision variable.
type Variable struct {
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64 // Inf when unbounded
	Obj   float64
}

// Term is a coefficient applied to a variable.
type Term struct {
	Var  VarID
	Coef float64
}

// Constraint is Lower <= Σ Coef·Var <= Upper. One-sided rows use -Inf or
// Inf for the missing side.
type Constraint struct {
	Name  string
	Class string // family tag used for statistics
	Terms []Term
	Lower float64
	Upper float64
}

// Model is a MILP under construction or ready to be solved.
type Model struct {
	Name        string
	Sense       Sense
	Vars        []Variable
	Constraints []Constraint

	byName map[string]VarID
}

var (
	// ErrDuplicateVar is returned when a variable name is reused.
	ErrDuplicateVar = errors.New("duplicate variable name")
	// ErrUnknownVar is returned when a term references a missing variable.
	ErrUnknownVar = errors.New("unknown variable")
)

// New returns an empty minimisation model.
func New(name string) *Model {
	return &Model{Name: name, Sense: Minimize, byName: make(map[string]VarID)}
}

// AddVar declares a variable. Binary variables are clamped to [0, 1].
func (m *Model) AddVar(v Variable) (VarID, error) {
	if m.byName == nil {
		m.byName = make(map[string]VarID)
	}
	if _, ok := m.byName[v.Name]; ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateVar, v.Name)
	}
	if v.Kind == Binary {
		v.Lower, v.Upper = 0, 1
	}
	if v.Lower > v.Upper {
		return 0, fmt.Errorf("variable %s: lower bound %g above upper bound %g", v.Name, v.Lower, v.Upper)
	}
	id := VarID(len(m.Vars))
	m.Vars = append(m.Vars, v)
	m.byName[v.Name] = id
	return id, nil
}

// AddConstraint appends a row after checking its variable references.
func (m *Model) AddConstraint(c Constraint) error {
	for _, t := range c.Terms {
		if t.Var < 0 || int(t.Var) >= len(m.Vars) {
			return fmt.Errorf("%w: id %d in %s", ErrUnknownVar, t.Var, c.Name)
		}
	}
	if c.Lower > c.Upper {
		return fmt.Errorf("constraint %s: lower bound %g above upper bound %g", c.Name, c.Lower, c.Upper)
	}
	m.Constraints = append(m.Constraints, c)
	return nil
}

// Lookup returns the id of the named variable.
func (m *Model) Lookup(name string) (VarID, bool) {
	id, ok := m.byName[name]
	return id, ok
}

// Objective evaluates the objective for values indexed by VarID.
func (m *Model) Objective(values []float64) float64 {
	sum := 0.0
	for i, v := range m.Vars {
		if i < len(values) {
			sum += v.Obj * values[i]
		}
	}
	return sum
}

// Activity evaluates the left-hand side of c.
func (c Constraint) Activity(values []float64) float64 {
	sum := 0.0
	for _, t := range c.Terms {
		sum += t.Coef * values[t.Var]
	}
	return sum
}

// Satisfied reports whether values meet c within tol.
func (c Constraint) Satisfied(values []float64, tol float64) bool {
	a := c.Activity(values)
	return a >= c.Lower-tol && a <= c.Upper+tol
}

// Stats summarises a model.
type Stats struct {
	Variables   int            `json:"variables"`
	Constraints int            `json:"constraints"`
	ByKind      map[string]int `json:"by_kind"`
	ByClass     map[string]int `json:"by_class"`
}

// Stats counts variables per kind and constraints per class.
func (m *Model) Stats() Stats {
	s := Stats{
		Variables:   len(m.Vars),
		Constraints: len(m.Constraints),
		ByKind:      make(map[string]int),
		ByClass:     make(map[string]int),
	}
	for _, v := range m.Vars {
		s.ByKind[v.Kind.String()]++
	}
	for _, c := range m.Constraints {
		s.ByClass[c.Class]++
	}
	return s
}

// Classes returns the constraint classes present, sorted.
func (s Stats) Classes() []string {
	out := make([]string, 0, len(s.ByClass))
	for c := range s.ByClass {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
