package formulation

import (
	"fmt"

	"github.com/kilianp07/rcpsp/core/milp"
	"github.com/kilianp07/rcpsp/core/model"
)

// BigM returns the conditional-constraint constant for inst: the sum of all
// durations plus slack. No feasible schedule needs a horizon beyond it.
func BigM(inst *model.Instance, slack float64) float64 {
	return float64(inst.TotalDuration()) + slack
}

type generator struct {
	inst   *model.Instance
	cfg    Config
	m      *milp.Model
	bigM   float64
	starts map[int]milp.VarID
	span   milp.VarID
}

// Generate builds the MILP for inst. The instance is only read.
func Generate(inst *model.Instance, cfg Config) (*milp.Model, error) {
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("instance: %w", err)
	}
	if err := cfg.Validate(inst.NResources); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	name := inst.Name
	if name == "" {
		name = "rcpsp"
	}
	g := &generator{
		inst:   inst,
		cfg:    cfg,
		m:      milp.New(name),
		bigM:   BigM(inst, cfg.BigMSlack),
		starts: make(map[int]milp.VarID, len(inst.Tasks)),
	}
	if err := g.declare(); err != nil {
		return nil, err
	}
	passes := []struct {
		on  bool
		run func() error
	}{
		{cfg.Families.Precedence, g.precedence},
		{cfg.Families.Makespan, g.makespan},
		{cfg.Families.Disjunctive, g.disjunctive},
		{cfg.Families.Unavailability, g.unavailability},
		{cfg.Families.TimeIndexed, g.timeIndexed},
	}
	for _, p := range passes {
		if !p.on {
			continue
		}
		if err := p.run(); err != nil {
			return nil, err
		}
	}
	return g.m, nil
}

func (g *generator) declare() error {
	for _, t := range g.inst.Tasks {
		id, err := g.m.AddVar(milp.Variable{
			Name:  StartVar(t.ID),
			Kind:  g.cfg.StartKind,
			Lower: 0,
			Upper: milp.Inf,
			Obj:   g.cfg.StartCost,
		})
		if err != nil {
			return err
		}
		g.starts[t.ID] = id
	}
	span, err := g.m.AddVar(milp.Variable{
		Name:  MakespanVar,
		Kind:  milp.Continuous,
		Lower: 0,
		Upper: milp.Inf,
		Obj:   1,
	})
	if err != nil {
		return err
	}
	g.span = span
	return nil
}

func (g *generator) binary(name string) (milp.VarID, error) {
	return g.m.AddVar(milp.Variable{Name: name, Kind: milp.Binary, Upper: 1})
}

// atLeast adds Σ terms >= lo.
func (g *generator) atLeast(name, class string, lo float64, terms ...milp.Term) error {
	return g.m.AddConstraint(milp.Constraint{Name: name, Class: class, Terms: terms, Lower: lo, Upper: milp.Inf})
}

// atMost adds Σ terms <= hi.
func (g *generator) atMost(name, class string, hi float64, terms ...milp.Term) error {
	return g.m.AddConstraint(milp.Constraint{Name: name, Class: class, Terms: terms, Lower: -milp.Inf, Upper: hi})
}

// precedence: start[s] - start[t] >= duration[t] for every arc t -> s.
func (g *generator) precedence() error {
	for _, t := range g.inst.Tasks {
		for _, s := range t.Successors {
			err := g.atLeast(fmt.Sprintf("prec_%d_%d", t.ID, s), ClassPrecedence, float64(t.Duration),
				milp.Term{Var: g.starts[s], Coef: 1},
				milp.Term{Var: g.starts[t.ID], Coef: -1},
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// makespan: makespan - start[t] >= duration[t] for every task.
func (g *generator) makespan() error {
	for _, t := range g.inst.Tasks {
		err := g.atLeast(fmt.Sprintf("span_%d", t.ID), ClassMakespan, float64(t.Duration),
			milp.Term{Var: g.span, Coef: 1},
			milp.Term{Var: g.starts[t.ID], Coef: -1},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// consumers lists the non-dummy tasks using resource r, by ascending id.
func (g *generator) consumers(r int) []model.Task {
	var out []model.Task
	for _, t := range g.inst.Tasks {
		if !t.Dummy() && t.Uses(r) {
			out = append(out, t)
		}
	}
	return out
}
