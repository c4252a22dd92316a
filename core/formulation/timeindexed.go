package formulation

import (
	"fmt"
	"sort"

	"github.com/kilianp07/rcpsp/core/milp"
)

// timeIndexed enforces capacity snapshots. Each non-dummy task gets one
// indicator x per snapshot time of any resource it uses, shared across
// resources:
//
//	start + M·x <= t + M             (x = 1: started by t)
//	start - M·x >= t + 1 - d - M     (x = 1: still running at t)
//
// and every (resource, time) snapshot gets Σ usage·x <= capacity.
func (g *generator) timeIndexed() error {
	bigM := g.bigM
	resources := sortedKeys(g.cfg.TimeCapacity)
	active := make(map[activeKey]milp.VarID)

	for _, t := range g.inst.Tasks {
		if t.Dummy() {
			continue
		}
		times := make(map[int]struct{})
		for _, r := range resources {
			if !t.Uses(r) {
				continue
			}
			for at := range g.cfg.TimeCapacity[r] {
				times[at] = struct{}{}
			}
		}
		s := g.starts[t.ID]
		for _, at := range sortedKeys(times) {
			key := activeKey{task: t.ID, time: at}
			x, err := g.binary(activeVar(key))
			if err != nil {
				return err
			}
			active[key] = x
			base := fmt.Sprintf("active_%d_t%d", t.ID, at)
			if err := g.atMost(base+"_started", ClassActiveLink, float64(at)+bigM,
				milp.Term{Var: s, Coef: 1},
				milp.Term{Var: x, Coef: bigM},
			); err != nil {
				return err
			}
			if err := g.atLeast(base+"_running", ClassActiveLink, float64(at+1-t.Duration)-bigM,
				milp.Term{Var: s, Coef: 1},
				milp.Term{Var: x, Coef: -bigM},
			); err != nil {
				return err
			}
			if g.cfg.CoverActivity {
				if err := g.cover(key, s, x, t.Duration); err != nil {
					return err
				}
			}
		}
	}

	for _, r := range resources {
		snapshots := g.cfg.TimeCapacity[r]
		for _, at := range sortedKeys(snapshots) {
			var terms []milp.Term
			for _, t := range g.consumers(r) {
				x, ok := active[activeKey{task: t.ID, time: at}]
				if !ok {
					return fmt.Errorf("missing activity indicator for task %d at %d", t.ID, at)
				}
				terms = append(terms, milp.Term{Var: x, Coef: float64(t.Usage(r))})
			}
			if len(terms) == 0 {
				continue
			}
			sort.SliceStable(terms, func(i, j int) bool { return terms[i].Var < terms[j].Var })
			if err := g.atMost(fmt.Sprintf("cap_r%d_t%d", r, at), ClassTimeCapacity, float64(snapshots[at]), terms...); err != nil {
				return err
			}
		}
	}
	return nil
}

// cover makes x = 1 unless the task is finished by t (done) or starts
// after t (pending):
//
//	start + M·done <= t - d + M
//	start - M·pending >= t + 1 - M
//	x + done + pending >= 1
func (g *generator) cover(key activeKey, s, x milp.VarID, duration int) error {
	bigM := g.bigM
	done, err := g.binary(doneVar(key))
	if err != nil {
		return err
	}
	pending, err := g.binary(pendingVar(key))
	if err != nil {
		return err
	}
	base := fmt.Sprintf("cover_%d_t%d", key.task, key.time)
	if err := g.atMost(base+"_done", ClassActiveCover, float64(key.time-duration)+bigM,
		milp.Term{Var: s, Coef: 1},
		milp.Term{Var: done, Coef: bigM},
	); err != nil {
		return err
	}
	if err := g.atLeast(base+"_pending", ClassActiveCover, float64(key.time+1)-bigM,
		milp.Term{Var: s, Coef: 1},
		milp.Term{Var: pending, Coef: -bigM},
	); err != nil {
		return err
	}
	return g.atLeast(base+"_any", ClassActiveCover, 1,
		milp.Term{Var: x, Coef: 1},
		milp.Term{Var: done, Coef: 1},
		milp.Term{Var: pending, Coef: 1},
	)
}
