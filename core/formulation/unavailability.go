package formulation

import (
	"fmt"

	"github.com/kilianp07/rcpsp/core/milp"
)

// unavailability keeps every consumer of a blocked resource out of each
// window [L, U). The binary z picks the side:
//
//	start + M·z <= L - d + M   (z = 1: finish by L)
//	start + M·z >= U           (z = 0: start at or after U)
func (g *generator) unavailability() error {
	bigM := g.bigM
	resources := sortedKeys(g.cfg.Unavailability)
	for _, t := range g.inst.Tasks {
		if t.Dummy() {
			continue
		}
		s := g.starts[t.ID]
		for _, r := range resources {
			if !t.Uses(r) {
				continue
			}
			for _, w := range g.cfg.Unavailability[r] {
				z, err := g.binary(sideVar(t.ID, r, w))
				if err != nil {
					return err
				}
				base := fmt.Sprintf("window_%d_r%d_%d_%d", t.ID, r, w.From, w.To)
				if err := g.atMost(base+"_before", ClassUnavailable, float64(w.From-t.Duration)+bigM,
					milp.Term{Var: s, Coef: 1},
					milp.Term{Var: z, Coef: bigM},
				); err != nil {
					return err
				}
				if err := g.atLeast(base+"_after", ClassUnavailable, float64(w.To),
					milp.Term{Var: s, Coef: 1},
					milp.Term{Var: z, Coef: bigM},
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
