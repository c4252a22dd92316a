package formulation

import (
	"fmt"

	"github.com/kilianp07/rcpsp/core/milp"
)

// disjunctive orders every pair of tasks whose joint usage of a resource
// exceeds its capacity. For i < j the binary y selects the order:
//
//	start_j - start_i - M·y >= d_i - M   (y = 1: i before j)
//	start_i - start_j + M·y >= d_j       (y = 0: j before i)
//
// The pair scan is quadratic in the number of consumers per resource.
func (g *generator) disjunctive() error {
	bigM := g.bigM
	for r := 0; r < g.inst.NResources; r++ {
		capacity := g.inst.Capacity(r)
		tasks := g.consumers(r)
		for a := 0; a < len(tasks); a++ {
			ti := tasks[a]
			for b := a + 1; b < len(tasks); b++ {
				tj := tasks[b]
				if ti.Usage(r)+tj.Usage(r) <= capacity {
					continue
				}
				y, err := g.binary(orderVar(ti.ID, tj.ID, r))
				if err != nil {
					return err
				}
				si, sj := g.starts[ti.ID], g.starts[tj.ID]
				base := fmt.Sprintf("order_%d_%d_r%d", ti.ID, tj.ID, r)
				if err := g.atLeast(base+"_a", ClassDisjunctive, float64(ti.Duration)-bigM,
					milp.Term{Var: sj, Coef: 1},
					milp.Term{Var: si, Coef: -1},
					milp.Term{Var: y, Coef: -bigM},
				); err != nil {
					return err
				}
				if err := g.atLeast(base+"_b", ClassDisjunctive, float64(tj.Duration),
					milp.Term{Var: si, Coef: 1},
					milp.Term{Var: sj, Coef: -1},
					milp.Term{Var: y, Coef: bigM},
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
