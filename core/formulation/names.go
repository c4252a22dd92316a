package formulation

import "fmt"

// Constraint classes attached to the generated rows.
const (
	ClassPrecedence   = "precedence"
	ClassMakespan     = "makespan"
	ClassDisjunctive  = "disjunctive"
	ClassUnavailable  = "unavailability"
	ClassActiveLink   = "time_link"
	ClassTimeCapacity = "time_capacity"
	ClassActiveCover  = "time_cover"
)

// MakespanVar names the objective-bearing variable.
const MakespanVar = "makespan"

// StartVar names the start variable of a task.
func StartVar(id int) string { return fmt.Sprintf("start_%d", id) }

func orderVar(i, j, r int) string { return fmt.Sprintf("order_%d_%d_r%d", i, j, r) }

func sideVar(id, r int, w Window) string {
	return fmt.Sprintf("side_%d_r%d_%d_%d", id, r, w.From, w.To)
}

func activeVar(k activeKey) string { return fmt.Sprintf("active_%d_t%d", k.task, k.time) }

func doneVar(k activeKey) string { return fmt.Sprintf("done_%d_t%d", k.task, k.time) }

func pendingVar(k activeKey) string { return fmt.Sprintf("pending_%d_t%d", k.task, k.time) }

// activeKey identifies the time-indexed indicator of a task at a time
// point. Linking rows and capacity rows must use the same key.
type activeKey struct {
	task int
	time int
}
