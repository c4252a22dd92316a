package formulation

import (
	"fmt"
	"math"

	"github.com/kilianp07/rcpsp/core/milp"
	"github.com/kilianp07/rcpsp/core/model"
)

// ExtractSchedule maps solver values back to task starts. Values are
// indexed by milp.VarID. Integer starts are rounded to absorb solver
// tolerance.
func ExtractSchedule(inst *model.Instance, m *milp.Model, values []float64) (model.Schedule, error) {
	if len(values) < len(m.Vars) {
		return model.Schedule{}, fmt.Errorf("got %d values for %d variables", len(values), len(m.Vars))
	}
	sched := model.Schedule{Starts: make([]model.StartTime, 0, len(inst.Tasks))}
	for _, t := range inst.Tasks {
		id, ok := m.Lookup(StartVar(t.ID))
		if !ok {
			return model.Schedule{}, fmt.Errorf("model has no start variable for task %d", t.ID)
		}
		v := values[id]
		if m.Vars[id].Kind != milp.Continuous {
			v = math.Round(v)
		}
		sched.Starts = append(sched.Starts, model.StartTime{TaskID: t.ID, Start: v})
	}
	if id, ok := m.Lookup(MakespanVar); ok {
		sched.Makespan = values[id]
	}
	// The makespan row may be disabled; fall back to the latest finish.
	for _, st := range sched.Starts {
		t, _ := inst.Task(st.TaskID)
		if end := st.Start + float64(t.Duration); end > sched.Makespan {
			sched.Makespan = end
		}
	}
	return sched, nil
}
