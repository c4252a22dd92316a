// Package cpm runs the critical path method over the precedence graph of an
// instance, ignoring resources. It detects cycles and yields the
// resource-free lower bound on the makespan.
package cpm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kilianp07/rcpsp/core/model"
)

// ErrCycle is returned when the precedence relation is not a DAG.
var ErrCycle = errors.New("precedence graph has a cycle")

// TaskTimes holds the CPM values of one task.
type TaskTimes struct {
	TaskID int `json:"task_id"`
	ES     int `json:"es"` // earliest start
	EF     int `json:"ef"` // earliest finish
	LS     int `json:"ls"` // latest start
	LF     int `json:"lf"` // latest finish
	Slack  int `json:"slack"`
}

// Critical reports whether the task has no slack.
func (t TaskTimes) Critical() bool { return t.Slack == 0 }

// Result is the outcome of Analyze.
type Result struct {
	Order        []int             // topological order of task ids
	Times        map[int]TaskTimes // by task id
	LowerBound   int               // longest path length
	CriticalPath []int             // zero-slack tasks in topological order
}

// Analyze performs the forward and backward passes.
func Analyze(inst *model.Instance) (*Result, error) {
	order, err := TopoSort(inst)
	if err != nil {
		return nil, err
	}
	res := &Result{Order: order, Times: make(map[int]TaskTimes, len(order))}

	for _, id := range order {
		t, _ := inst.Task(id)
		es := 0
		for _, p := range t.Predecessors {
			if ef := res.Times[p].EF; ef > es {
				es = ef
			}
		}
		res.Times[id] = TaskTimes{TaskID: id, ES: es, EF: es + t.Duration}
		if es+t.Duration > res.LowerBound {
			res.LowerBound = es + t.Duration
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		t, _ := inst.Task(id)
		lf := res.LowerBound
		for _, s := range t.Successors {
			if ls := res.Times[s].LS; ls < lf {
				lf = ls
			}
		}
		tt := res.Times[id]
		tt.LF = lf
		tt.LS = lf - t.Duration
		tt.Slack = tt.LS - tt.ES
		res.Times[id] = tt
	}

	for _, id := range order {
		if res.Times[id].Critical() {
			res.CriticalPath = append(res.CriticalPath, id)
		}
	}
	return res, nil
}

// TopoSort orders task ids with Kahn's algorithm, smallest id first among
// ready tasks.
func TopoSort(inst *model.Instance) ([]int, error) {
	inDegree := make(map[int]int, len(inst.Tasks))
	for _, t := range inst.Tasks {
		for _, s := range t.Successors {
			inDegree[s]++
		}
	}
	var queue []int
	for _, t := range inst.Tasks {
		if inDegree[t.ID] == 0 {
			queue = append(queue, t.ID)
		}
	}
	order := make([]int, 0, len(inst.Tasks))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		t, _ := inst.Task(id)
		var ready []int
		for _, s := range t.Successors {
			inDegree[s]--
			if inDegree[s] == 0 {
				ready = append(ready, s)
			}
		}
		sort.Ints(ready)
		queue = append(queue, ready...)
	}
	if len(order) != len(inst.Tasks) {
		return nil, fmt.Errorf("%w: %d of %d tasks sorted", ErrCycle, len(order), len(inst.Tasks))
	}
	return order, nil
}
