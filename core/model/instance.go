package model

import (
	"errors"
	"fmt"
	"slices"
)

// Instance is a single-mode RCPSP instance. It is built once by the parser
// and treated as read-only afterwards.
type Instance struct {
	Name       string
	NJobs      int
	NResources int
	// Horizon is the upper bound announced in the instance header, if any.
	// It is informational only.
	Horizon   int
	Tasks     []Task // ordered by ascending id
	Resources []Resource

	// DroppedSuccessors lists successor references that pointed outside
	// [1, NJobs] and were removed while parsing.
	DroppedSuccessors []Arc

	index map[int]int
}

// ErrEmptyInstance is returned by Validate when the instance has no tasks.
var ErrEmptyInstance = errors.New("instance has no tasks")

// NewInstance assembles an instance and derives the counts and the id
// lookup from the given collections.
func NewInstance(name string, tasks []Task, resources []Resource) *Instance {
	in := &Instance{
		Name:       name,
		NJobs:      len(tasks),
		NResources: len(resources),
		Tasks:      tasks,
		Resources:  resources,
	}
	in.index = make(map[int]int, len(tasks))
	for i, t := range tasks {
		in.index[t.ID] = i
	}
	return in
}

// Task returns the task with the given id. Instances built without
// NewInstance fall back to a linear scan.
func (in *Instance) Task(id int) (*Task, bool) {
	if in.index != nil {
		i, ok := in.index[id]
		if !ok || i >= len(in.Tasks) || in.Tasks[i].ID != id {
			return nil, false
		}
		return &in.Tasks[i], true
	}
	for i := range in.Tasks {
		if in.Tasks[i].ID == id {
			return &in.Tasks[i], true
		}
	}
	return nil, false
}

// TotalDuration sums the durations of all tasks.
func (in *Instance) TotalDuration() int {
	sum := 0
	for _, t := range in.Tasks {
		sum += t.Duration
	}
	return sum
}

// Capacity returns the capacity of resource r, or 0 when r is unknown.
func (in *Instance) Capacity(r int) int {
	if r < 0 || r >= len(in.Resources) {
		return 0
	}
	return in.Resources[r].Capacity
}

// Arcs returns every precedence arc in task order.
func (in *Instance) Arcs() []Arc {
	var arcs []Arc
	for _, t := range in.Tasks {
		for _, s := range t.Successors {
			arcs = append(arcs, Arc{From: t.ID, To: s})
		}
	}
	return arcs
}

// Validate checks the structural preconditions the generator relies on:
// ids are dense and 1-based in ascending order, the declared counts match
// the collections, successors stay in range and predecessors are their
// exact transpose. Acyclicity and the sign of durations, usages and
// capacities are not checked; see package cpm for cycle detection.
//
//gocyclo:ignore
func (in *Instance) Validate() error {
	if in == nil || len(in.Tasks) == 0 {
		return ErrEmptyInstance
	}
	if in.NJobs != len(in.Tasks) {
		return fmt.Errorf("n_jobs %d does not match %d tasks", in.NJobs, len(in.Tasks))
	}
	if in.NResources != len(in.Resources) {
		return fmt.Errorf("n_resources %d does not match %d resources", in.NResources, len(in.Resources))
	}
	preds := make(map[Arc]bool)
	for i, t := range in.Tasks {
		if t.ID != i+1 {
			return fmt.Errorf("task at position %d has id %d, ids must be dense and start at 1", i, t.ID)
		}
		for _, s := range t.Successors {
			if s < 1 || s > in.NJobs {
				return fmt.Errorf("task %d: successor %d out of range [1, %d]", t.ID, s, in.NJobs)
			}
		}
		for _, p := range t.Predecessors {
			preds[Arc{From: p, To: t.ID}] = true
		}
	}
	arcs := in.Arcs()
	for _, a := range arcs {
		if !preds[a] {
			return fmt.Errorf("task %d lists successor %d but is missing from its predecessors", a.From, a.To)
		}
	}
	for a := range preds {
		from, ok := in.Task(a.From)
		if !ok || !slices.Contains(from.Successors, a.To) {
			return fmt.Errorf("task %d lists predecessor %d without the matching successor", a.To, a.From)
		}
	}
	return nil
}

// LinkPredecessors rebuilds every predecessor list from the successor lists.
func (in *Instance) LinkPredecessors() {
	for i := range in.Tasks {
		in.Tasks[i].Predecessors = nil
	}
	for _, t := range in.Tasks {
		for _, s := range t.Successors {
			if succ, ok := in.Task(s); ok {
				succ.Predecessors = append(succ.Predecessors, t.ID)
			}
		}
	}
}
