package model

// Task is one schedulable activity of a project.
type Task struct {
	ID           int   // dense, 1-based identifier
	Duration     int   // 0 marks a dummy start/end task
	Successors   []int // tasks that may start once this one has finished
	Predecessors []int // transpose of Successors, rebuilt by the parser
	Resources    []int // per-period usage, indexed by resource
}

// Dummy reports whether the task is a zero-duration project marker.
func (t Task) Dummy() bool { return t.Duration == 0 }

// Usage returns the consumption of resource r while the task runs. Usage
// vectors shorter than the number of resources are padded with zeros.
func (t Task) Usage(r int) int {
	if r < 0 || r >= len(t.Resources) {
		return 0
	}
	return t.Resources[r]
}

// Uses reports whether the task consumes a non-zero amount of resource r.
func (t Task) Uses(r int) bool { return t.Usage(r) != 0 }

// Resource is a renewable resource type.
type Resource struct {
	Capacity int // maximum simultaneous consumption
}

// Arc is a precedence relation From -> To.
type Arc struct {
	From int `json:"from"`
	To   int `json:"to"`
}
