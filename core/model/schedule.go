package model

import "sort"

// StartTime pairs a task with its computed start.
type StartTime struct {
	TaskID int     `json:"task_id"`
	Start  float64 `json:"start"`
}

// Schedule is the solver outcome handed to presentation code.
type Schedule struct {
	Starts   []StartTime `json:"starts"` // one entry per task, by id
	Makespan float64     `json:"makespan"`
}

// BestOrder returns the starts sorted by start time, ties broken by id.
func (s Schedule) BestOrder() []StartTime {
	out := make([]StartTime, len(s.Starts))
	copy(out, s.Starts)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

// StartOf returns the start of the given task.
func (s Schedule) StartOf(id int) (float64, bool) {
	for _, st := range s.Starts {
		if st.TaskID == id {
			return st.Start, true
		}
	}
	return 0, false
}
