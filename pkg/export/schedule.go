// Package export renders solved schedules and generated models for people
// and for external tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/rcpsp/core/model"
)

// Report is the JSON document written for a solved instance.
type Report struct {
	RunID      string            `json:"run_id,omitempty"`
	Instance   string            `json:"instance"`
	Status     string            `json:"status"`
	Makespan   float64           `json:"makespan"`
	LowerBound float64           `json:"lower_bound"`
	Order      []int             `json:"order"`
	Starts     []model.StartTime `json:"starts"`
}

// NewReport builds a report with the tasks listed in best order.
func NewReport(runID, instance, status string, s model.Schedule, bound float64) Report {
	order := s.BestOrder()
	ids := make([]int, len(order))
	for i, st := range order {
		ids[i] = st.TaskID
	}
	return Report{
		RunID:      runID,
		Instance:   instance,
		Status:     status,
		Makespan:   s.Makespan,
		LowerBound: bound,
		Order:      ids,
		Starts:     s.Starts,
	}
}

// WriteJSON writes the report to w in indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes one row per task in best order.
func WriteCSV(w io.Writer, inst *model.Instance, s model.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"task_id", "start", "finish"}); err != nil {
		return err
	}
	for _, st := range s.BestOrder() {
		finish := st.Start
		if t, ok := inst.Task(st.TaskID); ok {
			finish += float64(t.Duration)
		}
		rec := []string{
			strconv.Itoa(st.TaskID),
			strconv.FormatFloat(st.Start, 'f', -1, 64),
			strconv.FormatFloat(finish, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOrder prints the best order as "task@start" pairs followed by the makespan.
func WriteOrder(w io.Writer, s model.Schedule) error {
	order := s.BestOrder()
	parts := make([]string, len(order))
	for i, st := range order {
		parts[i] = fmt.Sprintf("%d@%s", st.TaskID, strconv.FormatFloat(st.Start, 'f', -1, 64))
	}
	_, err := fmt.Fprintf(w, "best order: %s\nmakespan: %s\n",
		strings.Join(parts, " "), strconv.FormatFloat(s.Makespan, 'f', -1, 64))
	return err
}
