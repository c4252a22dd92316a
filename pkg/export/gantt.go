package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/rcpsp/core/model"
)

// GanttHTML renders the schedule as a horizontal stacked bar chart. Each
// task is an invisible offset bar of length start followed by a bar of
// length duration. Dummy tasks are omitted.
func GanttHTML(w io.Writer, inst *model.Instance, s model.Schedule) error {
	var (
		labels  []string
		offsets []opts.BarData
		spans   []opts.BarData
	)
	for _, st := range s.BestOrder() {
		t, ok := inst.Task(st.TaskID)
		if !ok || t.Dummy() {
			continue
		}
		labels = append(labels, fmt.Sprintf("task %d", t.ID))
		offsets = append(offsets, opts.BarData{Value: st.Start})
		spans = append(spans, opts.BarData{Value: t.Duration, Name: fmt.Sprintf("task %d", t.ID)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    inst.Name,
			Subtitle: fmt.Sprintf("makespan %g", s.Makespan),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Task"}),
	)
	bar.SetXAxis(labels).
		AddSeries("start", offsets,
			charts.WithBarChartOpts(opts.BarChart{Stack: "gantt"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "transparent"}),
		).
		AddSeries("duration", spans,
			charts.WithBarChartOpts(opts.BarChart{Stack: "gantt"}),
		)
	bar.XYReversal()
	return bar.Render(w)
}
