package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rcpsp/core/model"
)

func sample() (*model.Instance, model.Schedule) {
	inst := model.NewInstance("small", []model.Task{
		{ID: 1, Duration: 0, Successors: []int{2, 3}},
		{ID: 2, Duration: 3, Successors: []int{4}},
		{ID: 3, Duration: 2, Successors: []int{4}},
		{ID: 4, Duration: 0},
	}, []model.Resource{{Capacity: 4}})
	inst.LinkPredecessors()
	s := model.Schedule{
		Starts: []model.StartTime{
			{TaskID: 1, Start: 0},
			{TaskID: 2, Start: 2},
			{TaskID: 3, Start: 0},
			{TaskID: 4, Start: 5},
		},
		Makespan: 5,
	}
	return inst, s
}

func TestWriteCSV(t *testing.T) {
	inst, s := sample()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, inst, s))
	want := "task_id,start,finish\n1,0,0\n3,0,2\n2,2,5\n4,5,5\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteOrder(t *testing.T) {
	_, s := sample()
	var buf bytes.Buffer
	require.NoError(t, WriteOrder(&buf, s))
	assert.Equal(t, "best order: 1@0 3@0 2@2 4@5\nmakespan: 5\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	_, s := sample()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewReport("run-1", "small", "optimal", s, 3)))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []int{1, 3, 2, 4}, got.Order)
	assert.Equal(t, 5.0, got.Makespan)
	assert.Equal(t, 3.0, got.LowerBound)
	assert.Len(t, got.Starts, 4)
}

func TestGanttHTML(t *testing.T) {
	inst, s := sample()
	var buf bytes.Buffer
	require.NoError(t, GanttHTML(&buf, inst, s))
	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "task 2")
	assert.Contains(t, out, "task 3")
	assert.False(t, strings.Contains(out, "task 1\""), "dummy tasks are omitted")
}
