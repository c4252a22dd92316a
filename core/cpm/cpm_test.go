package cpm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rcpsp/core/model"
	"github.com/kilianp07/rcpsp/core/psplib"
)

func TestAnalyzeSmall(t *testing.T) {
	inst, err := psplib.ParseFile(filepath.Join("..", "psplib", "testdata", "small.sm"))
	require.NoError(t, err)

	res, err := Analyze(inst)
	require.NoError(t, err)

	// 1 -> {2,3,4}; 2,3 -> 5; 4,5 -> 6. Longest path 1-2-5-6 = 3 + 1.
	assert.Equal(t, 4, res.LowerBound)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, res.Order)
	assert.Equal(t, TaskTimes{TaskID: 5, ES: 3, EF: 4, LS: 3, LF: 4, Slack: 0}, res.Times[5])
	assert.Equal(t, 1, res.Times[3].Slack)
	assert.Equal(t, 0, res.Times[4].Slack)
	assert.Equal(t, []int{1, 2, 4, 5, 6}, res.CriticalPath)
}

func TestTopoSortDetectsCycle(t *testing.T) {
	inst := model.NewInstance("cycle", []model.Task{
		{ID: 1, Duration: 1, Successors: []int{2}},
		{ID: 2, Duration: 1, Successors: []int{3}},
		{ID: 3, Duration: 1, Successors: []int{2}},
	}, nil)
	inst.LinkPredecessors()

	_, err := TopoSort(inst)
	assert.ErrorIs(t, err, ErrCycle)
	_, err = Analyze(inst)
	assert.ErrorIs(t, err, ErrCycle)
}
