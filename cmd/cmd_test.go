package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallInstance = filepath.Join("..", "core", "psplib", "testdata", "small.sm")

const cyclicInstance = `************************************************************************
jobs (incl. supersource/sink ):  4
horizon                       :  10
************************************************************************
PRECEDENCE RELATIONS:
jobnr.    #modes  #successors   successors
   1        1          1           2
   2        1          1           3
   3        1          2           2   4
   4        1          0
************************************************************************
REQUESTS/DURATIONS:
jobnr. mode duration  R 1
------------------------------------------------------------------------
  1      1     0       0
  2      1     2       1
  3      1     3       1
  4      1     0       0
************************************************************************
RESOURCEAVAILABILITIES:
  R 1
    2
************************************************************************
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "history:\n  backend: jsonl\n  path: " + filepath.Join(dir, "runs.jsonl") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestSolveAndRuns(t *testing.T) {
	cfg := testConfig(t)
	outDir := t.TempDir()

	out, err := execute(t, "solve", "-c", cfg, "--out", outDir, "--format", "json,csv", smallInstance)
	require.NoError(t, err)
	assert.Contains(t, out, "small: optimal, makespan 6, critical path bound 4")
	assert.Contains(t, out, "best order: 1@0")
	assert.FileExists(t, filepath.Join(outDir, "small.json"))
	assert.FileExists(t, filepath.Join(outDir, "small.csv"))

	out, err = execute(t, "runs", "-c", cfg, "--instance", "small")
	require.NoError(t, err)
	assert.Contains(t, out, "INSTANCE")
	assert.Contains(t, out, "optimal")

	out, err = execute(t, "runs", "-c", cfg, "--status", "infeasible")
	require.NoError(t, err)
	assert.NotContains(t, out, "small")
}

func TestSolveInfeasibleExitsCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycle.sm")
	require.NoError(t, os.WriteFile(path, []byte(cyclicInstance), 0o644))

	out, err := execute(t, "solve", "-c", testConfig(t), path)
	require.NoError(t, err)
	assert.Contains(t, out, "cycle: no feasible schedule (infeasible)")
}

func TestSolveMissingFile(t *testing.T) {
	_, err := execute(t, "solve", "-c", testConfig(t), filepath.Join(t.TempDir(), "nope.sm"))
	assert.Error(t, err)
}

func TestSolveRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "solve", "-c", testConfig(t), "--format", "pdf", smallInstance)
	assert.ErrorContains(t, err, "unknown format")
}

func TestModelCommand(t *testing.T) {
	lp := filepath.Join(t.TempDir(), "small.lp")
	_, err := execute(t, "model", "-c", testConfig(t), "-o", lp, smallInstance)
	require.NoError(t, err)
	data, err := os.ReadFile(lp)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Subject To")
	assert.Contains(t, string(data), "prec_1_2")

	out, err := execute(t, "model", "-c", testConfig(t), smallInstance)
	require.NoError(t, err)
	assert.Contains(t, out, "Minimize")
}

func TestInspectCommand(t *testing.T) {
	out, err := execute(t, "inspect", "-c", testConfig(t), smallInstance)
	require.NoError(t, err)
	assert.Contains(t, out, "critical path bound")
	assert.Contains(t, out, "1 2 4 5 6")
	assert.Contains(t, out, "disjunctive")
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.sm", "a.sm", ".DS_Store"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	files, err := collectFiles([]string{dir, smallInstance})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.sm"), filepath.Join(dir, "b.sm"), smallInstance}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}
