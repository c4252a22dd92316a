// Package app wires the parser, the constraint generator, a solver and the
// reporting sinks into a single pipeline run per instance file.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kilianp07/rcpsp/config"
	"github.com/kilianp07/rcpsp/core/cpm"
	"github.com/kilianp07/rcpsp/core/formulation"
	coremetrics "github.com/kilianp07/rcpsp/core/metrics"
	"github.com/kilianp07/rcpsp/core/milp"
	"github.com/kilianp07/rcpsp/core/model"
	"github.com/kilianp07/rcpsp/core/psplib"
	"github.com/kilianp07/rcpsp/core/runlog"
	"github.com/kilianp07/rcpsp/core/solver"
	"github.com/kilianp07/rcpsp/infra/logger"
	_ "github.com/kilianp07/rcpsp/infra/metrics"
	infrasolver "github.com/kilianp07/rcpsp/infra/solver"
	"github.com/kilianp07/rcpsp/pkg/export"
)

// SolverName labels runs solved by the built-in branch and bound.
const SolverName = "branch_bound"

// Planner runs parse, generate, solve and report for one instance at a time.
type Planner struct {
	Parser     psplib.Parser
	Generator  formulation.Config
	Solver     solver.Solver
	SolverName string
	Sink       coremetrics.MetricsSink
	Store      runlog.Store
	Output     config.OutputConfig

	log logger.Logger
	now func() time.Time
}

// Outcome is the result of one Run. Schedule is zero when Result carries
// no solution.
type Outcome struct {
	RunID    string
	Instance *model.Instance
	Model    *milp.Model
	Result   solver.Result
	Schedule model.Schedule
	Bound    int
	Files    []string
}

// Feasible reports whether a schedule was found.
func (o Outcome) Feasible() bool { return o.Result.Status.HasSolution() }

// New creates a Planner from the configuration.
func New(cfg *config.Config) (*Planner, error) {
	log := logger.New("planner")
	gen, err := cfg.Generator.Build()
	if err != nil {
		return nil, fmt.Errorf("generator config: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := runlog.NewStore(cfg.History.Module())
	if err != nil {
		return nil, fmt.Errorf("run history: %w", err)
	}
	bb := infrasolver.NewBranchBound(logger.New("branch-bound"))
	bb.NodeLimit = cfg.Solver.NodeLimit
	bb.TimeLimit = cfg.Solver.TimeLimit()
	bb.IntTolerance = cfg.Solver.Tolerance

	return &Planner{
		Generator:  gen,
		Solver:     bb,
		SolverName: SolverName,
		Sink:       sink,
		Store:      store,
		Output:     cfg.Output,
		log:        log,
	}, nil
}

func (p *Planner) lg() logger.Logger {
	if p.log == nil {
		return logger.NopLogger{}
	}
	return p.log
}

func (p *Planner) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

func (p *Planner) sink() coremetrics.MetricsSink {
	if p.Sink == nil {
		return coremetrics.NopSink{}
	}
	return p.Sink
}

// Load parses the instance at path and reports dropped successor arcs.
func (p *Planner) Load(path string) (*model.Instance, error) {
	start := p.clock()
	inst, err := p.Parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	for _, a := range inst.DroppedSuccessors {
		p.lg().Warnf("%s: dropped successor %d of task %d: outside 1..%d", inst.Name, a.To, a.From, inst.NJobs)
	}
	if rec, ok := p.sink().(coremetrics.ParseRecorder); ok {
		ev := coremetrics.ParseEvent{
			Instance:          inst.Name,
			Jobs:              inst.NJobs,
			Resources:         inst.NResources,
			DroppedSuccessors: len(inst.DroppedSuccessors),
			Duration:          p.clock().Sub(start),
			Time:              start,
		}
		if err := rec.RecordParse(ev); err != nil {
			p.lg().Warnf("metrics: record parse: %v", err)
		}
	}
	return inst, nil
}

// Model parses the instance at path and generates its model.
func (p *Planner) Model(path string) (*model.Instance, *milp.Model, error) {
	inst, err := p.Load(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := p.generate(inst)
	if err != nil {
		return nil, nil, err
	}
	return inst, m, nil
}

func (p *Planner) generate(inst *model.Instance) (*milp.Model, error) {
	start := p.clock()
	m, err := formulation.Generate(inst, p.Generator)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", inst.Name, err)
	}
	stats := m.Stats()
	p.lg().Infow("model generated", map[string]any{
		"instance":    inst.Name,
		"variables":   stats.Variables,
		"constraints": stats.Constraints,
		"big_m":       formulation.BigM(inst, p.Generator.BigMSlack),
	})
	ev := coremetrics.GenerationEvent{
		Instance:    inst.Name,
		Variables:   stats.Variables,
		Constraints: stats.Constraints,
		ByClass:     stats.ByClass,
		ByKind:      stats.ByKind,
		Duration:    p.clock().Sub(start),
		Time:        start,
	}
	if err := p.sink().RecordGeneration(ev); err != nil {
		p.lg().Warnf("metrics: record generation: %v", err)
	}
	return m, nil
}

// Run processes the instance at path. A model without solution is a
// normal outcome and is returned without error.
func (p *Planner) Run(ctx context.Context, path string) (Outcome, error) {
	if p.Solver == nil {
		return Outcome{}, errors.New("planner has no solver")
	}
	out := Outcome{RunID: runlog.NewID()}
	inst, err := p.Load(path)
	if err != nil {
		return out, err
	}
	out.Instance = inst

	if cp, err := cpm.Analyze(inst); err != nil {
		p.lg().Warnf("%s: critical path: %v", inst.Name, err)
	} else {
		out.Bound = cp.LowerBound
		p.lg().Debugw("critical path", map[string]any{"instance": inst.Name, "lower_bound": cp.LowerBound, "path": cp.CriticalPath})
	}

	if out.Model, err = p.generate(inst); err != nil {
		return out, err
	}

	started := p.clock()
	out.Result, err = p.Solver.Solve(ctx, out.Model)
	if err != nil {
		return out, fmt.Errorf("solve %s: %w", inst.Name, err)
	}
	if out.Feasible() {
		if out.Schedule, err = formulation.ExtractSchedule(inst, out.Model, out.Result.Values); err != nil {
			return out, err
		}
	} else {
		p.lg().Infof("%s: no feasible schedule (%s)", inst.Name, out.Result.Status)
	}
	p.report(ctx, path, started, out)

	if out.Files, err = p.write(out); err != nil {
		return out, err
	}
	return out, nil
}

func (p *Planner) report(ctx context.Context, path string, started time.Time, out Outcome) {
	name := p.SolverName
	if name == "" {
		name = SolverName
	}
	stats := out.Model.Stats()
	ev := coremetrics.SolveEvent{
		RunID:      out.RunID,
		Instance:   out.Instance.Name,
		Solver:     name,
		Status:     out.Result.Status.String(),
		Objective:  out.Result.Objective,
		Makespan:   out.Schedule.Makespan,
		LowerBound: float64(out.Bound),
		Nodes:      out.Result.Nodes,
		Duration:   out.Result.Elapsed,
		Time:       started,
	}
	if err := p.sink().RecordSolve(ev); err != nil {
		p.lg().Warnf("metrics: record solve: %v", err)
	}
	if p.Store == nil {
		return
	}
	rec := runlog.Record{
		ID:          out.RunID,
		Timestamp:   started,
		Instance:    out.Instance.Name,
		Path:        path,
		Jobs:        out.Instance.NJobs,
		Resources:   out.Instance.NResources,
		Variables:   stats.Variables,
		Constraints: stats.Constraints,
		ByClass:     stats.ByClass,
		BigM:        formulation.BigM(out.Instance, p.Generator.BigMSlack),
		Solver:      name,
		Status:      ev.Status,
		Objective:   out.Result.Objective,
		Makespan:    out.Schedule.Makespan,
		LowerBound:  float64(out.Bound),
		Nodes:       out.Result.Nodes,
		ElapsedMS:   float64(out.Result.Elapsed.Microseconds()) / 1000,
		Starts:      out.Schedule.Starts,
	}
	if err := p.Store.Append(ctx, rec); err != nil {
		p.lg().Warnf("run history: append: %v", err)
	}
}

// write renders the enabled output formats into Output.Dir.
//
//gocyclo:ignore
func (p *Planner) write(out Outcome) ([]string, error) {
	if p.Output.Dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(p.Output.Dir, 0o755); err != nil {
		return nil, err
	}
	base := filepath.Join(p.Output.Dir, out.Instance.Name)
	var files []string
	emit := func(path string, render func(f *os.File) error) error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	}

	if p.Output.Wants(config.FormatLP) {
		if err := emit(base+".lp", func(f *os.File) error { return export.WriteLP(f, out.Model) }); err != nil {
			return files, err
		}
	}
	if p.Output.Wants(config.FormatJSON) {
		report := export.NewReport(out.RunID, out.Instance.Name, out.Result.Status.String(), out.Schedule, float64(out.Bound))
		if err := emit(base+".json", func(f *os.File) error { return export.WriteJSON(f, report) }); err != nil {
			return files, err
		}
	}
	if !out.Feasible() {
		return files, nil
	}
	if p.Output.Wants(config.FormatCSV) {
		if err := emit(base+".csv", func(f *os.File) error { return export.WriteCSV(f, out.Instance, out.Schedule) }); err != nil {
			return files, err
		}
	}
	if p.Output.Wants(config.FormatOrder) {
		if err := emit(base+".order.txt", func(f *os.File) error { return export.WriteOrder(f, out.Schedule) }); err != nil {
			return files, err
		}
	}
	if p.Output.Wants(config.FormatHTML) {
		if err := emit(base+".html", func(f *os.File) error { return export.GanttHTML(f, out.Instance, out.Schedule) }); err != nil {
			return files, err
		}
	}
	return files, nil
}

// Close flushes buffered metrics and closes the run history.
func (p *Planner) Close() error {
	var errs []error
	if f, ok := p.Sink.(coremetrics.Flusher); ok {
		errs = append(errs, f.Flush())
	}
	if p.Store != nil {
		errs = append(errs, p.Store.Close())
	}
	return errors.Join(errs...)
}
