package metrics

import "time"

// ParseEvent is emitted once an instance file has been read.
type ParseEvent struct {
	Instance          string
	Jobs              int
	Resources         int
	DroppedSuccessors int
	Duration          time.Duration
	Time              time.Time
}

// GenerationEvent describes a generated model.
type GenerationEvent struct {
	Instance    string
	Variables   int
	Constraints int
	ByClass     map[string]int
	ByKind      map[string]int
	Duration    time.Duration
	Time        time.Time
}

// SolveEvent describes the outcome of a solve.
type SolveEvent struct {
	RunID      string
	Instance   string
	Solver     string
	Status     string
	Objective  float64
	Makespan   float64
	LowerBound float64
	Nodes      int
	Duration   time.Duration
	Time       time.Time
}

// MetricsSink records generation and solve events.
type MetricsSink interface {
	RecordGeneration(ev GenerationEvent) error
	RecordSolve(ev SolveEvent) error
}

// ParseRecorder is implemented by sinks interested in parse events.
type ParseRecorder interface {
	RecordParse(ev ParseEvent) error
}

// Flusher is implemented by sinks that buffer output until the run ends.
type Flusher interface {
	Flush() error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordGeneration(GenerationEvent) error { return nil }
func (NopSink) RecordSolve(SolveEvent) error           { return nil }
func (NopSink) RecordParse(ParseEvent) error           { return nil }
