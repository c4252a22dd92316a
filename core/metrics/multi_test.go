package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	count   int
	flushed bool
	err     error
}

func (r *recordSink) RecordGeneration(GenerationEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordSolve(SolveEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordParse(ParseEvent) error {
	r.count++
	return nil
}

func (r *recordSink) Flush() error {
	r.flushed = true
	return r.err
}

// TestMultiSink ensures events are forwarded to all sinks.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2, NopSink{})
	if err := m.RecordGeneration(GenerationEvent{}); err != nil {
		t.Fatalf("record generation: %v", err)
	}
	if err := m.RecordSolve(SolveEvent{}); err != nil {
		t.Fatalf("record solve: %v", err)
	}
	if err := m.RecordParse(ParseEvent{}); err != nil {
		t.Fatalf("record parse: %v", err)
	}
	if s1.count != 3 || s2.count != 3 {
		t.Fatalf("events not forwarded: %d %d", s1.count, s2.count)
	}
}

func TestMultiSinkFlush(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	err := NewMultiSink(s1, s2).Flush()
	if !errors.Is(err, boom) {
		t.Fatalf("expected flush error, got %v", err)
	}
	if !s1.flushed || !s2.flushed {
		t.Fatal("flush not forwarded to every sink")
	}
}
