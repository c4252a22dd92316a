// Package runlog keeps a history of solver runs. Each run appends one
// Record; Query filters them back for the runs command and for reporting.
package runlog

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/rcpsp/core/model"
)

// Record captures one parse, generate and solve cycle.
type Record struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Instance    string            `json:"instance"`
	Path        string            `json:"path,omitempty"`
	Jobs        int               `json:"jobs"`
	Resources   int               `json:"resources"`
	Variables   int               `json:"variables"`
	Constraints int               `json:"constraints"`
	ByClass     map[string]int    `json:"by_class,omitempty"`
	BigM        float64           `json:"big_m"`
	Solver      string            `json:"solver,omitempty"`
	Status      string            `json:"status"`
	Objective   float64           `json:"objective"`
	Makespan    float64           `json:"makespan"`
	LowerBound  float64           `json:"lower_bound"`
	Nodes       int               `json:"nodes"`
	ElapsedMS   float64           `json:"elapsed_ms"`
	Starts      []model.StartTime `json:"starts,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// NewID returns a fresh run identifier.
func NewID() string { return uuid.NewString() }

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start    time.Time
	End      time.Time
	Instance string
	Status   string
	Limit    int // keep only the most recent Limit records
}

// Match reports whether r passes every filter of q except Limit.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Instance != "" && r.Instance != q.Instance {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// finish orders records by time and applies the limit.
func finish(recs []Record, limit int) []Record {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Timestamp.Before(recs[j].Timestamp) })
	if limit > 0 && len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	return recs
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
