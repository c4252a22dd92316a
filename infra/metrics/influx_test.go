package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/rcpsp/core/metrics"
)

func captureServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, strings.TrimSpace(string(data)))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), bodies...)
	}
}

func TestInfluxSink_RecordSolve(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	ev := coremetrics.SolveEvent{
		RunID:      "r1",
		Instance:   "j301_1",
		Solver:     "branch_bound",
		Status:     "optimal",
		Objective:  43.0123,
		Makespan:   43,
		LowerBound: 38,
		Nodes:      12,
		Duration:   2 * time.Second,
		Time:       now,
	}
	if err := sink.RecordSolve(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("rcpsp_solve").
		AddTag("instance", "j301_1").
		AddTag("solver", "branch_bound").
		AddTag("status", "optimal").
		AddTag("run_id", "r1").
		AddField("objective", 43.012).
		AddField("makespan", 43.0).
		AddField("lower_bound", 38.0).
		AddField("nodes", 12).
		AddField("duration_ms", 2000.0).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	got := bodies()
	if len(got) != 1 || got[0] != expected {
		t.Errorf("unexpected body: %#v", got)
	}
}

func TestInfluxSink_RecordGeneration(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	ev := coremetrics.GenerationEvent{
		Instance:    "small",
		Variables:   9,
		Constraints: 20,
		ByClass:     map[string]int{"precedence": 7, "makespan": 6},
		Time:        time.Now(),
	}
	if err := sink.RecordGeneration(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	got := bodies()
	if len(got) != 1 {
		t.Fatalf("expected one write, got %d", len(got))
	}
	for _, want := range []string{"rcpsp_generation,instance=small", "variables=9i", "class_makespan=6i", "class_precedence=7i"} {
		if !strings.Contains(got[0], want) {
			t.Errorf("body %q missing %q", got[0], want)
		}
	}
	if strings.Index(got[0], "class_makespan") > strings.Index(got[0], "class_precedence") {
		t.Errorf("class fields not sorted: %s", got[0])
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
