package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/rcpsp/core/metrics"
)

// PromSink records parse, generation and solve events as Prometheus metrics.
// A CLI run has no scrape endpoint, so Flush writes the registry to a
// node_exporter textfile when one is configured.
type PromSink struct {
	gatherer prometheus.Gatherer
	textfile string

	parsed      prometheus.Counter
	dropped     prometheus.Counter
	generated   prometheus.Counter
	constraints *prometheus.GaugeVec
	variables   *prometheus.GaugeVec
	genDuration prometheus.Histogram
	solves      *prometheus.CounterVec
	solveTime   *prometheus.HistogramVec
	makespan    *prometheus.GaugeVec
	lowerBound  *prometheus.GaugeVec
}

// NewPromSink registers the metrics on a fresh registry.
func NewPromSink(textfile string) (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.NewRegistry(), textfile)
}

// NewPromSinkWithRegistry registers metrics on the provided registry.
// A nil registry defaults to the global Prometheus registry.
func NewPromSinkWithRegistry(reg *prometheus.Registry, textfile string) (*PromSink, error) {
	var (
		registerer prometheus.Registerer = reg
		gatherer   prometheus.Gatherer   = reg
	)
	if reg == nil {
		registerer, gatherer = prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	}
	s := &PromSink{gatherer: gatherer, textfile: textfile}
	var err error
	if s.parsed, err = register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rcpsp_instances_parsed_total",
		Help: "Total number of instance files parsed",
	})); err != nil {
		return nil, err
	}
	if s.dropped, err = register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rcpsp_dropped_successors_total",
		Help: "Successor references dropped because they pointed outside the job range",
	})); err != nil {
		return nil, err
	}
	if s.generated, err = register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rcpsp_models_generated_total",
		Help: "Total number of MILP models generated",
	})); err != nil {
		return nil, err
	}
	if s.constraints, err = register(registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rcpsp_model_constraints",
		Help: "Constraints in the last generated model per family",
	}, []string{"class"})); err != nil {
		return nil, err
	}
	if s.variables, err = register(registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rcpsp_model_variables",
		Help: "Variables in the last generated model per kind",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if s.genDuration, err = register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rcpsp_generation_duration_seconds",
		Help:    "Time spent generating a model",
		Buckets: prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if s.solves, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rcpsp_solves_total",
		Help: "Total number of solves by outcome",
	}, []string{"solver", "status"})); err != nil {
		return nil, err
	}
	if s.solveTime, err = register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rcpsp_solve_duration_seconds",
		Help:    "Wall time of a solve",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"solver"})); err != nil {
		return nil, err
	}
	if s.makespan, err = register(registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rcpsp_makespan",
		Help: "Makespan of the last solution per instance",
	}, []string{"instance"})); err != nil {
		return nil, err
	}
	if s.lowerBound, err = register(registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rcpsp_critical_path_bound",
		Help: "Critical path lower bound per instance",
	}, []string{"instance"})); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when c is a duplicate.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordParse counts the parsed instance and its dropped successors.
func (s *PromSink) RecordParse(ev coremetrics.ParseEvent) error {
	s.parsed.Inc()
	s.dropped.Add(float64(ev.DroppedSuccessors))
	return nil
}

// RecordGeneration publishes the model size.
func (s *PromSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	s.generated.Inc()
	s.constraints.Reset()
	for class, n := range ev.ByClass {
		s.constraints.WithLabelValues(class).Set(float64(n))
	}
	s.variables.Reset()
	for kind, n := range ev.ByKind {
		s.variables.WithLabelValues(kind).Set(float64(n))
	}
	s.genDuration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordSolve counts the outcome and publishes the makespan.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solves.WithLabelValues(ev.Solver, ev.Status).Inc()
	s.solveTime.WithLabelValues(ev.Solver).Observe(ev.Duration.Seconds())
	s.lowerBound.WithLabelValues(ev.Instance).Set(ev.LowerBound)
	if ev.Makespan > 0 {
		s.makespan.WithLabelValues(ev.Instance).Set(ev.Makespan)
	}
	return nil
}

// Flush writes the gathered metrics to the textfile, if any.
func (s *PromSink) Flush() error {
	if s.textfile == "" {
		return nil
	}
	return prometheus.WriteToTextfile(s.textfile, s.gatherer)
}

var (
	_ coremetrics.MetricsSink   = (*PromSink)(nil)
	_ coremetrics.ParseRecorder = (*PromSink)(nil)
	_ coremetrics.Flusher       = (*PromSink)(nil)
)
