// Package metrics defines the sinks that observe parse, generation and
// solve events. Sinks like PromSink and InfluxSink live in infra/metrics
// and register themselves with the factory; NewMetricsSink returns a
// MultiSink automatically when several sinks are configured.
package metrics
