// Package metrics defines the records a simulation run emits and the sink
// interfaces that consume them. Every dispatched hour produces a StepRecord;
// sinks that also implement SummaryRecorder receive the run Summary once
// the lifetime model has been closed. Sinks are built from configuration
// through a registry; infra/metrics registers the Prometheus, InfluxDB,
// MQTT, JSON lines and CSV implementations.
package metrics
