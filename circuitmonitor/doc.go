// Package circuitmonitor watches a circuit.Registry over time: it derives
// state-change events, raises alerts on sustained low success rate, high
// rejection rate, or a trip to OPEN, and keeps a bounded rolling history of
// samples for aggregation.
//
// Monitor owns the polling loop and alert dispatch. MetricsCollector owns
// the time-windowed sample history used for aggregated reporting.
// CategorizeCircuits and BuildDashboard assemble the two into an
// operator-facing view.
package circuitmonitor
