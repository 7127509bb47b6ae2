// Package circuit implements the per-dependency failure gate used
// throughout the resilience fabric: a three-state breaker (closed, open,
// half-open) with sliding call counters, and a process-wide Registry that
// looks breakers up by dependency name.
//
// A breaker denies calls fast once its dependency looks broken, then
// probes cautiously once the recovery timeout elapses. State transitions
// can be read through Status(), and Config.OnStateChange, when set, is
// called on every transition; circuitmonitor builds events and alerts on
// top of Status().
package circuit
