// Package registry stores published flows and run traces. The in-memory
// backend serves tests and single-process usage; the MongoDB backend is the
// durable store behind the local registry server.
//
// Flows are addressed by server-assigned UUID. Traces are addressed by run
// id; publishing a trace without one assigns the next id in sequence.
package registry
