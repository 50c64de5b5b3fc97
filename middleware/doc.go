// Package middleware provides reactor middlewares for side effects:
// logging, a YAML journal, OpenTelemetry tracing, and channel publishing.
//
// Every middleware runs on the core's serialized context after the state
// changed, so each one sees events in the order they were applied.
package middleware
