// Package orchestrator wires sessions to renderers, themes and the document
// exporter, providing dependency injection friendly helpers for consumers that
// prefer a single entry point.
package orchestrator
