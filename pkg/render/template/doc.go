// Package template defines the renderer-agnostic template contract shared by
// the document exporter and the HTML page renderer.
package template
