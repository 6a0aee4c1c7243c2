package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data renderers use without changing the
// page itself.
type RenderOptions struct {
	// Errors surfaces validation feedback keyed by field name. Form-level
	// messages live under the empty key.
	Errors map[string][]string
	// Hidden carries hidden inputs (csrf token, step guard) emitted inside
	// every posted form.
	Hidden map[string]string
	// Theme supplies tokens, CSS variables and asset URLs.
	Theme *theme.RendererConfig
	// Flash is a one-shot notice shown above the page content.
	Flash string
}
