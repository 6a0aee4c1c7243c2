package tui

import "github.com/goliatone/go-claimform/pkg/site"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional formatting hints the driver can apply when printing
// messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithContent sets the copy used for outcome messages during Run.
func WithContent(content site.Content) Option {
	return func(r *Renderer) {
		r.content = content
	}
}

// WithSignatureReader replaces the file reader used to load signature images.
func WithSignatureReader(read func(path string) ([]byte, error)) Option {
	return func(r *Renderer) {
		if read != nil {
			r.readFile = read
		}
	}
}

// WithArtifactWriter replaces how exported documents are stored.
func WithArtifactWriter(write func(name string, body []byte) (string, error)) Option {
	return func(r *Renderer) {
		if write != nil {
			r.writeArtifact = write
		}
	}
}

// WithExportFormat picks the document format produced at the end of Run.
func WithExportFormat(format string) Option {
	return func(r *Renderer) {
		r.exportFormat = format
	}
}
