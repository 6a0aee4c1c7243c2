package orchestrator

import (
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-claimform/pkg/document"
	"github.com/goliatone/go-claimform/pkg/render"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/site"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithContent replaces the bundled site copy.
func WithContent(content site.Content) Option {
	return func(o *Orchestrator) {
		o.content = content
		o.contentSet = true
	}
}

// WithThemeSelector resolves theme/variant choices ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes = selector
	}
}

// WithTheme sets the theme and variant used when a request names none.
func WithTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithDocuments injects the document template renderer.
func WithDocuments(docs *document.Renderer) Option {
	return func(o *Orchestrator) {
		o.documents = docs
	}
}

// WithExporter overrides the exporter handed to every signing flow.
func WithExporter(exporter signing.Exporter) Option {
	return func(o *Orchestrator) {
		o.exporter = exporter
	}
}

// WithPDFConfig sets page geometry for the bundled PDF converter.
func WithPDFConfig(cfg document.PDFConfig) Option {
	return func(o *Orchestrator) {
		o.pdf = cfg
	}
}

// WithDefaultFormat picks the converter used when an export names none.
func WithDefaultFormat(format string) Option {
	return func(o *Orchestrator) {
		o.defaultFormat = format
	}
}

// WithCampaign names the campaign used in exported filenames.
func WithCampaign(name string) Option {
	return func(o *Orchestrator) {
		o.campaign = name
	}
}

// WithAcceptedJurisdiction configures the eligibility gate.
func WithAcceptedJurisdiction(code string) Option {
	return func(o *Orchestrator) {
		o.accepted = code
	}
}

// WithCTAPolicy configures the floating call-to-action.
func WithCTAPolicy(policy site.CTAPolicy) Option {
	return func(o *Orchestrator) {
		o.cta = policy
	}
}

// WithClock overrides the time source for submissions and document dates.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}
