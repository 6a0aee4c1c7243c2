package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-claimform/pkg/document"
	"github.com/goliatone/go-claimform/pkg/intake"
	"github.com/goliatone/go-claimform/pkg/render"
	"github.com/goliatone/go-claimform/pkg/renderers/vanilla"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/site"
	"github.com/goliatone/go-claimform/pkg/validation"
)

// Orchestrator coordinates the pipeline from session state to rendered
// output and exported documents. It applies sensible defaults (vanilla
// renderer, bundled content, templates and theme) while remaining open to
// dependency injection for advanced callers.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	content         site.Content
	contentSet      bool
	themes          theme.ThemeSelector
	themeName       string
	themeVariant    string
	documents       *document.Renderer
	exporter        signing.Exporter
	pdf             document.PDFConfig
	defaultFormat   string
	campaign        string
	accepted        string
	cta             site.CTAPolicy
	now             func() time.Time
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations. Call Err
// to check that they could be built.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		campaign:        signing.DefaultCampaign,
		accepted:        validation.DefaultAcceptedJurisdiction,
		cta:             site.DefaultCTAPolicy(),
		now:             time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Err reports a failure to build a default dependency.
func (o *Orchestrator) Err() error {
	return o.initialiseErr
}

// Content returns the site copy.
func (o *Orchestrator) Content() site.Content {
	return o.content
}

// Campaign returns the campaign name used in filenames.
func (o *Orchestrator) Campaign() string {
	return o.campaign
}

// Gate returns the eligibility gate new sessions use.
func (o *Orchestrator) Gate() validation.Gate {
	return validation.NewGate(o.accepted)
}

// Documents returns the document template renderer.
func (o *Orchestrator) Documents() *document.Renderer {
	return o.documents
}

// Exporter returns the exporter handed to signing flows.
func (o *Orchestrator) Exporter() signing.Exporter {
	return o.exporter
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.Names()
}

// NewSession builds a session carrying the configured gate, campaign,
// exporter, clock and content.
func (o *Orchestrator) NewSession(id string) *session.Session {
	return session.New(id,
		session.WithContent(o.content),
		session.WithClock(o.now),
		session.WithFormOptions(
			intake.WithAcceptedJurisdiction(o.accepted),
			intake.WithClock(o.now),
		),
		session.WithSigningOptions(
			signing.WithCampaign(o.campaign),
			signing.WithExporter(o.exporter),
			signing.WithClock(o.now),
		),
	)
}

// Page snapshots a session for rendering.
func (o *Orchestrator) Page(s *session.Session) (render.Page, error) {
	return render.NewPage(s, render.PageOptions{
		Content:   o.content,
		Documents: o.documents,
		CTA:       o.cta,
	})
}

// Theme resolves a theme and variant into renderer configuration. Empty
// arguments use the configured defaults.
func (o *Orchestrator) Theme(name, variant string) (*theme.RendererConfig, error) {
	if o.themes == nil {
		return nil, nil
	}
	if strings.TrimSpace(name) == "" {
		name = o.themeName
	}
	if strings.TrimSpace(variant) == "" {
		variant = o.themeVariant
	}
	selection, err := o.themes.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return site.Config(selection), nil
}

// Request describes one render of a session.
type Request struct {
	Session *session.Session

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	ThemeName    string
	ThemeVariant string

	// RenderOptions carries hidden fields, flash text or server-side errors.
	// A theme resolved by the orchestrator replaces RenderOptions.Theme only
	// when the caller left it nil.
	RenderOptions render.RenderOptions
}

// Generate snapshots the session and renders it with the named renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if req.Session == nil {
		return nil, errors.New("orchestrator: session is required")
	}

	page, err := o.Page(req.Session)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build page: %w", err)
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.Theme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, page, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// ContentType reports the content type of the named renderer.
func (o *Orchestrator) ContentType(name string) (string, error) {
	renderer, err := o.rendererFor(name)
	if err != nil {
		return "", err
	}
	return renderer.ContentType(), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	renderer, err := o.registry.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if !o.contentSet {
		content, err := site.DefaultContent()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default content: %w", err)
			return
		}
		o.content = content
	}
	if o.themes == nil {
		themes, err := site.NewThemes()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default theme: %w", err)
			return
		}
		o.themes = themes
	}
	if o.documents == nil {
		docs, err := document.NewRenderer()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: document renderer: %w", err)
			return
		}
		o.documents = docs
	}
	if o.exporter == nil {
		registry := document.NewRegistry()
		registry.MustRegister(document.NewPDFConverter(o.pdf))
		registry.MustRegister(document.NewHTMLConverter(o.pdf))
		exporter, err := document.NewExporter(o.documents, registry, o.defaultFormat)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: exporter: %w", err)
			return
		}
		o.exporter = exporter
	}
	if o.registry == nil {
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		registry, err := render.NewRegistry(renderer)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry = registry
	}
	if o.defaultRenderer != "" {
		if err := o.registry.SetDefault(o.defaultRenderer); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		}
	}
}
