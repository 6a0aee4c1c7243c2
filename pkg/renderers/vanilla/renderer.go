package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/goliatone/go-claimform/pkg/render"
	rendertemplate "github.com/goliatone/go-claimform/pkg/render/template"
	gotemplate "github.com/goliatone/go-claimform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-claimform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-claimform/pkg/site"
)

// AssetPrefix is where the server mounts AssetsFS.
const AssetPrefix = "/assets"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	stylesheets      []string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default field components.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithStylesheet links an extra stylesheet after the theme's own.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheets = appendUnique(cfg.stylesheets, href)
	}
}

// Renderer produces server-rendered HTML pages enhanced by a small script.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	registry    *components.Registry
	stylesheets []string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	registry := cfg.registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	return &Renderer{templates: renderer, registry: registry, stylesheets: cfg.stylesheets}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	var partials map[string]string
	if options.Theme != nil {
		partials = options.Theme.Partials
	}
	comps := newComponentRenderer(r.templates, r.registry, partials)

	errs := render.MapErrorPayload(options.Errors)
	data := map[string]any{
		"page":    page,
		"hidden":  render.SortedHiddenFields(options.Hidden),
		"flash":   options.Flash,
		"classes": chromeClasses(),
		"theme":   themeContext(options),
		"dots":    carouselDots(page.Shell),
	}

	switch page.Kind {
	case render.PageIntake:
		if page.Intake == nil {
			return nil, fmt.Errorf("vanilla renderer: intake page without form state")
		}
		intakeErrs := render.IntakeErrors(*page.Intake)
		fieldErrs := mergeFieldErrors(intakeErrs.Fields, errs.Fields)
		fields, err := comps.intakeFields(page.Intake.Fields, page.Intake.Record, fieldErrs)
		if err != nil {
			return nil, err
		}
		data["fields"] = fields
		data["formErrors"] = render.MergeFormErrors(intakeErrs.Form, errs.Form...)
		data["lastStep"] = page.Intake.Step == len(page.Intake.Steps)
	case render.PageSigning:
		if page.Signing == nil {
			return nil, fmt.Errorf("vanilla renderer: signing page without flow state")
		}
		pad, err := comps.render(components.NameSignature, components.Field{
			Name:     "signature",
			ID:       componentControlID("signature"),
			Label:    "Signature",
			Required: true,
			Value:    page.Signing.Signature,
			Invalid:  page.Signing.Message != "",
		})
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: signature pad: %w", err)
		}
		data["signaturePad"] = pad.HTML
		data["formErrors"] = errs.Form
	default:
		data["formErrors"] = errs.Form
	}
	data["assets"] = r.assets(options, comps.usedComponents)

	result, err := r.templates.RenderTemplate(path.Join("templates", string(page.Kind)+".tmpl"), data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type assetContext struct {
	Stylesheets []string            `json:"stylesheets"`
	Scripts     []components.Script `json:"scripts"`
}

func (r *Renderer) assets(options render.RenderOptions, used []string) assetContext {
	stylesheet := path.Join(AssetPrefix, StylesheetName)
	script := path.Join(AssetPrefix, RuntimeScriptName)
	if options.Theme != nil && options.Theme.AssetURL != nil {
		if url := options.Theme.AssetURL("stylesheet"); url != "" {
			stylesheet = url
		}
		if url := options.Theme.AssetURL("script"); url != "" {
			script = url
		}
	}
	styles, scripts := r.registry.Assets(used)
	out := assetContext{
		Stylesheets: appendUnique([]string{stylesheet}, r.stylesheets...),
		Scripts:     []components.Script{{Src: script, Defer: true}},
	}
	out.Stylesheets = appendUnique(out.Stylesheets, styles...)
	out.Scripts = append(out.Scripts, scripts...)
	return out
}

func themeContext(options render.RenderOptions) map[string]string {
	if options.Theme == nil {
		return map[string]string{}
	}
	return map[string]string{
		"name":    options.Theme.Theme,
		"variant": options.Theme.Variant,
		"style":   site.CSSVarsStyle(options.Theme.CSSVars),
	}
}

type carouselDot struct {
	Index  int  `json:"index"`
	Label  int  `json:"label"`
	Active bool `json:"active"`
}

func carouselDots(shell render.Shell) []carouselDot {
	dots := make([]carouselDot, 0, shell.CarouselPages)
	for i := 0; i < shell.CarouselPages; i++ {
		dots = append(dots, carouselDot{Index: i, Label: i + 1, Active: i == shell.CarouselPage})
	}
	return dots
}

func mergeFieldErrors(sets ...map[string][]string) map[string][]string {
	out := map[string][]string{}
	for _, set := range sets {
		for name, messages := range set {
			out[name] = render.MergeFormErrors(out[name], messages...)
		}
	}
	return out
}
