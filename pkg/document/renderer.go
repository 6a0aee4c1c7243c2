package document

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-claimform/pkg/render/template"
	"github.com/goliatone/go-claimform/pkg/render/template/gotemplate"
)

// ErrTemplateRequired is returned when a renderer has no template engine.
var ErrTemplateRequired = errors.New("document: template renderer is required")

// Renderer produces sanitised document markup.
type Renderer struct {
	templates template.TemplateRenderer
	firm      Firm
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithTemplateRenderer swaps the template engine. The engine must be able to
// resolve the agreement, declaration and export templates.
func WithTemplateRenderer(engine template.TemplateRenderer) RendererOption {
	return func(r *Renderer) {
		r.templates = engine
	}
}

// WithFirm overrides the counsel details printed in the agreement.
func WithFirm(firm Firm) RendererOption {
	return func(r *Renderer) {
		r.firm = firm.withDefaults()
	}
}

// NewRenderer builds a renderer backed by the bundled templates unless an
// engine is supplied.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{firm: DefaultFirm()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.templates == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("document: template engine: %w", err)
		}
		r.templates = engine
	}
	return r, nil
}

// Agreement renders the retention agreement.
func (r *Renderer) Agreement(data Data) (string, error) {
	return r.render(TemplateAgreement, data)
}

// Declaration renders the claimant declaration.
func (r *Renderer) Declaration(data Data) (string, error) {
	return r.render(TemplateDeclaration, data)
}

// Export renders the agreement followed by the declaration on a new page.
func (r *Renderer) Export(data Data) (string, error) {
	return r.render(TemplateExport, data)
}

// View renders the named template. Only the three bundled names are accepted.
func (r *Renderer) View(name string, data Data) (string, error) {
	switch name {
	case TemplateAgreement, TemplateDeclaration, TemplateExport:
		return r.render(name, data)
	}
	return "", fmt.Errorf("document: unknown template %q", name)
}

func (r *Renderer) render(name string, data Data) (string, error) {
	if r == nil || r.templates == nil {
		return "", ErrTemplateRequired
	}
	out, err := r.templates.RenderTemplate(name, r.context(data))
	if err != nil {
		return "", fmt.Errorf("document: render %s: %w", name, err)
	}
	return Sanitize(out), nil
}

func (r *Renderer) context(data Data) map[string]any {
	date := data.Date
	if date.IsZero() {
		date = time.Now()
	}
	signature := strings.TrimSpace(data.Signature)
	if !strings.HasPrefix(signature, "data:image/") {
		signature = ""
	}
	return map[string]any{
		"record":    data.Record,
		"fullName":  data.Record.FullName(),
		"cityLine":  data.Record.CityLine(),
		"date":      date.UTC(),
		"signature": signature,
		"campaign":  data.Campaign,
		"firm":      r.firm,
	}
}
