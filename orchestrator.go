package claimform

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-claimform/pkg/orchestrator"
	"github.com/goliatone/go-claimform/pkg/render"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/site"
)

// RenderOptions describes per-request overrides that renderers can use to
// surface hidden fields, flash text or server-side errors.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request for callers of the top-level package.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the current screen of a session with the vanilla
// renderer. It is the simplest entry point for callers that just want HTML.
func GenerateHTML(ctx context.Context, s *session.Session, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{Session: s})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemes registers the given manifests, with the first as fallback.
func WithThemes(manifests ...*theme.Manifest) (orchestrator.Option, error) {
	themes, err := site.NewThemes(manifests...)
	if err != nil {
		return nil, err
	}
	return orchestrator.WithThemeSelector(themes), nil
}

// WithContent replaces the bundled site copy.
func WithContent(content site.Content) orchestrator.Option {
	return orchestrator.WithContent(content)
}

// WithAcceptedJurisdiction configures the eligibility gate.
func WithAcceptedJurisdiction(code string) orchestrator.Option {
	return orchestrator.WithAcceptedJurisdiction(code)
}
