package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/render"
	"github.com/goliatone/go-claimform/pkg/site"
)

// Renderer implements render.Renderer for terminal sessions. Rendering an
// intake page prompts for the step's fields and returns the collected values.
type Renderer struct {
	driver        PromptDriver
	outputFormat  OutputFormat
	theme         Theme
	content       site.Content
	readFile      func(string) ([]byte, error)
	writeArtifact func(string, []byte) (string, error)
	exportFormat  string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:        driver,
		outputFormat:  OutputFormatJSON,
		readFile:      os.ReadFile,
		writeArtifact: writeToWorkingDir,
		theme:         Theme{ErrorPrefix: "! "},
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if strings.TrimSpace(r.content.Campaign.Name) == "" {
		r.content = site.MustDefaultContent()
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for an intake page's fields and serializes the answers.
// Other pages are printed and produce an empty payload.
func (r *Renderer) Render(ctx context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	if page.Kind != render.PageIntake {
		if err := r.info(ctx, describe(page)); err != nil {
			return nil, err
		}
		return r.serialize(nil)
	}
	values, err := r.collect(ctx, page, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(values)
}

func (r *Renderer) collect(ctx context.Context, page render.Page, opts render.RenderOptions) (map[string]string, error) {
	if page.Intake == nil {
		return nil, ErrNoIntake
	}
	view := page.Intake
	errs := render.IntakeErrors(*view)
	extra := render.MapErrorPayload(opts.Errors)
	for _, message := range render.MergeFormErrors(errs.Form, extra.Form...) {
		if err := r.fail(ctx, message); err != nil {
			return nil, err
		}
	}

	if view.Current != nil {
		header := fmt.Sprintf("Step %d of %d: %s", view.Step, len(view.Steps), view.Current.Label)
		if err := r.info(ctx, header); err != nil {
			return nil, err
		}
	}

	values := make(map[string]string, len(view.Fields))
	for _, field := range view.Fields {
		current, _ := view.Record.Value(field.Name)
		value, err := r.promptField(ctx, field, current)
		if err != nil {
			return nil, err
		}
		values[string(field.Name)] = value
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, current string) (string, error) {
	switch field.Kind {
	case model.FieldKindAnswer:
		options := []string{"Yes", "No"}
		def := -1
		switch model.Answer(current) {
		case model.AnswerYes:
			def = 0
		case model.AnswerNo:
			def = 1
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: field.Label, Options: options, DefaultIndex: def})
		if err != nil {
			return "", err
		}
		switch idx {
		case 0:
			return string(model.AnswerYes), nil
		case 1:
			return string(model.AnswerNo), nil
		}
		return "", nil
	case model.FieldKindJurisdiction:
		jurisdictions := model.Jurisdictions()
		options := make([]string, len(jurisdictions))
		def := -1
		for i, j := range jurisdictions {
			options[i] = j.Name
			if j.Code == current {
				def = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: field.Label, Options: options, DefaultIndex: def, PageSize: 10})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(jurisdictions) {
			return "", nil
		}
		return jurisdictions[idx].Code, nil
	default:
		cfg := InputConfig{Message: field.Label, Default: current, Help: field.Placeholder}
		if field.Required {
			cfg.Validator = requireText
		}
		return r.driver.Input(ctx, cfg)
	}
}

func requireText(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("this field is required")
	}
	return nil
}

func (r *Renderer) serialize(values map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range values {
			form.Set(key, value)
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		if values == nil {
			values = map[string]string{}
		}
		return json.Marshal(values)
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) fail(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func describe(page render.Page) string {
	switch page.Kind {
	case render.PageOutcome:
		if page.Outcome == nil {
			return ""
		}
		parts := []string{page.Outcome.Message.Title, page.Outcome.Message.Body}
		if note := page.Outcome.Message.Note; note != "" {
			parts = append(parts, note)
		}
		return strings.Join(parts, "\n")
	case render.PageSigning:
		if page.Signing == nil {
			return ""
		}
		return fmt.Sprintf("Review and sign: %s (%s)", page.Signing.View, page.Signing.State)
	default:
		return page.Content.Hero.Title + "\n" + page.Content.Hero.Body
	}
}

func prettyPrint(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s\n", key, values[key])
	}
	return b.String()
}

func writeToWorkingDir(name string, body []byte) (string, error) {
	path := filepath.Join(".", filepath.Base(name))
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
