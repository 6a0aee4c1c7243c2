package gotemplate

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-claimform/pkg/render/template"
)

// Option configures the adapter before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	extension string
}

// WithFS sets the file system templates load from.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default ".tpl" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(ext); trimmed != "" {
			cfg.extension = trimmed
		}
	}
}

// Engine satisfies template.TemplateRenderer on top of go-template, with the
// declaration filters the claim documents use registered up front.
type Engine struct {
	*gotemplatepkg.Engine
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine reading templates from the configured fs.FS.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.templates == nil {
		return nil, errors.New("gotemplate: template fs.FS is required")
	}

	engine, err := gotemplatepkg.NewRenderer(
		gotemplatepkg.WithFS(cfg.templates),
		gotemplatepkg.WithExtension(cfg.extension),
		gotemplatepkg.WithTemplateFunc(map[string]any{
			"answer":   pongo2.FilterFunction(filterAnswer),
			"longdate": pongo2.FilterFunction(filterLongDate),
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: %w", err)
	}
	return &Engine{Engine: engine}, nil
}

// RegisterFilter adds a filter to the shared pongo2 filter set.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	return e.Engine.RegisterFilter(name, fn)
}

// filterAnswer picks between two phrasings of a declaration statement:
// {{ record.isOver18|answer:"am,am not" }} renders "am" for a yes answer and
// "am not" for anything else.
func filterAnswer(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	affirmative, negative, ok := strings.Cut(param.String(), ",")
	if !ok {
		return nil, &pongo2.Error{
			Sender:    "filter:answer",
			OrigError: fmt.Errorf("expected \"yes,no\" phrasing, got %q", param.String()),
		}
	}
	if strings.EqualFold(strings.TrimSpace(in.String()), "yes") {
		return pongo2.AsValue(affirmative), nil
	}
	return pongo2.AsValue(negative), nil
}

// filterLongDate renders RFC 3339 strings and time values as "January 2, 2006".
func filterLongDate(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch v := in.Interface().(type) {
	case time.Time:
		return pongo2.AsValue(v.Format("January 2, 2006")), nil
	case string:
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(v))
		if err != nil {
			return pongo2.AsValue(v), nil
		}
		return pongo2.AsValue(parsed.Format("January 2, 2006")), nil
	}
	return pongo2.AsValue(in.String()), nil
}
