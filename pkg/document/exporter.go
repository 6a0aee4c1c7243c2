package document

import (
	"context"
	"errors"
	"fmt"
)

// FormatPDF and FormatHTML name the bundled converters.
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// ErrUnknownFormat is returned for an unregistered converter name.
var ErrUnknownFormat = errors.New("document: unknown export format")

// Exporter renders the export template and converts it. It satisfies the
// signing flow's exporter contract.
type Exporter struct {
	renderer      *Renderer
	registry      *Registry
	defaultFormat string
}

// NewExporter wires a renderer to a converter registry. An empty default
// format selects PDF.
func NewExporter(renderer *Renderer, registry *Registry, defaultFormat string) (*Exporter, error) {
	if renderer == nil {
		return nil, ErrTemplateRequired
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	if defaultFormat == "" {
		defaultFormat = FormatPDF
	}
	if !registry.Has(defaultFormat) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, defaultFormat)
	}
	return &Exporter{renderer: renderer, registry: registry, defaultFormat: defaultFormat}, nil
}

// Formats lists the converter names available for export.
func (e *Exporter) Formats() []string {
	return e.registry.List()
}

// Export renders data and converts it with the requested format.
func (e *Exporter) Export(ctx context.Context, data Data) (Output, error) {
	format := data.Format
	if format == "" {
		format = e.defaultFormat
	}
	converter, err := e.registry.Get(format)
	if err != nil {
		return Output{}, err
	}

	markup, err := e.renderer.Export(data)
	if err != nil {
		return Output{}, err
	}
	if err := ctx.Err(); err != nil {
		return Output{}, fmt.Errorf("document: export: %w", err)
	}

	body, err := converter.Convert(ctx, markup)
	if err != nil {
		return Output{}, fmt.Errorf("document: convert %s: %w", converter.Name(), err)
	}
	return Output{
		ContentType: converter.ContentType(),
		Extension:   converter.Extension(),
		Body:        body,
	}, nil
}
