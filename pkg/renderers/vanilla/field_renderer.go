package vanilla

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/render/template"
	"github.com/goliatone/go-claimform/pkg/renderers/vanilla/components"
)

// renderedField is a component view model plus its markup.
type renderedField struct {
	components.Field
	HTML string `json:"html"`
}

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string

	usedComponents []string
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates: templates,
		registry:  registry,
		partials:  partials,
	}
}

func (r *componentRenderer) render(name string, field components.Field) (renderedField, error) {
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return renderedField{}, fmt.Errorf("vanilla renderer: component %q not registered", name)
	}
	var buf bytes.Buffer
	err := descriptor.Renderer(&buf, field, components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
	})
	if err != nil {
		return renderedField{}, err
	}
	r.usedComponents = appendUnique(r.usedComponents, name)
	return renderedField{Field: field, HTML: buf.String()}, nil
}

// intakeFields renders the fields of the current step with values from rec
// and messages from errs.
func (r *componentRenderer) intakeFields(fields []model.Field, rec model.Record, errs map[string][]string) ([]renderedField, error) {
	out := make([]renderedField, 0, len(fields))
	for _, def := range fields {
		field := fieldView(def, rec, errs[string(def.Name)])
		rendered, err := r.render(components.ForKind(def.Kind), field)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: field %s: %w", def.Name, err)
		}
		out = append(out, rendered)
	}
	return out, nil
}

func fieldView(def model.Field, rec model.Record, messages []string) components.Field {
	value, _ := rec.Value(def.Name)
	field := components.Field{
		Name:        string(def.Name),
		ID:          componentControlID(string(def.Name)),
		Label:       def.Label,
		Kind:        string(def.Kind),
		Placeholder: def.Placeholder,
		Required:    def.Required,
		Value:       value,
		Invalid:     len(messages) > 0,
		Messages:    messages,
	}
	switch def.Kind {
	case model.FieldKindAnswer:
		field.Options = []components.Option{
			{Value: string(model.AnswerYes), Label: "Yes", Selected: value == string(model.AnswerYes)},
			{Value: string(model.AnswerNo), Label: "No", Selected: value == string(model.AnswerNo)},
		}
	case model.FieldKindJurisdiction:
		for _, j := range model.Jurisdictions() {
			field.Options = append(field.Options, components.Option{
				Value:    j.Code,
				Label:    j.Name,
				Selected: value == j.Code,
			})
		}
	}
	return field
}
