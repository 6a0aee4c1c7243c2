package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-claimform/pkg/model"
)

const templatePrefix = "templates/components/"

// SignatureScript is the pad runtime served from the asset bundle.
const SignatureScript = "/assets/signature-pad.js"

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer("forms.input", templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameChoice, Descriptor{
		Renderer: templateComponentRenderer("forms.choice", templatePrefix+"choice.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.select", templatePrefix+"select.tmpl"),
	})
	registry.MustRegister(NameSignature, Descriptor{
		Renderer: templateComponentRenderer("forms.signature", templatePrefix+"signature.tmpl"),
		Scripts:  []Script{{Src: SignatureScript, Defer: true}},
	})

	return registry
}

// ForKind picks the component that renders a catalog field kind.
func ForKind(kind model.FieldKind) string {
	switch kind {
	case model.FieldKindAnswer:
		return NameChoice
	case model.FieldKindJurisdiction:
		return NameSelect
	default:
		return NameInput
	}
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := map[string]any{
			"field":  field,
			"config": data.Config,
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
