// Package gotemplate adapts github.com/goliatone/go-template to the
// template.TemplateRenderer contract. Besides the engine's stock filters it
// registers answer and longdate, which the document templates rely on.
package gotemplate
