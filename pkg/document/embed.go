package document

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Template names.
const (
	TemplateAgreement   = "agreement"
	TemplateDeclaration = "declaration"
	TemplateExport      = "export"
)

// TemplatesFS exposes the bundled templates rooted at the template directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
