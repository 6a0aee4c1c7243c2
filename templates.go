// Package claimform runs a class-action intake site: an eligibility-gated
// questionnaire, a signing step and signed document export.
package claimform

import (
	"io/fs"

	"github.com/goliatone/go-claimform/pkg/document"
	vanilla "github.com/goliatone/go-claimform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// DocumentTemplates exposes the agreement and declaration templates.
func DocumentTemplates() fs.FS {
	return document.TemplatesFS()
}

// AssetsFS exposes the stylesheet and browser scripts the pages link to.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(claimform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
