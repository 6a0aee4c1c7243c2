package document

import (
	"time"

	"github.com/goliatone/go-claimform/pkg/model"
)

// Data is everything the document templates need.
type Data struct {
	Record model.Record
	// Signature is a data:image/png;base64 URL. Empty renders no image.
	Signature string
	Date      time.Time
	Campaign  string
	// Format selects the converter by name. Empty uses the exporter default.
	Format string
}

// Output is a converted document.
type Output struct {
	ContentType string
	Extension   string
	Body        []byte
}
