package signing

import (
	"strings"
	"time"

	"github.com/goliatone/go-claimform/pkg/model"
)

// Option configures a Flow.
type Option func(*Flow)

// WithCampaign sets the filename prefix.
func WithCampaign(name string) Option {
	return func(f *Flow) {
		if name = strings.TrimSpace(name); name != "" {
			f.campaign = name
		}
	}
}

// WithExporter sets the document exporter.
func WithExporter(exporter Exporter) Option {
	return func(f *Flow) {
		f.exporter = exporter
	}
}

// WithClock overrides the time source used for document dates.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		if now != nil {
			f.now = now
		}
	}
}

// WithOnBack registers the callback invoked by Back.
func WithOnBack(fn func(model.Record)) Option {
	return func(f *Flow) {
		f.onBack = fn
	}
}
