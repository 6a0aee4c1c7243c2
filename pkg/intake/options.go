package intake

import (
	"time"

	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/validation"
)

// Option mutates the form configuration.
type Option func(*Form)

// WithGate sets the eligibility gate evaluated on submit.
func WithGate(gate validation.Gate) Option {
	return func(f *Form) {
		f.gate = gate
	}
}

// WithAcceptedJurisdiction is shorthand for WithGate(validation.NewGate(code)).
func WithAcceptedJurisdiction(code string) Option {
	return WithGate(validation.NewGate(code))
}

// WithOnSubmit registers the callback that receives the frozen record after a
// successful submission.
func WithOnSubmit(fn func(model.Record)) Option {
	return func(f *Form) {
		f.onSubmit = fn
	}
}

// WithClock overrides the time source used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(f *Form) {
		if now != nil {
			f.now = now
		}
	}
}
