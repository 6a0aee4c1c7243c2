// Package intake orchestrates the claimant questionnaire: it owns the Intake
// Record while the form is open, drives the step workflow and keeps the error
// state renderers display.
package intake

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/validation"
	"github.com/goliatone/go-claimform/pkg/workflow"
)

var (
	// ErrNotOpen is returned when the form is driven while closed.
	ErrNotOpen = errors.New("intake: form is not open")
	// ErrReadOnly is returned when editing outside the questionnaire steps.
	ErrReadOnly = errors.New("intake: record is read-only in the current state")
)

// Form is the intake questionnaire. It is not safe for concurrent use.
type Form struct {
	gate     validation.Gate
	onSubmit func(model.Record)
	now      func() time.Time

	machine     *workflow.Machine
	record      model.Record
	open        bool
	delivered   bool
	submittedAt time.Time
	formErrors  []string
	fieldErrors map[model.FieldName]bool
}

// New builds a closed form. Call Open before driving it.
func New(opts ...Option) *Form {
	f := &Form{
		gate: validation.NewGate(""),
		now:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.machine = workflow.New(f.gate)
	f.fieldErrors = map[model.FieldName]bool{}
	return f
}

// Open starts a fresh questionnaire at step 1 with an empty record.
func (f *Form) Open() {
	f.machine.Reset()
	f.record = model.Record{}
	f.open = true
	f.delivered = false
	f.submittedAt = time.Time{}
	f.clearErrors()
}

// Close discards in-progress edits. The submit callback is never invoked.
func (f *Form) Close() {
	if f.machine.State() != workflow.StateClosed {
		_ = f.machine.Close()
	}
	f.record = model.Record{}
	f.open = false
	f.clearErrors()
}

// Resume reopens the form on the final step with an existing record, keeping
// its values so the claimant can correct them.
func (f *Form) Resume(rec model.Record) {
	_ = f.machine.Jump(model.StepCount)
	f.record = rec.Clone()
	f.open = true
	f.delivered = false
	f.submittedAt = time.Time{}
	f.clearErrors()
}

// IsOpen reports whether the form is currently shown.
func (f *Form) IsOpen() bool {
	return f.open
}

// State returns the workflow state.
func (f *Form) State() workflow.State {
	return f.machine.State()
}

// Record returns a copy of the record being edited.
func (f *Form) Record() model.Record {
	return f.record.Clone()
}

// Set edits one field of the active step and clears its inline error. Fields
// of other steps are read-only until the claimant navigates to them.
func (f *Form) Set(name model.FieldName, value string) error {
	if err := f.editable(name); err != nil {
		return err
	}
	if err := f.record.Set(name, value); err != nil {
		return fmt.Errorf("intake: %w", err)
	}
	delete(f.fieldErrors, name)
	if len(f.fieldErrors) == 0 {
		f.formErrors = nil
	}
	return nil
}

// SetAll applies several edits in catalog order. Unknown names and fields
// outside the active step are rejected before anything is written.
func (f *Form) SetAll(values map[model.FieldName]string) error {
	for name := range values {
		if err := f.editable(name); err != nil {
			return err
		}
	}
	for _, field := range model.Fields() {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		if err := f.Set(field.Name, value); err != nil {
			return err
		}
	}
	return nil
}

// Next advances when the current step is complete. A *validation.StepError is
// returned and recorded for display otherwise.
func (f *Form) Next() error {
	if !f.open {
		return ErrNotOpen
	}
	if err := f.machine.Next(f.record); err != nil {
		f.recordError(err)
		return err
	}
	f.clearErrors()
	return nil
}

// Back returns to the previous step. Values are kept.
func (f *Form) Back() error {
	if !f.open {
		return ErrNotOpen
	}
	if err := f.machine.Back(); err != nil {
		return err
	}
	f.clearErrors()
	return nil
}

// Submit validates the last step and applies the eligibility gate. An
// ineligible record moves the form to the rejected state and is not an error;
// callers inspect State. The submit callback fires once per open, only on
// success.
func (f *Form) Submit() error {
	if !f.open {
		return ErrNotOpen
	}
	err := f.machine.Submit(f.record)
	switch {
	case err == nil:
	case errors.Is(err, validation.ErrIneligible):
		f.clearErrors()
		return nil
	default:
		f.recordError(err)
		return err
	}

	f.clearErrors()
	f.submittedAt = f.now().UTC()
	if f.onSubmit != nil && !f.delivered {
		f.delivered = true
		f.onSubmit(f.record.Clone())
	}
	return nil
}

// SubmittedAt returns when the record was accepted, zero if it was not.
func (f *Form) SubmittedAt() time.Time {
	return f.submittedAt
}

// Gate returns the eligibility gate in use.
func (f *Form) Gate() validation.Gate {
	return f.gate
}

func (f *Form) editable(name model.FieldName) error {
	if !f.open {
		return ErrNotOpen
	}
	state := f.machine.State()
	if !state.IsStep() {
		return ErrReadOnly
	}
	if _, ok := model.LookupField(name); !ok {
		return fmt.Errorf("intake: %q: %w", name, model.ErrUnknownField)
	}
	step, err := model.StepAt(state.Step())
	if err != nil {
		return fmt.Errorf("intake: %w", err)
	}
	if !step.Contains(name) {
		return fmt.Errorf("%w: %s is not on step %d", ErrReadOnly, name, step.Index)
	}
	return nil
}

func (f *Form) recordError(err error) {
	f.clearErrors()
	var stepErr *validation.StepError
	if errors.As(err, &stepErr) {
		f.formErrors = []string{validation.FormMessage}
		for _, name := range stepErr.Missing {
			f.fieldErrors[name] = true
		}
	}
}

func (f *Form) clearErrors() {
	f.formErrors = nil
	f.fieldErrors = map[model.FieldName]bool{}
}
