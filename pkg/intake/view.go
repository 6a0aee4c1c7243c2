package intake

import (
	"time"

	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/workflow"
)

// View is the read-only snapshot renderers consume.
type View struct {
	Open          bool                     `json:"open"`
	State         workflow.State           `json:"state"`
	Step          int                      `json:"step"`
	Current       *model.Step              `json:"current,omitempty"`
	Fields        []model.Field            `json:"fields,omitempty"`
	Steps         []model.Step             `json:"steps"`
	Progress      int                      `json:"progress"`
	Record        model.Record             `json:"record"`
	FormErrors    []string                 `json:"formErrors,omitempty"`
	FieldErrors   map[model.FieldName]bool `json:"fieldErrors,omitempty"`
	Jurisdictions []model.Jurisdiction     `json:"-"`
	SubmittedAt   time.Time                `json:"submittedAt,omitempty"`
}

// HasError reports whether the field is flagged on the current step.
func (v View) HasError(name model.FieldName) bool {
	return v.FieldErrors[name]
}

// View snapshots the form.
func (f *Form) View() View {
	state := f.machine.State()
	view := View{
		Open:          f.open,
		State:         state,
		Step:          state.Step(),
		Steps:         model.Steps(),
		Record:        f.record.Clone(),
		Jurisdictions: model.Jurisdictions(),
		SubmittedAt:   f.submittedAt,
	}

	if step, err := model.StepAt(view.Step); err == nil {
		view.Current = &step
		view.Progress = model.Progress(step.Index)
		for _, name := range step.Fields {
			if field, ok := model.LookupField(name); ok {
				view.Fields = append(view.Fields, field)
			}
		}
	} else if state == workflow.StateSubmitted {
		view.Progress = 100
	}

	if len(f.formErrors) > 0 {
		view.FormErrors = append([]string(nil), f.formErrors...)
	}
	if len(f.fieldErrors) > 0 {
		view.FieldErrors = make(map[model.FieldName]bool, len(f.fieldErrors))
		for name, flagged := range f.fieldErrors {
			view.FieldErrors[name] = flagged
		}
	}
	return view
}
