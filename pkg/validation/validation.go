// Package validation checks Intake Records against the step layout and the
// eligibility gate.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-claimform/pkg/model"
)

// FormMessage is the form-level message shown when a step has empty required
// fields.
const FormMessage = "Please complete all required fields before proceeding."

var (
	// ErrUnknownStep indicates a step index outside 1..model.StepCount.
	ErrUnknownStep = errors.New("validation: unknown step")
	// ErrIncomplete is matched by every *StepError.
	ErrIncomplete = errors.New("validation: required fields missing")
)

// StepError lists the required fields that are still empty on a step.
type StepError struct {
	Step    int
	Missing []model.FieldName
}

func (e *StepError) Error() string {
	if e == nil {
		return ""
	}
	return FormMessage
}

// Is lets callers match any StepError with errors.Is(err, ErrIncomplete).
func (e *StepError) Is(target error) bool {
	return target == ErrIncomplete
}

// Detail describes the missing fields for logs; it never includes values.
func (e *StepError) Detail() string {
	names := make([]string, len(e.Missing))
	for i, name := range e.Missing {
		names[i] = string(name)
	}
	return fmt.Sprintf("step %d missing %s", e.Step, strings.Join(names, ", "))
}

// MissingFields returns the required fields of the step that are empty, in
// step order. Unknown steps yield nil.
func MissingFields(rec model.Record, step int) []model.FieldName {
	def, err := model.StepAt(step)
	if err != nil {
		return nil
	}
	var missing []model.FieldName
	for _, name := range def.Required() {
		if rec.IsEmpty(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// ValidateStep returns nil when every required field of the step is filled,
// a *StepError otherwise.
func ValidateStep(rec model.Record, step int) error {
	if step < 1 || step > model.StepCount {
		return fmt.Errorf("%w: %d", ErrUnknownStep, step)
	}
	missing := MissingFields(rec, step)
	if len(missing) == 0 {
		return nil
	}
	return &StepError{Step: step, Missing: missing}
}

// MissingForDocument returns every required field of the record that is still
// empty, across all steps.
func MissingForDocument(rec model.Record) []model.FieldName {
	var missing []model.FieldName
	for step := 1; step <= model.StepCount; step++ {
		missing = append(missing, MissingFields(rec, step)...)
	}
	return missing
}
