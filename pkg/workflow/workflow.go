// Package workflow implements the step state machine that walks a claimant
// through the questionnaire and into the submitted or rejected outcome.
package workflow

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/validation"
)

// State enumerates the machine's positions.
type State string

const (
	StateStep1     State = "step1"
	StateStep2     State = "step2"
	StateStep3     State = "step3"
	StateRejected  State = "rejected"
	StateSubmitted State = "submitted"
	StateClosed    State = "closed"
)

// ErrInvalidTransition is returned for any event the current state does not
// accept. The state is left unchanged.
var ErrInvalidTransition = errors.New("workflow: invalid transition")

// Event names the inputs accepted by the machine.
type Event string

const (
	EventNext   Event = "next"
	EventBack   Event = "back"
	EventSubmit Event = "submit"
	EventClose  Event = "close"
	EventReset  Event = "reset"
)

// Step returns the 1-based step number for step states and 0 otherwise.
func (s State) Step() int {
	switch s {
	case StateStep1:
		return 1
	case StateStep2:
		return 2
	case StateStep3:
		return 3
	}
	return 0
}

// IsStep reports whether the state is one of the questionnaire pages.
func (s State) IsStep() bool {
	return s.Step() > 0
}

// Terminal reports whether the questionnaire has produced an outcome.
func (s State) Terminal() bool {
	return s == StateRejected || s == StateSubmitted
}

func stepState(n int) State {
	switch n {
	case 1:
		return StateStep1
	case 2:
		return StateStep2
	case 3:
		return StateStep3
	}
	return ""
}

// Machine is the questionnaire state machine. It is driven by a single actor
// and performs no locking.
type Machine struct {
	state State
	gate  validation.Gate
}

// New returns a machine positioned at step 1.
func New(gate validation.Gate) *Machine {
	return &Machine{state: StateStep1, gate: gate}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Gate returns the eligibility gate applied on submit.
func (m *Machine) Gate() validation.Gate {
	return m.gate
}

// Next advances to the following step when the current step has no missing
// required fields. On failure the state is unchanged and the
// *validation.StepError is returned.
func (m *Machine) Next(rec model.Record) error {
	n := m.state.Step()
	if n == 0 || n >= model.StepCount {
		return m.invalid(EventNext)
	}
	if err := validation.ValidateStep(rec, n); err != nil {
		return err
	}
	m.state = stepState(n + 1)
	return nil
}

// Back returns to the previous step. Values are never touched.
func (m *Machine) Back() error {
	n := m.state.Step()
	if n <= 1 {
		return m.invalid(EventBack)
	}
	m.state = stepState(n - 1)
	return nil
}

// Submit validates every step, then applies the eligibility gate. The first
// incomplete step is returned as a *validation.StepError and the state is
// unchanged. A failed gate moves the machine to rejected and returns
// validation.ErrIneligible; a pass moves it to submitted.
func (m *Machine) Submit(rec model.Record) error {
	if m.state != StateStep3 {
		return m.invalid(EventSubmit)
	}
	for step := 1; step <= model.StepCount; step++ {
		if err := validation.ValidateStep(rec, step); err != nil {
			return err
		}
	}
	if err := m.gate.Check(rec); err != nil {
		m.state = StateRejected
		return err
	}
	m.state = StateSubmitted
	return nil
}

// Close ends the questionnaire from any step or outcome state.
func (m *Machine) Close() error {
	if m.state == StateClosed {
		return m.invalid(EventClose)
	}
	m.state = StateClosed
	return nil
}

// Reset returns the machine to step 1 from any state.
func (m *Machine) Reset() {
	m.state = StateStep1
}

// Jump positions the machine on a step directly. It is used when a submitted
// record is reopened for corrections.
func (m *Machine) Jump(step int) error {
	target := stepState(step)
	if target == "" {
		return fmt.Errorf("workflow: jump to step %d: %w", step, validation.ErrUnknownStep)
	}
	m.state = target
	return nil
}

func (m *Machine) invalid(event Event) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, m.state)
}
