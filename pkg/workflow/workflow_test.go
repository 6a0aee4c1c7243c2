package workflow_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/validation"
	"github.com/goliatone/go-claimform/pkg/workflow"
)

func fullRecord(state string) model.Record {
	rec := model.Record{
		FirstName: "Jane", LastName: "Doe", Address: "1 Main St",
		City: "Los Angeles", State: state, ZipCode: "90001",
	}
	for _, field := range model.Fields() {
		if field.Kind == model.FieldKindAnswer {
			if err := rec.Set(field.Name, "yes"); err != nil {
				panic(err)
			}
		}
	}
	return rec
}

func TestNextBlocksOnMissingFields(t *testing.T) {
	m := workflow.New(validation.NewGate(""))

	err := m.Next(model.Record{})
	var stepErr *validation.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %v", err)
	}
	if m.State() != workflow.StateStep1 {
		t.Fatalf("state = %s, want step1", m.State())
	}
	if stepErr.Step != 1 {
		t.Fatalf("step = %d", stepErr.Step)
	}
}

func TestHappyPathSubmitted(t *testing.T) {
	m := workflow.New(validation.NewGate(""))
	rec := fullRecord("CA")

	var visited []workflow.State
	for i := 0; i < 2; i++ {
		if err := m.Next(rec); err != nil {
			t.Fatalf("next: %v", err)
		}
		visited = append(visited, m.State())
	}
	if err := m.Submit(rec); err != nil {
		t.Fatalf("submit: %v", err)
	}
	visited = append(visited, m.State())

	want := []workflow.State{workflow.StateStep2, workflow.StateStep3, workflow.StateSubmitted}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitRejectsOtherJurisdictions(t *testing.T) {
	m := workflow.New(validation.NewGate("CA"))
	rec := fullRecord("NY")
	_ = m.Next(rec)
	_ = m.Next(rec)

	if err := m.Submit(rec); !errors.Is(err, validation.ErrIneligible) {
		t.Fatalf("expected ErrIneligible, got %v", err)
	}
	if m.State() != workflow.StateRejected {
		t.Fatalf("state = %s, want rejected", m.State())
	}
}

func TestSubmitValidatesStepThreeBeforeGate(t *testing.T) {
	m := workflow.New(validation.NewGate("CA"))
	rec := fullRecord("NY")
	_ = m.Next(rec)
	_ = m.Next(rec)
	rec.AuthorizesComms = model.AnswerUnset

	err := m.Submit(rec)
	if !errors.Is(err, validation.ErrIncomplete) {
		t.Fatalf("expected incomplete error, got %v", err)
	}
	if m.State() != workflow.StateStep3 {
		t.Fatalf("gate must not run before validation passes; state = %s", m.State())
	}
}

func TestSubmitValidatesEarlierSteps(t *testing.T) {
	m := workflow.New(validation.NewGate("CA"))
	rec := fullRecord("CA")
	_ = m.Next(rec)
	_ = m.Next(rec)
	rec.FirstName = ""
	rec.ZipCode = ""

	err := m.Submit(rec)
	var stepErr *validation.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %v", err)
	}
	want := []model.FieldName{model.FieldFirstName, model.FieldZipCode}
	if diff := cmp.Diff(want, stepErr.Missing); diff != "" || stepErr.Step != 1 {
		t.Fatalf("step %d missing mismatch (-want +got):\n%s", stepErr.Step, diff)
	}
	if m.State() != workflow.StateStep3 {
		t.Fatalf("state = %s, want step3", m.State())
	}
}

func TestInvalidTransitions(t *testing.T) {
	rec := fullRecord("CA")

	m := workflow.New(validation.NewGate(""))
	if err := m.Back(); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("back from step1: %v", err)
	}
	if err := m.Submit(rec); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("submit from step1: %v", err)
	}
	if m.State() != workflow.StateStep1 {
		t.Fatalf("state changed to %s", m.State())
	}

	_ = m.Next(rec)
	_ = m.Next(rec)
	if err := m.Next(rec); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("next from step3: %v", err)
	}

	_ = m.Submit(rec)
	if err := m.Back(); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("back from submitted: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close from submitted: %v", err)
	}
	if err := m.Close(); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("close from closed: %v", err)
	}
}

func TestBackIsUnconditional(t *testing.T) {
	m := workflow.New(validation.NewGate(""))
	rec := fullRecord("CA")
	_ = m.Next(rec)

	if err := m.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if m.State() != workflow.StateStep1 {
		t.Fatalf("state = %s", m.State())
	}
}

func TestResetAndJump(t *testing.T) {
	m := workflow.New(validation.NewGate(""))
	_ = m.Close()
	m.Reset()
	if m.State() != workflow.StateStep1 {
		t.Fatalf("reset state = %s", m.State())
	}
	if err := m.Jump(3); err != nil || m.State() != workflow.StateStep3 {
		t.Fatalf("jump: %v state=%s", err, m.State())
	}
	if err := m.Jump(7); err == nil {
		t.Fatalf("expected error for jump to 7")
	}
}
