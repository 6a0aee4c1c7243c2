package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/render"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/validation"
	"github.com/goliatone/go-claimform/pkg/workflow"
)

// Result is how a terminal session ended.
type Result struct {
	State    workflow.State
	Filename string
	Path     string
}

// Run walks a session through the questionnaire and, when the record is
// accepted, through signing and export.
func (r *Renderer) Run(ctx context.Context, s *session.Session) (Result, error) {
	s.OpenIntake()
	for s.Stage() == session.StageIntake && s.Form.State().IsStep() {
		page, err := render.NewPage(s, render.PageOptions{Content: r.content})
		if err != nil {
			return Result{}, err
		}
		values, err := r.collect(ctx, page, render.RenderOptions{})
		if err != nil {
			return Result{}, err
		}
		edits := make(map[model.FieldName]string, len(values))
		for name, value := range values {
			edits[model.FieldName(name)] = value
		}
		if err := s.Form.SetAll(edits); err != nil {
			return Result{}, err
		}

		if page.Intake.Step < model.StepCount {
			err = s.Form.Next()
		} else {
			err = s.Form.Submit()
		}
		if err != nil && !errors.Is(err, validation.ErrIncomplete) {
			return Result{}, err
		}
	}

	if s.Form.State() == workflow.StateRejected {
		outcome := r.content.Outcomes.Rejected
		if err := r.info(ctx, outcome.Title+"\n"+outcome.Body); err != nil {
			return Result{}, err
		}
		s.CloseIntake()
		return Result{State: workflow.StateRejected}, nil
	}
	if s.Signing == nil {
		return Result{}, fmt.Errorf("tui: unexpected form state %s", s.Form.State())
	}

	if err := r.info(ctx, r.content.Outcomes.Submitted.Title); err != nil {
		return Result{}, err
	}
	if err := r.sign(ctx, s.Signing); err != nil {
		return Result{}, err
	}
	result, err := r.export(ctx, s.Signing)
	if err != nil {
		return Result{}, err
	}
	if err := s.CloseSigning(); err != nil {
		return Result{}, err
	}
	return result, nil
}

func (r *Renderer) sign(ctx context.Context, flow *signing.Flow) error {
	for {
		path, err := r.driver.Input(ctx, InputConfig{
			Message:   "Path to a PNG image of your signature",
			Validator: requireText,
		})
		if err != nil {
			return err
		}
		raw, err := r.readFile(path)
		if err != nil {
			if err := r.fail(ctx, fmt.Sprintf("Could not read %s.", path)); err != nil {
				return err
			}
			continue
		}
		sig, err := signing.ParsePNG(raw)
		if err == nil {
			err = flow.Sign(sig)
		}
		if err == nil {
			return nil
		}
		message := flow.Snapshot().Message
		if message == "" {
			message = err.Error()
		}
		if err := r.fail(ctx, message); err != nil {
			return err
		}
	}
}

func (r *Renderer) export(ctx context.Context, flow *signing.Flow) (Result, error) {
	for {
		artifact, err := flow.ExportFormat(ctx, r.exportFormat)
		if err == nil {
			path, werr := r.writeArtifact(artifact.Filename, artifact.Body)
			if werr != nil {
				return Result{}, fmt.Errorf("tui: write %s: %w", artifact.Filename, werr)
			}
			if err := r.info(ctx, "Saved "+path); err != nil {
				return Result{}, err
			}
			return Result{State: workflow.StateSubmitted, Filename: artifact.Filename, Path: path}, nil
		}
		if errors.Is(err, signing.ErrNoExporter) {
			return Result{}, err
		}
		if err := r.fail(ctx, signing.MessageExportFailed); err != nil {
			return Result{}, err
		}
		retry, cerr := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try the export again?", Default: true})
		if cerr != nil {
			return Result{}, cerr
		}
		if !retry {
			return Result{State: workflow.StateSubmitted}, nil
		}
	}
}
