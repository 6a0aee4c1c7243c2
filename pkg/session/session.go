// Package session ties the shell widgets, the intake form and the signing
// flow of one visitor into a single context object with an explicit
// lifecycle.
package session

import (
	"errors"
	"time"

	"github.com/goliatone/go-claimform/pkg/intake"
	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/site"
	"github.com/goliatone/go-claimform/pkg/workflow"
)

// Stage is the part of the site a visitor is in.
type Stage string

const (
	StageBrowsing Stage = "browsing"
	StageIntake   Stage = "intake"
	StageSigning  Stage = "signing"
	StageDone     Stage = "done"
)

// ErrNoSigning is returned when the signing flow is driven before a record
// has been accepted.
var ErrNoSigning = errors.New("session: no signing flow")

// Session is one visitor's state. It is not safe for concurrent use; callers
// serialise access.
type Session struct {
	ID        string
	CreatedAt time.Time

	Form     *intake.Form
	Signing  *signing.Flow
	Carousel *site.Carousel
	Menu     *site.Menu
	FAQ      *site.FAQ

	stage       Stage
	formOpts    []intake.Option
	signingOpts []signing.Option
	cases       int
	faq         site.FAQContent
	now         func() time.Time
}

// New builds a browsing session.
func New(id string, opts ...Option) *Session {
	s := &Session{ID: id, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.CreatedAt = s.now().UTC()
	s.Reset()
	return s
}

// Stage returns the current stage.
func (s *Session) Stage() Stage {
	return s.stage
}

// Reset discards the form, the signing flow and widget state.
func (s *Session) Reset() {
	formOpts := append([]intake.Option{}, s.formOpts...)
	formOpts = append(formOpts, intake.WithOnSubmit(s.startSigning))
	s.Form = intake.New(formOpts...)
	s.Signing = nil
	s.Carousel = site.NewCarousel(s.cases)
	s.Menu = site.NewMenu(nil)
	s.FAQ = site.NewFAQ(s.faq)
	s.stage = StageBrowsing
}

// OpenIntake shows a fresh questionnaire. Any signing flow in progress is
// dropped.
func (s *Session) OpenIntake() {
	s.Signing = nil
	s.Menu.Close()
	s.Form.Open()
	s.stage = StageIntake
}

// CloseIntake hides the questionnaire and discards its record. Once a record
// has moved on to signing the session stays there.
func (s *Session) CloseIntake() {
	if s.stage != StageIntake {
		return
	}
	s.Form.Close()
	s.stage = StageBrowsing
}

// BackToIntake leaves signing and reopens the last step with the frozen
// record.
func (s *Session) BackToIntake() error {
	if s.Signing == nil {
		return ErrNoSigning
	}
	s.Signing.Back()
	return nil
}

// CloseSigning ends the signing step. The session is reset and marked done
// when a document was produced.
func (s *Session) CloseSigning() error {
	if s.Signing == nil {
		return ErrNoSigning
	}
	exported := s.Signing.Snapshot().State == signing.StateSucceeded
	s.Reset()
	if exported {
		s.stage = StageDone
	}
	return nil
}

// Summary is the non-identifying state safe to log.
type Summary struct {
	ID    string
	Stage Stage
	State workflow.State
	Step  int
}

// Summary reports ids, stage and step only.
func (s *Session) Summary() Summary {
	state := s.Form.State()
	return Summary{ID: s.ID, Stage: s.stage, State: state, Step: state.Step()}
}

func (s *Session) startSigning(rec model.Record) {
	opts := append([]signing.Option{}, s.signingOpts...)
	opts = append(opts, signing.WithOnBack(s.resumeIntake))
	s.Signing = signing.NewFlow(rec, opts...)
	s.stage = StageSigning
}

func (s *Session) resumeIntake(rec model.Record) {
	s.Signing = nil
	s.Form.Resume(rec)
	s.stage = StageIntake
}
