package render

import (
	"fmt"

	"github.com/goliatone/go-claimform/pkg/document"
	"github.com/goliatone/go-claimform/pkg/intake"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/site"
	"github.com/goliatone/go-claimform/pkg/workflow"
)

// PageKind selects the top-level template.
type PageKind string

const (
	PageHome    PageKind = "home"
	PageIntake  PageKind = "intake"
	PageSigning PageKind = "signing"
	PageOutcome PageKind = "outcome"
)

// Page is everything a renderer needs for one screen.
type Page struct {
	Kind    PageKind      `json:"kind"`
	Session string        `json:"session"`
	Stage   session.Stage `json:"stage"`
	Content site.Content  `json:"content"`
	Shell   Shell         `json:"shell"`
	Intake  *intake.View  `json:"intake,omitempty"`
	Signing *SigningView  `json:"signing,omitempty"`
	Outcome *Outcome      `json:"outcome,omitempty"`
}

// Shell is the state of the site chrome around the active screen.
type Shell struct {
	CarouselOffset int            `json:"carouselOffset"`
	CarouselPage   int            `json:"carouselPage"`
	CarouselPages  int            `json:"carouselPages"`
	ItemsPerPage   int            `json:"itemsPerPage"`
	VisibleCases   []site.Case    `json:"visibleCases"`
	MenuOpen       bool           `json:"menuOpen"`
	FAQTab         site.FAQTab    `json:"faqTab"`
	FAQItems       []FAQItem      `json:"faqItems"`
	CTA            site.CTAPolicy `json:"cta"`
}

// FAQItem is a question with its expanded flag.
type FAQItem struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Open     bool   `json:"open"`
}

// SigningView is the signing screen: the flow snapshot plus the sanitised
// document markup for the active view.
type SigningView struct {
	View      signing.View  `json:"view"`
	State     signing.State `json:"state"`
	Signed    bool          `json:"signed"`
	Signature string        `json:"signature,omitempty"`
	Message   string        `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	Filename  string        `json:"filename,omitempty"`
	FirstName string        `json:"firstName"`
	Document  string        `json:"document"`
}

// Outcome is a terminal message screen.
type Outcome struct {
	Kind    string       `json:"kind"`
	Message site.Message `json:"message"`
}

// Outcome kinds.
const (
	OutcomeRejected  = "rejected"
	OutcomeSubmitted = "submitted"
)

// PageOptions tune NewPage.
type PageOptions struct {
	Content   site.Content
	Documents *document.Renderer
	CTA       site.CTAPolicy
}

// NewPage snapshots a session into a Page. The document renderer is needed
// only while the session is signing.
func NewPage(s *session.Session, opts PageOptions) (Page, error) {
	if s == nil {
		return Page{}, fmt.Errorf("render: session is required")
	}
	page := Page{
		Kind:    PageHome,
		Session: s.ID,
		Stage:   s.Stage(),
		Content: opts.Content,
		Shell:   shellOf(s, opts),
	}

	switch s.Stage() {
	case session.StageIntake:
		view := s.Form.View()
		page.Intake = &view
		page.Kind = PageIntake
		if view.State == workflow.StateRejected {
			page.Kind = PageOutcome
			page.Outcome = &Outcome{Kind: OutcomeRejected, Message: opts.Content.Outcomes.Rejected}
		}
	case session.StageSigning:
		view, err := signingView(s.Signing, opts.Documents)
		if err != nil {
			return Page{}, err
		}
		page.Kind = PageSigning
		page.Signing = view
	case session.StageDone:
		page.Kind = PageOutcome
		page.Outcome = &Outcome{Kind: OutcomeSubmitted, Message: opts.Content.Outcomes.Submitted}
	}
	return page, nil
}

func shellOf(s *session.Session, opts PageOptions) Shell {
	start, end := s.Carousel.Visible()
	shell := Shell{
		CarouselOffset: s.Carousel.Offset(),
		CarouselPage:   s.Carousel.Page(),
		CarouselPages:  s.Carousel.Pages(),
		ItemsPerPage:   s.Carousel.ItemsPerPage(),
		MenuOpen:       s.Menu.IsOpen(),
		FAQTab:         s.FAQ.Tab(),
		CTA:            opts.CTA,
	}
	if end <= len(opts.Content.Cases) && start < end {
		shell.VisibleCases = opts.Content.Cases[start:end]
	}
	for i, qa := range s.FAQ.Items() {
		shell.FAQItems = append(shell.FAQItems, FAQItem{
			Index:    i,
			Question: qa.Question,
			Answer:   qa.Answer,
			Open:     s.FAQ.IsOpen(i),
		})
	}
	return shell
}

func signingView(flow *signing.Flow, docs *document.Renderer) (*SigningView, error) {
	if flow == nil {
		return nil, fmt.Errorf("render: %w", session.ErrNoSigning)
	}
	snap := flow.Snapshot()
	rec := flow.Record()
	view := &SigningView{
		View:      snap.View,
		State:     snap.State,
		Signed:    snap.Signed,
		Signature: snap.Signature,
		Message:   snap.Message,
		Filename:  snap.Filename,
		FirstName: rec.FirstName,
	}
	if snap.Err != nil {
		view.Error = snap.Err.Error()
	}
	if docs == nil {
		return view, nil
	}
	markup, err := docs.View(string(snap.View), flow.Data())
	if err != nil {
		return nil, fmt.Errorf("render: signing document: %w", err)
	}
	view.Document = markup
	return view, nil
}
