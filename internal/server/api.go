package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/goliatone/go-claimform/components/jurisdictions"
	"github.com/goliatone/go-claimform/internal/sessionstore"
	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/render"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/workflow"
)

const maxBodyBytes = 1 << 20

type sessionResponse struct {
	ID         string              `json:"id"`
	Stage      session.Stage       `json:"stage"`
	State      string              `json:"state"`
	Step       int                 `json:"step"`
	Progress   int                 `json:"progress"`
	Record     model.Record        `json:"record"`
	Fields     []string            `json:"fields,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	FormErrors []string            `json:"formErrors,omitempty"`
	Signing    *signingResponse    `json:"signing,omitempty"`
	Outcome    *outcomeResponse    `json:"outcome,omitempty"`
}

type signingResponse struct {
	View     signing.View  `json:"view"`
	State    signing.State `json:"state"`
	Signed   bool          `json:"signed"`
	Message  string        `json:"message,omitempty"`
	Filename string        `json:"filename,omitempty"`
}

type outcomeResponse struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type answersRequest struct {
	Answers map[string]string `json:"answers"`
}

type signatureRequest struct {
	Signature string `json:"signature"`
}

type documentResponse struct {
	View signing.View `json:"view"`
	HTML string       `json:"html"`
}

func (s *Server) mountAPI(r chi.Router) {
	r.Post("/sessions", s.apiCreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.withAPISession(s.apiGetSession))
		r.Patch("/answers", s.withAPISession(s.apiUpdateAnswers))
		r.Post("/next", s.withAPISession(s.apiNext))
		r.Post("/back", s.withAPISession(s.apiBack))
		r.Post("/submit", s.withAPISession(s.apiSubmit))
		r.Post("/close", s.withAPISession(s.apiClose))
		r.Post("/signature", s.withAPISession(s.apiCaptureSignature))
		r.Delete("/signature", s.withAPISession(s.apiClearSignature))
		r.Get("/documents/{view}", s.withAPISession(s.apiGetDocument))
		r.Post("/export", s.withAPISession(s.apiExport))
	})
	if _, err := jurisdictions.New().RegisterRoutes(r, ""); err != nil {
		s.logger.Warn("jurisdiction search unavailable", zap.Error(err))
	}
}

type apiHandler func(http.ResponseWriter, *http.Request, *sessionstore.Entry) error

// withAPISession resolves the session in the path and serialises access to
// it for the duration of the handler.
func (s *Server) withAPISession(fn apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := s.store.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		entry.Lock()
		defer entry.Unlock()
		if err := fn(w, r, entry); err != nil {
			s.writeError(w, r, err)
		}
	}
}

// apiCreateSession starts a session with the questionnaire already open.
func (s *Server) apiCreateSession(w http.ResponseWriter, r *http.Request) {
	entry, err := s.store.Create()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry.Lock()
	defer entry.Unlock()
	entry.Session.OpenIntake()
	s.logTransition(r, entry, "api.create", nil)
	w.Header().Set("Location", "/api/v1/sessions/"+entry.ID())
	writeJSON(w, http.StatusCreated, s.describe(entry.Session))
}

func (s *Server) apiGetSession(w http.ResponseWriter, _ *http.Request, e *sessionstore.Entry) error {
	writeJSON(w, http.StatusOK, s.describe(e.Session))
	return nil
}

func (s *Server) apiUpdateAnswers(w http.ResponseWriter, r *http.Request, e *sessionstore.Entry) error {
	var req answersRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	edits := make(map[model.FieldName]string, len(req.Answers))
	for name, value := range req.Answers {
		edits[model.FieldName(name)] = value
	}
	return s.respond(w, r, e, "api.answers", e.Session.Form.SetAll(edits))
}

func (s *Server) apiNext(w http.ResponseWriter, r *http.Request, e *sessionstore.Entry) error {
	return s.respond(w, r, e, "api.next", e.Session.Form.Next())
}

// apiBack leaves signing for the last step, or steps back within the form.
func (s *Server) apiBack(w http.ResponseWriter, r *http.Request, e *sessionstore.Entry) error {
	var err error
	if e.Session.Stage() == session.StageSigning {
		err = e.Session.BackToIntake()
	} else {
		err = e.Session.Form.Back()
	}
	return s.respond(w, r, e, "api.back", err)
}

func (s *Server) apiSubmit(w http.ResponseWriter, r *http.Request, e *sessionstore.Entry) error {
	return s.respond(w, r, e, "api.submit", e.Session.Form.Submit())
}

func (s *Server) apiClose(w http.ResponseWriter, r *http.Request, e *sessionstore.Entry) error {
	var err error
	switch e.Session.Stage() {
	case session.StageSigning:
		err = e.Session.CloseSigning()
	case session.StageIntake:
		e.Session.CloseIntake()
	}
	return s.respond(w, r, e, "api.close", err)
}

func (s *Server) apiCaptureSignature(w http.ResponseWriter, r *http.Request, e *sessionstore.Entry) error {
	var req signatureRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	flow := e.Session.Signing
	if flow == nil {
		return session.ErrNoSigning
	}
	sig, err := signing.ParseDataURL(req.Signature)
	if err == nil {
		err = flow.Sign(sig)
	}
	return s.respond(w, r, e, "api.signature", err)
}

func (s *Server) apiClearSignature(w http.ResponseWriter, r *http.Request, e *sessionstore.Entry) error {
	flow := e.Session.Signing
	if flow == nil {
		return session.ErrNoSigning
	}
	flow.ClearSignature()
	return s.respond(w, r, e, "api.signature.clear", nil)
}

func (s *Server) apiGetDocument(w http.ResponseWriter, r *http.Request, e *sessionstore.Entry) error {
	flow := e.Session.Signing
	if flow == nil {
		return session.ErrNoSigning
	}
	view, err := signing.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		return err
	}
	if err := flow.Show(view); err != nil {
		return err
	}
	page, err := s.orch.Page(e.Session)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, documentResponse{View: view, HTML: page.Signing.Document})
	return nil
}

func (s *Server) apiExport(w http.ResponseWriter, r *http.Request, e *sessionstore.Entry) error {
	flow := e.Session.Signing
	if flow == nil {
		return session.ErrNoSigning
	}
	artifact, err := flow.ExportFormat(r.Context(), r.URL.Query().Get("format"))
	s.logTransition(r, e, "api.export", err)
	if err != nil {
		return err
	}
	writeAttachment(w, artifact)
	return nil
}

// respond logs the transition and writes the session, or returns err for
// the error writer.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, e *sessionstore.Entry, action string, err error) error {
	s.logTransition(r, e, action, err)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, s.describe(e.Session))
	return nil
}

// describe projects a session onto the API shape.
func (s *Server) describe(sess *session.Session) sessionResponse {
	view := sess.Form.View()
	out := sessionResponse{
		ID:         sess.ID,
		Stage:      sess.Stage(),
		State:      string(view.State),
		Step:       view.Step,
		Progress:   view.Progress,
		Record:     view.Record,
		FormErrors: view.FormErrors,
		Errors:     render.IntakeErrors(view).Fields,
	}
	for _, field := range view.Fields {
		out.Fields = append(out.Fields, string(field.Name))
	}

	content := s.orch.Content()
	switch sess.Stage() {
	case session.StageIntake:
		if view.State == workflow.StateRejected {
			msg := content.Outcomes.Rejected
			out.Outcome = &outcomeResponse{Kind: render.OutcomeRejected, Title: msg.Title, Body: msg.Body}
		}
	case session.StageSigning:
		snap := sess.Signing.Snapshot()
		out.Record = sess.Signing.Record()
		out.Signing = &signingResponse{
			View:     snap.View,
			State:    snap.State,
			Signed:   snap.Signed,
			Message:  snap.Message,
			Filename: snap.Filename,
		}
	case session.StageDone:
		msg := content.Outcomes.Submitted
		out.Outcome = &outcomeResponse{Kind: render.OutcomeSubmitted, Title: msg.Title, Body: msg.Body}
	}
	return out
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return eris.Wrap(errBadRequest, err.Error())
	}
	return nil
}
