package server

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-claimform/internal/ratelimit"
	"github.com/goliatone/go-claimform/internal/sessionstore"
	"github.com/goliatone/go-claimform/pkg/document"
	"github.com/goliatone/go-claimform/pkg/intake"
	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/orchestrator"
	"github.com/goliatone/go-claimform/pkg/render"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/site"
	"github.com/goliatone/go-claimform/pkg/validation"
	"github.com/goliatone/go-claimform/pkg/workflow"
)

// Flash notices shown after a rejected action.
const (
	flashUnavailable    = "That action is not available right now."
	flashStale          = "The page was out of date. Please review your answers and try again."
	flashInvalidAnswer  = "Please answer each question with Yes or No."
	flashInvalidSig     = "We could not read your signature. Please sign again."
	flashUnknownFormat  = "That download format is not available."
	flashSessionRestart = "Your session expired. Please start again."
)

type entryKey struct{}

func entryFrom(ctx context.Context) *sessionstore.Entry {
	entry, _ := ctx.Value(entryKey{}).(*sessionstore.Entry)
	return entry
}

// lookup returns the session named by the cookie.
func (s *Server) lookup(r *http.Request) (*sessionstore.Entry, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil, sessionstore.ErrNotFound
	}
	return s.store.Get(cookie.Value)
}

// lookupOrCreate returns the cookie's session or starts a new one. Starting
// a session draws from the client's rate limit, so cookie-less page loads
// cannot fill the store.
func (s *Server) lookupOrCreate(w http.ResponseWriter, r *http.Request) (*sessionstore.Entry, error) {
	entry, err := s.lookup(r)
	if err == nil {
		return entry, nil
	}
	if s.limiter != nil && !s.limiter.Allow(ratelimit.ClientIP(r)) {
		return nil, errRateLimited
	}
	entry, err = s.store.Create()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    entry.ID(),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session created", zap.String("session_id", entry.ID()))
	return entry, nil
}

// withFormSession guards posted forms: the session must exist and the CSRF
// token must match. Expired sessions are sent back to the home page.
func (s *Server) withFormSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, r, errBadRequest)
			return
		}
		entry, err := s.lookup(r)
		if err != nil {
			entry, err = s.lookupOrCreate(w, r)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			entry.Flash = flashSessionRestart
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if !entry.VerifyCSRF(r.PostForm.Get(render.HiddenCSRF)) {
			s.writeError(w, r, errCSRF)
			return
		}
		entry.Lock()
		defer entry.Unlock()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), entryKey{}, entry)))
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookupOrCreate(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry.Lock()
	defer entry.Unlock()

	s.renderPage(w, r, entry, http.StatusOK)
	// The thank-you screen shows once; the next visit starts over.
	if entry.Session.Stage() == session.StageDone {
		entry.Session.Reset()
	}
}

func (s *Server) handleSignView(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookup(r)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	entry.Lock()
	defer entry.Unlock()

	sess := entry.Session
	if sess.Stage() != session.StageSigning {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view, err := signing.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Signing.Show(view); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderPage(w, r, entry, http.StatusOK)
}

// renderPage renders the session's current screen with the vanilla renderer.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, entry *sessionstore.Entry, status int) {
	sess := entry.Session
	hidden := []render.HiddenField{render.CSRFToken(entry.CSRF)}
	if sess.Stage() == session.StageIntake && sess.Form.State().IsStep() {
		hidden = append(hidden, render.StepField(sess.Form.State().Step()))
	}
	opts := render.RenderOptions{
		Hidden: render.MergeHiddenFields(nil, hidden...),
		Flash:  entry.Flash,
	}
	entry.Flash = ""

	body, err := s.orch.Generate(r.Context(), orchestrator.Request{Session: sess, RenderOptions: opts})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	contentType, err := s.orch.ContentType("")
	if err != nil || contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// act runs a state change on the request's session and redirects home.
// Client-side failures become a flash notice; server failures are reported.
func (s *Server) act(w http.ResponseWriter, r *http.Request, action string, fn func(*sessionstore.Entry) error) {
	entry := entryFrom(r.Context())
	err := fn(entry)
	s.logTransition(r, entry, action, err)
	if err != nil {
		if statusFor(err) >= http.StatusInternalServerError {
			s.writeError(w, r, err)
			return
		}
		if flash := flashFor(err); flash != "" {
			entry.Flash = flash
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logTransition records ids, stage and state only. Answers never reach the log.
func (s *Server) logTransition(r *http.Request, entry *sessionstore.Entry, action string, err error) {
	summary := entry.Session.Summary()
	fields := []zap.Field{
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("session_id", summary.ID),
		zap.String("action", action),
		zap.String("stage", string(summary.Stage)),
		zap.String("state", string(summary.State)),
		zap.Int("step", summary.Step),
	}
	if err != nil {
		fields = append(fields, zap.Int("status", statusFor(err)))
	}
	s.logger.Info("session transition", fields...)
}

// flashFor returns the notice for a failed action. Step validation failures
// are shown inline by the form itself.
func flashFor(err error) string {
	var incomplete *signing.IncompleteError
	switch {
	case errors.Is(err, errStaleStep):
		return flashStale
	case errors.As(err, &incomplete),
		errors.Is(err, signing.ErrMissingSignature),
		errors.Is(err, validation.ErrIncomplete):
		return ""
	case errors.Is(err, document.ErrUnknownFormat):
		return flashUnknownFormat
	case errors.Is(err, model.ErrInvalidAnswer):
		return flashInvalidAnswer
	case errors.Is(err, signing.ErrInvalidSignature):
		return flashInvalidSig
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, intake.ErrNotOpen),
		errors.Is(err, intake.ErrReadOnly),
		errors.Is(err, session.ErrNoSigning),
		errors.Is(err, signing.ErrExportInProgress):
		return flashUnavailable
	default:
		return publicMessage(err)
	}
}

// applyStep copies the posted values of the current step into the record.
// A form posted from a different step is ignored.
func applyStep(form *intake.Form, values map[string][]string) error {
	state := form.State()
	if !state.IsStep() {
		return nil
	}
	if posted := first(values, "step"); posted != "" {
		step, err := strconv.Atoi(posted)
		if err != nil || step != state.Step() {
			return errStaleStep
		}
	}
	view := form.View()
	edits := make(map[model.FieldName]string, len(view.Fields))
	for _, field := range view.Fields {
		edits[field.Name] = strings.TrimSpace(first(values, string(field.Name)))
	}
	return form.SetAll(edits)
}

func first(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (s *Server) handleMenuToggle(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "menu.toggle", func(e *sessionstore.Entry) error {
		e.Session.Menu.Toggle()
		return nil
	})
}

func (s *Server) handleCarouselNext(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "carousel.next", func(e *sessionstore.Entry) error {
		e.Session.Carousel.Next()
		return nil
	})
}

func (s *Server) handleCarouselPrev(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "carousel.prev", func(e *sessionstore.Entry) error {
		e.Session.Carousel.Prev()
		return nil
	})
}

func (s *Server) handleCarouselPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		s.writeError(w, r, errBadRequest)
		return
	}
	s.act(w, r, "carousel.page", func(e *sessionstore.Entry) error {
		e.Session.Carousel.GoTo(page)
		return nil
	})
}

func (s *Server) handleFAQTab(w http.ResponseWriter, r *http.Request) {
	tab := site.FAQTab(chi.URLParam(r, "tab"))
	s.act(w, r, "faq.tab", func(e *sessionstore.Entry) error {
		return e.Session.FAQ.SelectTab(tab)
	})
}

func (s *Server) handleFAQToggle(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, r, errBadRequest)
		return
	}
	s.act(w, r, "faq.toggle", func(e *sessionstore.Entry) error {
		e.Session.FAQ.Toggle(index)
		return nil
	})
}

func (s *Server) handleIntakeOpen(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "intake.open", func(e *sessionstore.Entry) error {
		e.Session.OpenIntake()
		return nil
	})
}

func (s *Server) handleIntakeNext(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "intake.next", func(e *sessionstore.Entry) error {
		if err := applyStep(e.Session.Form, r.PostForm); err != nil {
			return err
		}
		return e.Session.Form.Next()
	})
}

func (s *Server) handleIntakeBack(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "intake.back", func(e *sessionstore.Entry) error {
		if err := applyStep(e.Session.Form, r.PostForm); err != nil {
			return err
		}
		return e.Session.Form.Back()
	})
}

func (s *Server) handleIntakeSubmit(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "intake.submit", func(e *sessionstore.Entry) error {
		if err := applyStep(e.Session.Form, r.PostForm); err != nil {
			return err
		}
		return e.Session.Form.Submit()
	})
}

func (s *Server) handleIntakeClose(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "intake.close", func(e *sessionstore.Entry) error {
		e.Session.CloseIntake()
		return nil
	})
}

func (s *Server) handleSignSignature(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "sign.signature", func(e *sessionstore.Entry) error {
		flow := e.Session.Signing
		if flow == nil {
			return session.ErrNoSigning
		}
		sig, err := signing.ParseDataURL(r.PostForm.Get("signature"))
		if err != nil {
			return err
		}
		return flow.Sign(sig)
	})
}

func (s *Server) handleSignClear(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "sign.clear", func(e *sessionstore.Entry) error {
		if e.Session.Signing == nil {
			return session.ErrNoSigning
		}
		e.Session.Signing.ClearSignature()
		return nil
	})
}

func (s *Server) handleSignBack(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "sign.back", func(e *sessionstore.Entry) error {
		return e.Session.BackToIntake()
	})
}

func (s *Server) handleSignClose(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, "sign.close", func(e *sessionstore.Entry) error {
		return e.Session.CloseSigning()
	})
}

// handleSignExport streams the document as an attachment. A failed export
// re-renders the signing screen, which offers a retry.
func (s *Server) handleSignExport(w http.ResponseWriter, r *http.Request) {
	entry := entryFrom(r.Context())
	flow := entry.Session.Signing
	if flow == nil {
		s.act(w, r, "sign.export", func(*sessionstore.Entry) error { return session.ErrNoSigning })
		return
	}

	artifact, err := flow.ExportFormat(r.Context(), r.Form.Get("format"))
	s.logTransition(r, entry, "sign.export", err)
	switch {
	case err == nil:
		writeAttachment(w, artifact)
	case errors.Is(err, signing.ErrExportFailed) && statusFor(err) == http.StatusBadGateway:
		s.renderPage(w, r, entry, http.StatusBadGateway)
	case statusFor(err) >= http.StatusInternalServerError:
		s.writeError(w, r, err)
	default:
		if flash := flashFor(err); flash != "" {
			entry.Flash = flash
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func writeAttachment(w http.ResponseWriter, artifact signing.Artifact) {
	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Body)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Body)
}
