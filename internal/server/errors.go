package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/goliatone/go-claimform/internal/apispec"
	"github.com/goliatone/go-claimform/internal/sessionstore"
	"github.com/goliatone/go-claimform/pkg/document"
	"github.com/goliatone/go-claimform/pkg/intake"
	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/render"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/site"
	"github.com/goliatone/go-claimform/pkg/validation"
	"github.com/goliatone/go-claimform/pkg/workflow"
)

var (
	errCSRF        = eris.New("invalid or missing csrf token")
	errRateLimited = eris.New("too many requests")
	errBadRequest  = eris.New("malformed request")
	errStaleStep   = eris.New("form posted from a different step")
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var contractErr *apispec.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, sessionstore.ErrNotFound),
		errors.Is(err, apispec.ErrRouteNotFound),
		errors.Is(err, signing.ErrUnknownView):
		return http.StatusNotFound
	case errors.Is(err, errCSRF):
		return http.StatusForbidden
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.As(err, &contractErr),
		errors.Is(err, validation.ErrIncomplete),
		errors.Is(err, model.ErrUnknownField),
		errors.Is(err, model.ErrInvalidAnswer),
		errors.Is(err, signing.ErrMissingSignature),
		errors.Is(err, signing.ErrInvalidSignature),
		errors.Is(err, signing.ErrIncompleteRecord),
		errors.Is(err, document.ErrUnknownFormat),
		errors.Is(err, site.ErrUnknownTab):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, errStaleStep),
		errors.Is(err, intake.ErrNotOpen),
		errors.Is(err, intake.ErrReadOnly),
		errors.Is(err, session.ErrNoSigning),
		errors.Is(err, signing.ErrExportInProgress):
		return http.StatusConflict
	case errors.Is(err, signing.ErrExportFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the client-facing message and field map. Internal errors
// never leak their text.
func errorBody(err error, status int) errorResponse {
	var contractErr *apispec.ValidationError
	var incomplete *signing.IncompleteError
	switch {
	case errors.As(err, &contractErr):
		return errorResponse{Error: contractErr.Message, Fields: contractErr.Fields}
	case errors.Is(err, validation.ErrIncomplete):
		mapping := render.StepErrors(err)
		return errorResponse{Error: validation.FormMessage, Fields: mapping.Fields}
	case errors.As(err, &incomplete):
		fields := make(map[string][]string, len(incomplete.Missing))
		for _, name := range incomplete.Missing {
			fields[string(name)] = []string{render.RequiredMessage}
		}
		return errorResponse{Error: signing.MessageIncompleteRecord, Fields: fields}
	case errors.Is(err, signing.ErrMissingSignature):
		return errorResponse{Error: signing.MessageMissingSignature}
	case errors.Is(err, signing.ErrExportFailed):
		return errorResponse{Error: signing.MessageExportFailed}
	case status >= http.StatusInternalServerError:
		return errorResponse{Error: http.StatusText(status)}
	default:
		return errorResponse{Error: publicMessage(err)}
	}
}

// publicMessage drops the package prefix carried by sentinel errors.
func publicMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i > 0 && !strings.Contains(msg[:i], " ") {
		msg = msg[i+2:]
	}
	return msg
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logError(r, err, status)
	if isAPI(r) {
		writeJSON(w, status, errorBody(err, status))
		return
	}
	body := errorBody(err, status)
	http.Error(w, body.Error, status)
}

func (s *Server) logError(r *http.Request, err error, status int) {
	fields := []zap.Field{
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.Int("status", status),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Debug("request rejected", append(fields, zap.String("reason", publicMessage(err)))...)
}

func (s *Server) rejectHTML(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errRateLimited)
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
