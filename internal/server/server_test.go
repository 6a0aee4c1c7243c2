package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-claimform/internal/ratelimit"
	"github.com/goliatone/go-claimform/internal/sessionstore"
	"github.com/goliatone/go-claimform/pkg/document"
	"github.com/goliatone/go-claimform/pkg/orchestrator"
	"github.com/goliatone/go-claimform/pkg/render"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/testsupport"
	"github.com/goliatone/go-claimform/pkg/validation"
)

type fixture struct {
	srv     *Server
	handler http.Handler
}

func newFixture(t *testing.T, orchOpts []orchestrator.Option, opts ...Option) fixture {
	t.Helper()
	base := []orchestrator.Option{orchestrator.WithClock(func() time.Time { return testsupport.ExportDate })}
	orch := orchestrator.New(append(base, orchOpts...)...)
	require.NoError(t, orch.Err())

	store := sessionstore.New(time.Minute, time.Minute, orch.NewSession, sessionstore.WithLogger(zap.NewNop()))
	srv, err := New(orch, store, append([]Option{WithLogger(zap.NewNop())}, opts...)...)
	require.NoError(t, err)
	return fixture{srv: srv, handler: srv.Handler()}
}

var (
	csrfPattern = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)
	stepPattern = regexp.MustCompile(`name="step" value="(\d+)"`)
)

// browser replays the cookie and hidden fields of the last page it saw.
type browser struct {
	t       *testing.T
	f       fixture
	cookie  *http.Cookie
	csrf    string
	step    string
	lastURL string
}

func newBrowser(t *testing.T, f fixture) *browser {
	b := &browser{t: t, f: f}
	res := b.get("/")
	require.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, b.cookie, "session cookie")
	require.NotEmpty(t, b.csrf, "csrf token")
	return b
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	res := httptest.NewRecorder()
	b.f.handler.ServeHTTP(res, req)
	for _, c := range res.Result().Cookies() {
		if c.Name == DefaultCookieName {
			b.cookie = c
		}
	}
	if strings.HasPrefix(res.Header().Get("Content-Type"), "text/html") {
		body := res.Body.String()
		if m := csrfPattern.FindStringSubmatch(body); m != nil {
			b.csrf = m[1]
		}
		b.step = ""
		if m := stepPattern.FindStringSubmatch(body); m != nil {
			b.step = m[1]
		}
	}
	return res
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// post submits a form and follows a See Other redirect.
func (b *browser) post(path string, values map[string]string) *httptest.ResponseRecorder {
	b.t.Helper()
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	form.Set(render.HiddenCSRF, b.csrf)
	if b.step != "" && form.Get("step") == "" {
		form.Set("step", b.step)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := b.do(req)
	if res.Code == http.StatusSeeOther {
		return b.get(res.Header().Get("Location"))
	}
	return res
}

func (b *browser) session() *session.Session {
	b.t.Helper()
	entry, err := b.f.srv.store.Get(b.cookie.Value)
	require.NoError(b.t, err)
	return entry.Session
}

func (b *browser) completeIntake(state string) *httptest.ResponseRecorder {
	rec := testsupport.CompleteRecord(state)
	b.post("/intake/open", nil)
	b.post("/intake/next", testsupport.FormValues(rec, 1))
	b.post("/intake/next", testsupport.FormValues(rec, 2))
	return b.post("/intake/submit", testsupport.FormValues(rec, 3))
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
	assert.NotEmpty(t, res.Header().Get(requestIDHeader))
}

func TestAssetsServed(t *testing.T) {
	f := newFixture(t, nil)
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/assets/site.css", nil))
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestHomeStartsSession(t *testing.T) {
	f := newFixture(t, nil)
	b := newBrowser(t, f)

	assert.True(t, b.cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, b.cookie.SameSite)
	assert.Equal(t, session.StageBrowsing, b.session().Stage())
	assert.Equal(t, 1, f.srv.store.Len())

	b.get("/")
	assert.Equal(t, 1, f.srv.store.Len(), "cookie reuses the session")
}

func TestPostRequiresCSRF(t *testing.T) {
	f := newFixture(t, nil)
	b := newBrowser(t, f)
	b.csrf = "forged"

	res := b.post("/intake/open", nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, session.StageBrowsing, b.session().Stage())
}

func TestPostWithoutSessionRedirectsHome(t *testing.T) {
	f := newFixture(t, nil)
	b := &browser{t: t, f: f}

	res := b.post("/intake/open", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), flashSessionRestart)
	assert.Equal(t, session.StageBrowsing, b.session().Stage())
}

func TestShellWidgets(t *testing.T) {
	f := newFixture(t, nil)
	b := newBrowser(t, f)

	b.post("/menu/toggle", nil)
	assert.True(t, b.session().Menu.IsOpen())

	b.post("/faq/tab/general", nil)
	assert.EqualValues(t, "general", b.session().FAQ.Tab())

	b.post("/faq/toggle/1", nil)
	assert.True(t, b.session().FAQ.IsOpen(1))

	b.post("/carousel/page/1", nil)
	assert.Equal(t, 1, b.session().Carousel.Page())

	res := b.post("/faq/tab/unknown", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, "general", b.session().FAQ.Tab())
}

func TestIntakeIncompleteStepShowsErrors(t *testing.T) {
	f := newFixture(t, nil)
	b := newBrowser(t, f)
	b.post("/intake/open", nil)

	values := testsupport.FormValues(testsupport.CompleteRecord("CA"), 1)
	values["lastName"] = ""
	res := b.post("/intake/next", values)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), validation.FormMessage)
	assert.Equal(t, 1, b.session().Form.State().Step())
	assert.Equal(t, "Jane", b.session().Form.Record().FirstName)
}

func TestIntakeStaleStepIgnored(t *testing.T) {
	f := newFixture(t, nil)
	b := newBrowser(t, f)
	b.post("/intake/open", nil)

	values := testsupport.FormValues(testsupport.CompleteRecord("CA"), 1)
	values["step"] = "3"
	res := b.post("/intake/next", values)

	assert.Contains(t, res.Body.String(), flashStale)
	assert.Equal(t, 1, b.session().Form.State().Step())
	assert.Empty(t, b.session().Form.Record().FirstName)
}

func TestIntakeBackKeepsAnswers(t *testing.T) {
	f := newFixture(t, nil)
	b := newBrowser(t, f)
	rec := testsupport.CompleteRecord("CA")
	b.post("/intake/open", nil)
	b.post("/intake/next", testsupport.FormValues(rec, 1))

	partial := testsupport.FormValues(rec, 2)
	partial["city"] = "Fresno"
	b.post("/intake/back", partial)

	sess := b.session()
	assert.Equal(t, 1, sess.Form.State().Step())
	assert.Equal(t, "Fresno", sess.Form.Record().City)
}

func TestIneligibleRecordIsRejected(t *testing.T) {
	f := newFixture(t, nil)
	b := newBrowser(t, f)

	res := b.completeIntake("NY")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Application Review Status")
	assert.Nil(t, b.session().Signing)

	b.post("/intake/close", nil)
	assert.Equal(t, session.StageBrowsing, b.session().Stage())
}

func TestSigningFlowDownloadsDocument(t *testing.T) {
	f := newFixture(t, nil)
	b := newBrowser(t, f)

	res := b.completeIntake("CA")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, session.StageSigning, b.session().Stage())
	assert.Contains(t, res.Body.String(), "Thank you, Jane")

	res = b.get("/sign?view=declaration")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, signing.ViewDeclaration, b.session().Signing.Snapshot().View)

	res = b.post("/sign/signature", map[string]string{"signature": testsupport.SignatureDataURL(t, true)})
	assert.Contains(t, res.Body.String(), signing.MessageMissingSignature)

	b.post("/sign/signature", map[string]string{"signature": testsupport.SignatureDataURL(t, false)})
	require.True(t, b.session().Signing.Snapshot().Signed)

	res = b.post("/sign/export", map[string]string{"format": "html"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "text/html; charset=utf-8", res.Header().Get("Content-Type"))
	assert.Contains(t, res.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, res.Header().Get("Content-Disposition"), "HealthEquity-Agreement_Doe-Jane_2024-06-01.html")

	res = b.post("/sign/close", nil)
	assert.Contains(t, res.Body.String(), "Thank You for Your Submission")

	res = b.get("/")
	assert.NotContains(t, res.Body.String(), "Thank You for Your Submission")
	assert.Equal(t, session.StageBrowsing, b.session().Stage())
}

func TestSigningBackReturnsToLastStep(t *testing.T) {
	f := newFixture(t, nil)
	b := newBrowser(t, f)
	b.completeIntake("CA")

	b.post("/sign/back", nil)
	sess := b.session()
	assert.Equal(t, session.StageIntake, sess.Stage())
	assert.Equal(t, 3, sess.Form.State().Step())
	assert.Equal(t, "Doe", sess.Form.Record().LastName)
}

func TestSignViewOutsideSigningRedirects(t *testing.T) {
	f := newFixture(t, nil)
	b := newBrowser(t, f)

	res := b.get("/sign?view=agreement")
	assert.Equal(t, http.StatusSeeOther, res.Code)
}

func TestExportFailureOffersRetry(t *testing.T) {
	calls := 0
	exporter := signing.ExporterFunc(func(_ context.Context, _ document.Data) (document.Output, error) {
		calls++
		if calls == 1 {
			return document.Output{}, errors.New("converter unavailable")
		}
		return document.Output{Body: []byte("%PDF-1.3"), ContentType: "application/pdf", Extension: "pdf"}, nil
	})
	f := newFixture(t, []orchestrator.Option{orchestrator.WithExporter(exporter)})
	b := newBrowser(t, f)
	b.completeIntake("CA")
	b.post("/sign/signature", map[string]string{"signature": testsupport.SignatureDataURL(t, false)})

	res := b.post("/sign/export", map[string]string{"format": "pdf"})
	require.Equal(t, http.StatusBadGateway, res.Code)
	assert.Contains(t, res.Body.String(), "Retry download")
	assert.Equal(t, signing.StateFailed, b.session().Signing.Snapshot().State)

	res = b.post("/sign/export", map[string]string{"format": "pdf"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "application/pdf", res.Header().Get("Content-Type"))
	assert.Equal(t, 2, calls)
}

func TestRateLimitRejectsBursts(t *testing.T) {
	// One token starts the session, one serves the first post.
	f := newFixture(t, nil, WithLimiter(ratelimit.New(0.001, 2, time.Minute)))
	b := newBrowser(t, f)

	first := b.post("/menu/toggle", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	second := b.post("/menu/toggle", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestCookielessVisitsShareSessionBudget(t *testing.T) {
	f := newFixture(t, nil, WithLimiter(ratelimit.New(0.001, 1, time.Minute)))

	get := func(path string) *httptest.ResponseRecorder {
		res := httptest.NewRecorder()
		f.handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, path, nil))
		return res
	}

	require.Equal(t, http.StatusOK, get("/").Code)
	assert.Equal(t, http.StatusTooManyRequests, get("/").Code)
	assert.Equal(t, http.StatusTooManyRequests, get("/intake").Code)
	assert.Equal(t, 1, f.srv.store.Len())
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{sessionstore.ErrNotFound, http.StatusNotFound},
		{errCSRF, http.StatusForbidden},
		{&validation.StepError{Step: 1}, http.StatusUnprocessableEntity},
		{&signing.IncompleteError{}, http.StatusUnprocessableEntity},
		{signing.ErrMissingSignature, http.StatusUnprocessableEntity},
		{session.ErrNoSigning, http.StatusConflict},
		{signing.ErrExportInProgress, http.StatusConflict},
		{signing.ErrExportFailed, http.StatusBadGateway},
		{errRateLimited, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "%v", tc.err)
	}
}
