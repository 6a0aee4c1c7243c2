package vanilla_test

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-claimform/pkg/document"
	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/render"
	"github.com/goliatone/go-claimform/pkg/renderers/vanilla"
	"github.com/goliatone/go-claimform/pkg/session"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/site"
	"github.com/goliatone/go-claimform/pkg/testsupport"
)

func renderSession(t *testing.T, s *session.Session, opts render.RenderOptions) string {
	t.Helper()
	content := site.MustDefaultContent()
	docs, err := document.NewRenderer()
	if err != nil {
		t.Fatalf("document renderer: %v", err)
	}
	page, err := render.NewPage(s, render.PageOptions{Content: content, Documents: docs, CTA: site.DefaultCTAPolicy()})
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), page, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func newSession() *session.Session {
	return session.New("s1", session.WithContent(site.MustDefaultContent()))
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestRenderHome(t *testing.T) {
	out := renderSession(t, newSession(), render.RenderOptions{
		Hidden: render.MergeHiddenFields(nil, render.CSRFToken("tok")),
	})
	assertContains(t, out,
		"<h1>HealthEquity Data Breach</h1>",
		`action="/intake/open"`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`action="/carousel/page/2"`,
		`data-placement="hidden"`,
		"T-Mobile Data Breach",
		`href="/assets/site.css"`,
	)
	if strings.Contains(out, "signature-pad.js") {
		t.Fatalf("signature runtime should only load on the signing page")
	}
}

func TestRenderIntakeWithErrors(t *testing.T) {
	s := newSession()
	s.OpenIntake()
	_ = s.Form.Next()

	out := renderSession(t, s, render.RenderOptions{})
	assertContains(t, out,
		"Step 1 of 3: Personal Information",
		"Please complete all required fields before proceeding.",
		`id="cf-firstName"`,
		`<option value="CA">California</option>`,
		`aria-invalid="true"`,
		`action="/intake/next"`,
	)
	if strings.Contains(out, `formaction="/intake/back"`) {
		t.Fatalf("first step should not offer back")
	}
}

func TestRenderIntakeKeepsValues(t *testing.T) {
	s := newSession()
	s.OpenIntake()
	if err := s.Form.SetAll(map[model.FieldName]string{
		model.FieldFirstName: "Jane",
		model.FieldState:     "CA",
		model.FieldIsOver18:  "yes",
	}); err != nil {
		t.Fatalf("set: %v", err)
	}
	out := renderSession(t, s, render.RenderOptions{})
	assertContains(t, out,
		`name="firstName" value="Jane"`,
		`<option value="CA" selected>California</option>`,
		`value="yes" checked`,
	)
}

func TestRenderSigning(t *testing.T) {
	s := session.New("s1",
		session.WithContent(site.MustDefaultContent()),
		session.WithSigningOptions(signing.WithClock(func() time.Time { return testsupport.ExportDate })),
	)
	s.OpenIntake()
	rec := testsupport.CompleteRecord("CA")
	for step := 1; step <= model.StepCount; step++ {
		values := map[model.FieldName]string{}
		for name, value := range testsupport.FormValues(rec, step) {
			values[model.FieldName(name)] = value
		}
		_ = s.Form.SetAll(values)
		if step < model.StepCount {
			_ = s.Form.Next()
		}
	}
	if err := s.Form.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	out := renderSession(t, s, render.RenderOptions{})
	assertContains(t, out,
		"Thank you, Jane",
		"Dear Jane",
		"data-signature-pad",
		"/assets/signature-pad.js",
		`href="/sign?view=declaration"`,
	)
	if strings.Contains(out, `action="/sign/export"`) {
		t.Fatalf("export offered before signing")
	}
}

func TestRenderRejectedOutcome(t *testing.T) {
	s := newSession()
	s.OpenIntake()
	rec := testsupport.CompleteRecord("NV")
	for step := 1; step <= model.StepCount; step++ {
		values := map[model.FieldName]string{}
		for name, value := range testsupport.FormValues(rec, step) {
			values[model.FieldName(name)] = value
		}
		_ = s.Form.SetAll(values)
		if step < model.StepCount {
			_ = s.Form.Next()
		}
	}
	_ = s.Form.Submit()

	out := renderSession(t, s, render.RenderOptions{})
	assertContains(t, out, "Application Review Status", "outcome-rejected")
}

func TestRenderThemeVariables(t *testing.T) {
	themes, err := site.NewThemes()
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	selection, _ := themes.Select(site.DefaultThemeName, "dark")
	out := renderSession(t, newSession(), render.RenderOptions{Theme: site.Config(selection)})
	assertContains(t, out, "--surface: #111827;", `data-theme-variant="dark"`)
}

func TestAssetsBundle(t *testing.T) {
	for _, name := range []string{vanilla.StylesheetName, vanilla.RuntimeScriptName, vanilla.SignatureScriptName} {
		if _, err := fs.Stat(vanilla.AssetsFS(), name); err != nil {
			t.Fatalf("asset %s: %v", name, err)
		}
	}
}
