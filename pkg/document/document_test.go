package document_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-claimform/pkg/document"
	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/testsupport"
)

func newRenderer(t *testing.T) *document.Renderer {
	t.Helper()
	renderer, err := document.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func sampleData(t *testing.T) document.Data {
	t.Helper()
	return document.Data{
		Record:    testsupport.CompleteRecord("CA"),
		Signature: testsupport.SignatureDataURL(t, false),
		Date:      testsupport.ExportDate,
		Campaign:  "HealthEquity-Agreement",
	}
}

func TestAgreementMentionsClaimantAndFirm(t *testing.T) {
	out, err := newRenderer(t).Agreement(sampleData(t))
	if err != nil {
		t.Fatalf("agreement: %v", err)
	}
	for _, want := range []string{
		"Dear Jane,",
		"Saddle Rock Legal Group LLC,",
		"40% of the value of your recovery",
		"Dated: June 1, 2024",
		`src="data:image/png;base64,`,
		"Jane Doe",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("agreement missing %q", want)
		}
	}
}

func TestDeclarationStatementsFollowAnswers(t *testing.T) {
	data := sampleData(t)
	data.Record.IsOver18 = model.AnswerNo
	data.Record.CanTestify = model.AnswerNo
	data.Record.BelievesBreached = model.AnswerNo

	out, err := newRenderer(t).Declaration(data)
	if err != nil {
		t.Fatalf("declaration: %v", err)
	}
	for _, want := range []string{
		"Declaration of Jane Doe",
		"I am <strong>not over</strong> 18 years of age.",
		"I <strong>have</strong> personal knowledge",
		"I <strong>cannot</strong> testify",
		"I <strong>do not believe</strong> my personal information",
		"I <strong>do</strong> authorize",
		"Apt 4",
		"Los Angeles, CA 90001",
		"Executed on June 1, 2024",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("declaration missing %q\n%s", want, out)
		}
	}
	if got := strings.Count(out, "<li>"); got != 12 {
		t.Fatalf("declaration statements = %d, want 12", got)
	}
}

func TestDeclarationOmitsBlankAptSuiteAndSignature(t *testing.T) {
	data := sampleData(t)
	data.Record.AptSuite = ""
	data.Signature = ""

	out, err := newRenderer(t).Declaration(data)
	if err != nil {
		t.Fatalf("declaration: %v", err)
	}
	if strings.Contains(out, "<img") {
		t.Fatalf("unsigned declaration renders an image")
	}
	if strings.Contains(out, "<p></p>") {
		t.Fatalf("blank apt/suite rendered as empty paragraph")
	}
}

func TestRendererEscapesClaimantInput(t *testing.T) {
	data := sampleData(t)
	data.Record.FirstName = `<script>alert(1)</script>Jane`

	out, err := newRenderer(t).Export(data)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("script tag survived rendering")
	}
	if !strings.Contains(out, `class="page-break"`) {
		t.Fatalf("export missing page break")
	}
}

func TestSanitizeKeepsDocumentVocabulary(t *testing.T) {
	in := `<div class="page-break" style="color:red"></div><p onclick="x()">Hi <strong>there</strong></p>` +
		`<div class="sidebar">x</div><iframe src="x"></iframe><script>alert(1)</script>`
	got := document.Sanitize(in)

	for _, want := range []string{`<div class="page-break"></div>`, `<p>Hi <strong>there</strong></p>`, `<div>x</div>`} {
		if !strings.Contains(got, want) {
			t.Fatalf("sanitized output missing %q: %s", want, got)
		}
	}
	for _, banned := range []string{"style=", "onclick", "iframe", "sidebar", "script"} {
		if strings.Contains(got, banned) {
			t.Fatalf("sanitized output kept %q: %s", banned, got)
		}
	}
}

func TestPDFConverterProducesDocument(t *testing.T) {
	markup, err := newRenderer(t).Export(sampleData(t))
	if err != nil {
		t.Fatalf("export markup: %v", err)
	}

	converter := document.NewPDFConverter(document.PDFConfig{})
	cfg := converter.Config()
	if cfg.PageSize != "Letter" || cfg.Orientation != "P" || cfg.Unit != "in" || cfg.Margin != 0.75 || cfg.ImageQuality != 98 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	body, err := converter.Convert(context.Background(), markup)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", body[:min(len(body), 16)])
	}
	if !bytes.Contains(body, []byte("/DCTDecode")) {
		t.Fatalf("signature image not embedded as JPEG")
	}
}

func TestPDFConverterHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := document.NewPDFConverter(document.DefaultPDFConfig()).Convert(ctx, "<p>hello</p>")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPDFConverterRejectsOversizedImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	raw := buf.Bytes()
	binary.BigEndian.PutUint32(raw[16:20], 20000)
	binary.BigEndian.PutUint32(raw[20:24], 20000)
	binary.BigEndian.PutUint32(raw[29:33], crc32.ChecksumIEEE(raw[12:29]))

	markup := `<p>Signed</p><img src="data:image/png;base64,` + base64.StdEncoding.EncodeToString(raw) + `">`
	_, err := document.NewPDFConverter(document.DefaultPDFConfig()).Convert(context.Background(), markup)
	if !errors.Is(err, document.ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestHTMLConverterWrapsMarkup(t *testing.T) {
	body, err := document.NewHTMLConverter(document.DefaultPDFConfig()).Convert(context.Background(), "<p>hello</p>")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	out := string(body)
	if !strings.HasPrefix(out, "<!DOCTYPE html>") || !strings.Contains(out, "<p>hello</p>") {
		t.Fatalf("unexpected html output:\n%s", out)
	}
	if !strings.Contains(out, "@page { size: letter portrait; margin: 0.75in; }") {
		t.Fatalf("print geometry missing:\n%s", out)
	}
}

func TestExporterSelectsFormat(t *testing.T) {
	exporter, err := document.NewExporter(newRenderer(t), document.DefaultRegistry(), "")
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	if diff := cmp.Diff([]string{"html", "pdf"}, exporter.Formats()); diff != "" {
		t.Fatalf("formats mismatch (-want +got):\n%s", diff)
	}

	data := sampleData(t)
	out, err := exporter.Export(context.Background(), data)
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if out.ContentType != "application/pdf" || out.Extension != "pdf" {
		t.Fatalf("unexpected default output: %s %s", out.ContentType, out.Extension)
	}

	data.Format = "HTML"
	out, err = exporter.Export(context.Background(), data)
	if err != nil {
		t.Fatalf("export html: %v", err)
	}
	if out.Extension != "html" || !bytes.Contains(out.Body, []byte("Declaration of Jane Doe")) {
		t.Fatalf("unexpected html export")
	}

	data.Format = "docx"
	if _, err := exporter.Export(context.Background(), data); !errors.Is(err, document.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := document.NewRegistry()
	registry.MustRegister(document.NewHTMLConverter(document.DefaultPDFConfig()))
	if err := registry.Register(document.NewHTMLConverter(document.DefaultPDFConfig())); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := registry.Get("pdf"); !errors.Is(err, document.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := document.NewExporter(newRenderer(t), registry, ""); !errors.Is(err, document.ErrUnknownFormat) {
		t.Fatalf("exporter should require the default format, got %v", err)
	}
}
