// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-claimform/pkg/model"
)

// ExportDate is the calendar date used by document and filename fixtures.
var ExportDate = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// CompleteRecord returns a record for Jane Doe with every question answered
// yes and the given jurisdiction.
func CompleteRecord(state string) model.Record {
	rec := model.Record{
		FirstName: "Jane",
		LastName:  "Doe",
		Address:   "1 Main St",
		AptSuite:  "Apt 4",
		City:      "Los Angeles",
		State:     state,
		ZipCode:   "90001",
	}
	for _, field := range model.Fields() {
		if field.Kind != model.FieldKindAnswer {
			continue
		}
		if err := rec.Set(field.Name, string(model.AnswerYes)); err != nil {
			panic(err)
		}
	}
	return rec
}

// FormValues flattens the given step of rec into form-post values.
func FormValues(rec model.Record, step int) map[string]string {
	def, err := model.StepAt(step)
	if err != nil {
		return nil
	}
	out := make(map[string]string, len(def.Fields))
	for _, name := range def.Fields {
		value, _ := rec.Value(name)
		out[string(name)] = value
	}
	return out
}

// SignaturePNG encodes a small PNG with a single stroke, or a fully
// transparent canvas when blank is true.
func SignaturePNG(t testing.TB, blank bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 12))
	if !blank {
		for x := 4; x < 36; x++ {
			img.Set(x, 6, color.NRGBA{A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode signature png: %v", err)
	}
	return buf.Bytes()
}

// SignatureDataURL wraps SignaturePNG in a data URL.
func SignatureDataURL(t testing.TB, blank bool) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(SignaturePNG(t, blank))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
