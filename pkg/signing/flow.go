// Package signing implements the agreement and declaration review, signature
// capture and document export that follow a successful intake submission.
package signing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-claimform/pkg/document"
	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/validation"
)

// View selects which document is being read.
type View string

const (
	ViewAgreement   View = "agreement"
	ViewDeclaration View = "declaration"
)

// ParseView validates a view name. Empty selects the agreement.
func ParseView(raw string) (View, error) {
	switch View(raw) {
	case "", ViewAgreement:
		return ViewAgreement, nil
	case ViewDeclaration:
		return ViewDeclaration, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, raw)
}

// State tracks the export lifecycle.
type State string

const (
	StateReviewing State = "reviewing"
	StateExporting State = "exporting"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Messages shown inline next to the signature pad.
const (
	MessageMissingSignature = "Please sign the document before downloading."
	MessageIncompleteRecord = "Please complete all required fields first."
	MessageExportFailed     = "We could not generate your document. Please try again."
)

var (
	ErrMissingSignature = errors.New("signing: signature required")
	ErrExportInProgress = errors.New("signing: export already in progress")
	ErrNoExporter       = errors.New("signing: no exporter configured")
	ErrUnknownView      = errors.New("signing: unknown view")
	ErrExportFailed     = errors.New("signing: export failed")
	// ErrIncompleteRecord is matched by *IncompleteError.
	ErrIncompleteRecord = errors.New("signing: record incomplete")
)

// IncompleteError lists the required fields still empty on the record.
type IncompleteError struct {
	Missing []model.FieldName
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("signing: record incomplete (%d fields missing)", len(e.Missing))
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncompleteRecord
}

// Exporter turns document data into a downloadable file.
type Exporter interface {
	Export(ctx context.Context, data document.Data) (document.Output, error)
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(ctx context.Context, data document.Data) (document.Output, error)

// Export implements Exporter.
func (fn ExporterFunc) Export(ctx context.Context, data document.Data) (document.Output, error) {
	return fn(ctx, data)
}

// Artifact is a successfully exported document.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Flow is the signing step for one frozen record. State changes are guarded
// so a concurrent Export observes the in-progress state.
type Flow struct {
	record   model.Record
	campaign string
	exporter Exporter
	now      func() time.Time
	onBack   func(model.Record)

	mu        sync.Mutex
	view      View
	signature Signature
	state     State
	lastErr   error
	inline    string
	artifact  *Artifact
}

// NewFlow freezes a copy of rec and starts in the reviewing state on the
// agreement view.
func NewFlow(rec model.Record, opts ...Option) *Flow {
	f := &Flow{
		record:   rec.Clone(),
		campaign: DefaultCampaign,
		now:      time.Now,
		view:     ViewAgreement,
		state:    StateReviewing,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Record returns a copy of the frozen record.
func (f *Flow) Record() model.Record {
	return f.record.Clone()
}

// Campaign returns the filename prefix in use.
func (f *Flow) Campaign() string {
	return f.campaign
}

// Show switches the read view. The record is not re-validated.
func (f *Flow) Show(view View) error {
	if view != ViewAgreement && view != ViewDeclaration {
		return fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	f.mu.Lock()
	f.view = view
	f.mu.Unlock()
	return nil
}

// Sign stores the signature. The record must be complete and the signature
// non-empty.
func (f *Flow) Sign(sig Signature) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if missing := validation.MissingForDocument(f.record); len(missing) > 0 {
		f.inline = MessageIncompleteRecord
		return &IncompleteError{Missing: missing}
	}
	if sig.IsEmpty() {
		f.inline = MessageMissingSignature
		return ErrMissingSignature
	}
	f.signature = sig
	f.inline = ""
	return nil
}

// ClearSignature drops the captured signature and any previous export.
func (f *Flow) ClearSignature() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signature = Signature{}
	f.artifact = nil
	f.inline = ""
	if f.state != StateExporting {
		f.state = StateReviewing
		f.lastErr = nil
	}
}

// Data assembles the template input for the current signature and date.
func (f *Flow) Data() document.Data {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dataLocked("")
}

func (f *Flow) dataLocked(format string) document.Data {
	return document.Data{
		Record:    f.record.Clone(),
		Signature: f.signature.DataURL(),
		Date:      f.now(),
		Campaign:  f.campaign,
		Format:    format,
	}
}

// Export produces the document in the exporter's default format.
func (f *Flow) Export(ctx context.Context) (Artifact, error) {
	return f.ExportFormat(ctx, "")
}

// ExportFormat produces the document using the named converter. A failed
// export leaves the flow in the failed state and may be retried.
func (f *Flow) ExportFormat(ctx context.Context, format string) (Artifact, error) {
	f.mu.Lock()
	if f.state == StateExporting {
		f.mu.Unlock()
		return Artifact{}, ErrExportInProgress
	}
	if f.exporter == nil {
		f.mu.Unlock()
		return Artifact{}, ErrNoExporter
	}
	if missing := validation.MissingForDocument(f.record); len(missing) > 0 {
		f.inline = MessageIncompleteRecord
		f.mu.Unlock()
		return Artifact{}, &IncompleteError{Missing: missing}
	}
	if f.signature.IsEmpty() {
		f.inline = MessageMissingSignature
		f.mu.Unlock()
		return Artifact{}, ErrMissingSignature
	}

	data := f.dataLocked(format)
	exporter := f.exporter
	f.state = StateExporting
	f.inline = ""
	f.lastErr = nil
	f.mu.Unlock()

	out, err := exporter.Export(ctx, data)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateFailed
		f.lastErr = err
		f.inline = MessageExportFailed
		f.artifact = nil
		return Artifact{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	artifact := Artifact{
		Filename:    Filename(f.campaign, f.record, data.Date, out.Extension),
		ContentType: out.ContentType,
		Body:        out.Body,
	}
	f.state = StateSucceeded
	f.artifact = &artifact
	return artifact, nil
}

// Back hands the record to the on-back callback so the intake form can be
// reopened for corrections.
func (f *Flow) Back() {
	if f.onBack != nil {
		f.onBack(f.record.Clone())
	}
}

// Snapshot is the read-only state renderers consume.
type Snapshot struct {
	View      View
	State     State
	Signed    bool
	Signature string
	Message   string
	Err       error
	Filename  string
}

// Snapshot returns the current flow state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := Snapshot{
		View:      f.view,
		State:     f.state,
		Signed:    !f.signature.IsEmpty(),
		Signature: f.signature.DataURL(),
		Message:   f.inline,
		Err:       f.lastErr,
	}
	if f.artifact != nil {
		snap.Filename = f.artifact.Filename
	}
	return snap
}
