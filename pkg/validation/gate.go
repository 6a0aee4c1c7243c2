package validation

import (
	"errors"
	"strings"

	"github.com/goliatone/go-claimform/pkg/model"
)

// DefaultAcceptedJurisdiction is the only jurisdiction the campaign serves
// unless configured otherwise.
const DefaultAcceptedJurisdiction = "CA"

// ErrIneligible is returned when the record's jurisdiction is not accepted.
var ErrIneligible = errors.New("validation: claimant not eligible")

// Gate is the eligibility rule evaluated once at final submission.
type Gate struct {
	accepted string
}

// NewGate builds a gate for the given jurisdiction code. An empty code falls
// back to DefaultAcceptedJurisdiction.
func NewGate(code string) Gate {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultAcceptedJurisdiction
	}
	return Gate{accepted: code}
}

// Accepted returns the jurisdiction code the gate lets through.
func (g Gate) Accepted() string {
	if g.accepted == "" {
		return DefaultAcceptedJurisdiction
	}
	return g.accepted
}

// Eligible reports whether the record's state equals the accepted code.
func (g Gate) Eligible(rec model.Record) bool {
	return rec.State != "" && rec.State == g.Accepted()
}

// Check returns ErrIneligible when Eligible is false.
func (g Gate) Check(rec model.Record) error {
	if !g.Eligible(rec) {
		return ErrIneligible
	}
	return nil
}
