package model

import (
	"fmt"
	"strings"
)

// Record is the Intake Record: the flat set of claimant answers collected by
// the questionnaire. The zero value is the initial empty record.
type Record struct {
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	IsOver18              Answer `json:"isOver18"`
	Address               string `json:"address"`
	AptSuite              string `json:"aptSuite"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	ZipCode               string `json:"zipCode"`
	HasPersonalKnowledge  Answer `json:"hasPersonalKnowledge"`
	CanTestify            Answer `json:"canTestify"`
	HadAccount            Answer `json:"hadAccount"`
	AcceptedAgreement     Answer `json:"acceptedAgreement"`
	ProvidedInfo          Answer `json:"providedInfo"`
	TrustedSecurity       Answer `json:"trustedSecurity"`
	BelievesBreached      Answer `json:"believesBreached"`
	RetainedFirm          Answer `json:"retainedFirm"`
	UnderstandsLitigation Answer `json:"understandsLitigation"`
	AuthorizesComms       Answer `json:"authorizesComms"`
	DeclaresUnderPenalty  Answer `json:"declaresUnderPenalty"`
}

func (r *Record) text(name FieldName) (*string, bool) {
	switch name {
	case FieldFirstName:
		return &r.FirstName, true
	case FieldLastName:
		return &r.LastName, true
	case FieldAddress:
		return &r.Address, true
	case FieldAptSuite:
		return &r.AptSuite, true
	case FieldCity:
		return &r.City, true
	case FieldState:
		return &r.State, true
	case FieldZipCode:
		return &r.ZipCode, true
	}
	return nil, false
}

func (r *Record) answer(name FieldName) (*Answer, bool) {
	switch name {
	case FieldIsOver18:
		return &r.IsOver18, true
	case FieldHasPersonalKnowledge:
		return &r.HasPersonalKnowledge, true
	case FieldCanTestify:
		return &r.CanTestify, true
	case FieldHadAccount:
		return &r.HadAccount, true
	case FieldAcceptedAgreement:
		return &r.AcceptedAgreement, true
	case FieldProvidedInfo:
		return &r.ProvidedInfo, true
	case FieldTrustedSecurity:
		return &r.TrustedSecurity, true
	case FieldBelievesBreached:
		return &r.BelievesBreached, true
	case FieldRetainedFirm:
		return &r.RetainedFirm, true
	case FieldUnderstandsLitigation:
		return &r.UnderstandsLitigation, true
	case FieldAuthorizesComms:
		return &r.AuthorizesComms, true
	case FieldDeclaresUnderPenalty:
		return &r.DeclaresUnderPenalty, true
	}
	return nil, false
}

// Set assigns a value to the named field. Text values are trimmed; answers
// must parse as yes, no or empty.
func (r *Record) Set(name FieldName, value string) error {
	if target, ok := r.text(name); ok {
		*target = strings.TrimSpace(value)
		return nil
	}
	if target, ok := r.answer(name); ok {
		answer, err := ParseAnswer(value)
		if err != nil {
			return fmt.Errorf("model: set %s: %w", name, err)
		}
		*target = answer
		return nil
	}
	return fmt.Errorf("model: set %q: %w", name, ErrUnknownField)
}

// Value returns the stored value of the named field as a string.
func (r Record) Value(name FieldName) (string, bool) {
	if target, ok := r.text(name); ok {
		return *target, true
	}
	if target, ok := r.answer(name); ok {
		return target.String(), true
	}
	return "", false
}

// IsEmpty reports whether the named field holds no value. Unknown fields read
// as empty.
func (r Record) IsEmpty(name FieldName) bool {
	value, _ := r.Value(name)
	return value == ""
}

// Values flattens the record into a field name keyed map.
func (r Record) Values() map[FieldName]string {
	out := make(map[FieldName]string, len(fieldCatalog))
	for _, field := range fieldCatalog {
		value, _ := r.Value(field.Name)
		out[field.Name] = value
	}
	return out
}

// Clone returns an independent copy. Record only holds value types, so a
// plain copy suffices today; callers should still go through Clone.
func (r Record) Clone() Record {
	return r
}

// IsZero reports whether the record equals the initial empty record.
func (r Record) IsZero() bool {
	return r == Record{}
}

// FullName joins first and last name with a single space.
func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// CityLine renders "city, state zip" for address blocks.
func (r Record) CityLine() string {
	line := r.City
	if r.State != "" {
		if line != "" {
			line += ", "
		}
		line += r.State
	}
	if r.ZipCode != "" {
		if line != "" {
			line += " "
		}
		line += r.ZipCode
	}
	return line
}
