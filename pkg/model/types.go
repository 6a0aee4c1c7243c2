package model

// FieldName identifies a single Intake Record field. Values match the JSON
// keys used on the wire and in HTML form posts.
type FieldName string

const (
	FieldFirstName             FieldName = "firstName"
	FieldLastName              FieldName = "lastName"
	FieldIsOver18              FieldName = "isOver18"
	FieldAddress               FieldName = "address"
	FieldAptSuite              FieldName = "aptSuite"
	FieldCity                  FieldName = "city"
	FieldState                 FieldName = "state"
	FieldZipCode               FieldName = "zipCode"
	FieldHasPersonalKnowledge  FieldName = "hasPersonalKnowledge"
	FieldCanTestify            FieldName = "canTestify"
	FieldHadAccount            FieldName = "hadAccount"
	FieldAcceptedAgreement     FieldName = "acceptedAgreement"
	FieldProvidedInfo          FieldName = "providedInfo"
	FieldTrustedSecurity       FieldName = "trustedSecurity"
	FieldBelievesBreached      FieldName = "believesBreached"
	FieldRetainedFirm          FieldName = "retainedFirm"
	FieldUnderstandsLitigation FieldName = "understandsLitigation"
	FieldAuthorizesComms       FieldName = "authorizesComms"
	FieldDeclaresUnderPenalty  FieldName = "declaresUnderPenalty"
)

// FieldKind is the simplified enum for how a field is collected.
type FieldKind string

const (
	FieldKindText         FieldKind = "text"
	FieldKindAnswer       FieldKind = "answer"
	FieldKindJurisdiction FieldKind = "jurisdiction"
)

// Field models an individual question inside the intake questionnaire. Struct
// fields are annotated so renderers can serialise them directly when needed.
type Field struct {
	Name        FieldName `json:"name"`
	Kind        FieldKind `json:"kind"`
	Required    bool      `json:"required"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// Step groups the fields collected on one page of the questionnaire.
type Step struct {
	// Index is 1-based to match what claimants see in the progress indicator.
	Index  int         `json:"index"`
	Label  string      `json:"label"`
	Fields []FieldName `json:"fields"`
}

// Required returns the step's required fields in display order.
func (s Step) Required() []FieldName {
	out := make([]FieldName, 0, len(s.Fields))
	for _, name := range s.Fields {
		if field, ok := LookupField(name); ok && field.Required {
			out = append(out, name)
		}
	}
	return out
}

// Contains reports whether the step owns the named field.
func (s Step) Contains(name FieldName) bool {
	for _, candidate := range s.Fields {
		if candidate == name {
			return true
		}
	}
	return false
}
