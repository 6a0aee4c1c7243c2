package model

import "fmt"

// StepCount is the fixed number of questionnaire pages.
const StepCount = 3

var fieldCatalog = []Field{
	{Name: FieldFirstName, Kind: FieldKindText, Required: true, Label: "First Name"},
	{Name: FieldLastName, Kind: FieldKindText, Required: true, Label: "Last Name"},
	{Name: FieldIsOver18, Kind: FieldKindAnswer, Required: true, Label: "Are you over 18 years of age?"},
	{Name: FieldAddress, Kind: FieldKindText, Required: true, Label: "Street Address"},
	{Name: FieldAptSuite, Kind: FieldKindText, Required: false, Label: "Apt/Suite (optional)"},
	{Name: FieldCity, Kind: FieldKindText, Required: true, Label: "City"},
	{Name: FieldState, Kind: FieldKindJurisdiction, Required: true, Label: "State", Placeholder: "Select a state"},
	{Name: FieldZipCode, Kind: FieldKindText, Required: true, Label: "ZIP Code"},
	{
		Name:     FieldHasPersonalKnowledge,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Do you have personal knowledge of the facts related to your HealthEquity account and the events surrounding this matter?",
	},
	{
		Name:     FieldCanTestify,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Could you testify competently about the facts of this case if required?",
	},
	{
		Name:     FieldHadAccount,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Did you hold an account under the custodianship of HealthEquity, Inc. or one for which HealthEquity served as the administrator before March 25, 2024?",
	},
	{
		Name:     FieldAcceptedAgreement,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Were you required to consent to and accept HealthEquity's Custodial Agreement to access your account?",
	},
	{
		Name:     FieldProvidedInfo,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Did you provide any personal information to HealthEquity through your account (e.g., sensitive details, financial info)?",
	},
	{
		Name:     FieldTrustedSecurity,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Did you believe and trust that the personal information you shared with HealthEquity would be kept secure and confidential?",
	},
	{
		Name:     FieldBelievesBreached,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Do you believe your personal information was accessed or disclosed during the data breach that HealthEquity publicly announced in July and August 2024?",
	},
	{
		Name:     FieldRetainedFirm,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Have you retained the legal firm of Legal Injury Advocates to investigate if your personal information was disclosed in this breach and, if so, to pursue a recovery on your behalf?",
	},
	{
		Name:     FieldUnderstandsLitigation,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Do you understand that this course of action may involve litigation or arbitration, and that Legal Injury Advocates might file a petition to compel HealthEquity to arbitrate your claims according to the Custodial Agreement?",
	},
	{
		Name:     FieldAuthorizesComms,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Do you authorize Legal Injury Advocates to communicate with HealthEquity and their legal team on your behalf about your personal information and the details of the data breach?",
	},
	{
		Name:     FieldDeclaresUnderPenalty,
		Kind:     FieldKindAnswer,
		Required: true,
		Label:    "Do you declare that the information you've provided is true and correct, and acknowledge that this declaration is made under penalty of perjury according to U.S. and California law?",
	},
}

var stepCatalog = []Step{
	{
		Index: 1,
		Label: "Personal Information",
		Fields: []FieldName{
			FieldFirstName, FieldLastName, FieldIsOver18, FieldAddress, FieldAptSuite,
			FieldCity, FieldState, FieldZipCode, FieldHasPersonalKnowledge, FieldCanTestify,
		},
	},
	{
		Index: 2,
		Label: "Account Details",
		Fields: []FieldName{
			FieldHadAccount, FieldAcceptedAgreement, FieldProvidedInfo,
			FieldTrustedSecurity, FieldBelievesBreached,
		},
	},
	{
		Index: 3,
		Label: "Legal Authorization",
		Fields: []FieldName{
			FieldRetainedFirm, FieldUnderstandsLitigation, FieldAuthorizesComms,
			FieldDeclaresUnderPenalty,
		},
	},
}

var fieldIndex = func() map[FieldName]Field {
	out := make(map[FieldName]Field, len(fieldCatalog))
	for _, field := range fieldCatalog {
		out[field.Name] = field
	}
	return out
}()

// Fields returns a copy of the full field catalog in questionnaire order.
func Fields() []Field {
	out := make([]Field, len(fieldCatalog))
	copy(out, fieldCatalog)
	return out
}

// LookupField resolves a field definition by name.
func LookupField(name FieldName) (Field, bool) {
	field, ok := fieldIndex[name]
	return field, ok
}

// Steps returns the ordered step definitions. Callers receive copies so the
// catalog cannot be mutated from outside the package.
func Steps() []Step {
	out := make([]Step, 0, len(stepCatalog))
	for _, step := range stepCatalog {
		out = append(out, cloneStep(step))
	}
	return out
}

// StepAt returns the definition for a 1-based step index.
func StepAt(index int) (Step, error) {
	if index < 1 || index > len(stepCatalog) {
		return Step{}, fmt.Errorf("model: step %d out of range 1..%d", index, len(stepCatalog))
	}
	return cloneStep(stepCatalog[index-1]), nil
}

// StepOf returns the step that owns the named field.
func StepOf(name FieldName) (Step, bool) {
	for _, step := range stepCatalog {
		if step.Contains(name) {
			return cloneStep(step), true
		}
	}
	return Step{}, false
}

// Progress reports how far along the questionnaire the given step is, as a
// percentage where step 1 is 0 and the final step is 100.
func Progress(index int) int {
	if index <= 1 {
		return 0
	}
	if index >= len(stepCatalog) {
		return 100
	}
	return (index - 1) * 100 / (len(stepCatalog) - 1)
}

func cloneStep(step Step) Step {
	fields := make([]FieldName, len(step.Fields))
	copy(fields, step.Fields)
	step.Fields = fields
	return step
}
