package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-claimform/pkg/intake"
	"github.com/goliatone/go-claimform/pkg/model"
	"github.com/goliatone/go-claimform/pkg/validation"
)

// RequiredMessage is the inline text attached to an empty required field.
const RequiredMessage = "This field is required."

// ErrorMapping splits an error payload into field-level and form-level
// messages keyed by catalog field name.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// Payload flattens the mapping back into a single map with form-level
// messages under the empty key, the shape RenderOptions.Errors expects.
func (m ErrorMapping) Payload() map[string][]string {
	if len(m.Fields) == 0 && len(m.Form) == 0 {
		return nil
	}
	out := make(map[string][]string, len(m.Fields)+1)
	for name, messages := range m.Fields {
		out[name] = append([]string(nil), messages...)
	}
	if len(m.Form) > 0 {
		out[""] = append([]string(nil), m.Form...)
	}
	return out
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises error payloads keyed by JSON pointer, dotted
// path or bare name. The deepest segment naming a catalog field wins; unknown
// paths become form-level errors so messages are not lost.
func MapErrorPayload(payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		name, ok := mapErrorPath(rawPath)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// IntakeErrors maps the form's recorded validation state.
func IntakeErrors(view intake.View) ErrorMapping {
	mapping := ErrorMapping{Form: normalizeMessages(view.FormErrors)}
	for name, flagged := range view.FieldErrors {
		if !flagged {
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[string(name)] = []string{RequiredMessage}
	}
	return mapping
}

// StepErrors maps a step validation failure. Other errors become a single
// form-level message.
func StepErrors(err error) ErrorMapping {
	if err == nil {
		return ErrorMapping{}
	}
	var stepErr *validation.StepError
	if !errors.As(err, &stepErr) {
		return ErrorMapping{Form: normalizeMessages([]string{err.Error()})}
	}
	mapping := ErrorMapping{
		Fields: make(map[string][]string, len(stepErr.Missing)),
		Form:   []string{validation.FormMessage},
	}
	for _, name := range stepErr.Missing {
		mapping.Fields[string(name)] = []string{RequiredMessage}
	}
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	segments := parsePathSegments(trimmed)
	for i := len(segments) - 1; i >= 0; i-- {
		if _, ok := model.LookupField(model.FieldName(segments[i])); ok {
			return segments[i], true
		}
	}
	return "", false
}

func parsePathSegments(path string) []string {
	if path == "" {
		return nil
	}

	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
