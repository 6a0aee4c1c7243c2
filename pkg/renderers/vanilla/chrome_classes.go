package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassBody     ChromeClass = "claimform"
	ClassHeader   ChromeClass = "claimform-header"
	ClassNav      ChromeClass = "claimform-nav"
	ClassSection  ChromeClass = "claimform-section"
	ClassForm     ChromeClass = "claimform-form"
	ClassFieldset ChromeClass = "claimform-fieldset"
	ClassActions  ChromeClass = "claimform-actions"
	ClassErrors   ChromeClass = "claimform-errors"
	ClassDocument ChromeClass = "claimform-document"
	ClassFooter   ChromeClass = "claimform-footer"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"body":     string(ClassBody),
		"header":   string(ClassHeader),
		"nav":      string(ClassNav),
		"section":  string(ClassSection),
		"form":     string(ClassForm),
		"fieldset": string(ClassFieldset),
		"actions":  string(ClassActions),
		"errors":   string(ClassErrors),
		"document": string(ClassDocument),
		"footer":   string(ClassFooter),
	}
}
