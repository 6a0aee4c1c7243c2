package document

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Sanitize restricts markup to the document vocabulary: headings, paragraphs,
// lists, emphasis, line breaks, layout divs and data URI images.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(documentSanitizer().Sanitize(trimmed))
}

func documentSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements(
			"h1", "h2", "h3", "h4", "p", "ul", "ol", "li",
			"strong", "b", "em", "i", "br", "div",
		)

		policy.AllowAttrs("class").
			Matching(regexp.MustCompile(`^(page-break|agreement|declaration|document|contact|address|signature|date)$`)).
			OnElements("div", "p")

		policy.AllowImages()
		policy.AllowDataURIImages()
		policy.RequireParseableURLs(true)

		markupPolicy = policy
	})
	return markupPolicy
}
