package utils

import (
	"github.com/microcosm-cc/bluemonday"
)

// journalPolicy reduces rich text to a small allowlist of formatting tags.
// No attributes are allowed on any element.
var journalPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "p", "br")
	return p
}()

// SanitizeRichText strips everything from user-supplied HTML except basic
// formatting tags (b, i, em, strong, p, br).
func SanitizeRichText(content string) string {
	return journalPolicy.Sanitize(content)
}
