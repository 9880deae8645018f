package utils

import (
	"regexp"
	"strings"
)

// emailRegex accepts local@domain.tld with a 2+ character TLD.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// ValidateEmail reports whether email has a plausible local@domain.tld shape.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.ToLower(strings.TrimSpace(email)))
}
