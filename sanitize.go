package auth

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	sanitizePolicy = bluemonday.StrictPolicy()
	titleCaser     = cases.Title(language.English)
)

// NormalizeEmail strips markup and whitespace and lowercases the address so
// lookups are case insensitive. Two registrations differing only in casing
// resolve to the same account.
func NormalizeEmail(email string) string {
	email = sanitizePolicy.Sanitize(email)
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName strips markup, trims whitespace, and title cases the result.
func NormalizeName(name string) string {
	name = sanitizePolicy.Sanitize(name)
	return titleCaser.String(strings.TrimSpace(name))
}
