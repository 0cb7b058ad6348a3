package validation

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// Capitalize trims s and returns it with the first letter upper-cased and the rest lower-cased.
// "  bORSCHT soup " -> "Borscht soup".
func Capitalize(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return upper.String(s[:size]) + lower.String(s[size:])
}

// RuneLen counts characters, not bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// IsSlug reports whether s is a URL-safe slug.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// IsColor reports whether s is a #RRGGBB hex color.
func IsColor(s string) bool {
	return colorPattern.MatchString(s)
}
