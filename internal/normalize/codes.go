package normalize

import (
	"regexp"
	"strings"
)

var nonCodeChars = regexp.MustCompile(`[^A-Z0-9.]`)

// NormalizeCode trims whitespace, uppercases, and strips everything but
// letters, digits and the decimal point from a raw diagnosis token.
// Returns nil if the input is nil or the result is empty.
func NormalizeCode(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	s = strings.ToUpper(s)
	s = nonCodeChars.ReplaceAllString(s, "")
	if s == "" {
		return nil
	}
	return &s
}
