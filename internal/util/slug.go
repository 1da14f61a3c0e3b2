package util

import (
	"strings"
	"unicode"
)

// Slugify lowercases a name and collapses every run of non-alphanumeric
// characters into a single hyphen. "Ashwagandha Root (500g)" -> "ashwagandha-root-500g".
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
