package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify turns a title or tag into a URL path segment. Letters of every script survive;
// accents are stripped, punctuation is dropped, and runs of spaces and dashes collapse
// into one dash.
func Slugify(s string) string {
	s = norm.NFKD.String(strings.ToLower(strings.TrimSpace(s)))

	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingDash = true
		}
	}
	return b.String()
}
