// Package slug derives URL-safe site slugs from free-text company names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes characters and drops combining marks, so Portuguese
// names like "Padaria São João" slugify cleanly.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make normalizes name into a lowercase, hyphen-separated slug. Returns an
// empty string when nothing usable remains.
func Make(name string) string {
	flat, _, err := transform.String(stripAccents, name)
	if err != nil {
		flat = name
	}
	flat = strings.ToLower(flat)

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range flat {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return s != "" && s == Make(s)
}
