package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize builds the aggressive comparison key: lowercase, accents
// stripped, dashes/underscores and all whitespace removed. "Ford F‑250"
// and "fordf250" collapse to the same key.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s, _, _ = transform.String(stripAccents, s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '_' || unicode.IsSpace(r) || unicode.Is(unicode.Pd, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeSpaces builds the lighter key: lowercase, accents stripped,
// whitespace runs collapsed to single spaces. Word boundaries survive, so
// keys built this way still match range names saved before the aggressive
// form existed.
func NormalizeSpaces(s string) string {
	s = strings.ToLower(s)
	s, _, _ = transform.String(stripAccents, s)
	return strings.Join(strings.Fields(s), " ")
}
