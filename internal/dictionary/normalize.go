package dictionary

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey is the canonical form of a dictionary key or query: NFKC
// normalised, lowercased, trimmed, with inner whitespace runs collapsed to
// a single space.
func NormalizeKey(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// foldKey strips combining marks from an already normalised key. Fuzzy
// indexes are built over folded keys so "cafe" and "café" score as equal.
func foldKey(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}
