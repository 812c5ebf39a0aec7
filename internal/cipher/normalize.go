package cipher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize reduces a token to the form the solver reasons about:
// lowercase ASCII letters with everything else dropped. Digits,
// punctuation, whitespace, and non-ASCII runes are removed, not replaced.
//
// Normalize is idempotent and total: the empty string and tokens with no
// letters normalize to "". Both ciphertext tokens and dictionary lines go
// through this exact function, so the two sides can never disagree on
// alphabet membership.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// foldMarks decomposes runes (NFD), strips the combining marks, and
// recomposes (NFC), so an accented letter folds to its base letter instead
// of being dropped entirely by Normalize.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold converts accented letters to their unaccented base form, so that
// "naïve" normalizes to "naive" rather than "nave". Folding is an explicit
// dictionary-loading option, never applied implicitly: a puzzle and its
// dictionary must be folded (or not) together.
//
// Runes the transform cannot handle are left for Normalize to drop; Fold
// itself never fails.
func Fold(s string) string {
	out, _, err := transform.String(foldMarks, s)
	if err != nil {
		return s
	}
	return out
}
