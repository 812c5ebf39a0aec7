// Package render reapplies a resolution table to the original ciphertext.
package render

import (
	"strings"

	"github.com/PolvanHoften/generalsub/internal/cipher"
)

// DefaultPlaceholder marks ambiguous letters in rendered output.
const DefaultPlaceholder = '_'

// Apply substitutes a solved table back into the original mixed-case
// text. ASCII letters are looked up by verdict:
//
//   - Certain letters substitute, preserving the original case
//   - Ambiguous letters emit the placeholder rune
//   - Unknown letters pass through unchanged
//
// Every other rune - digits, punctuation, whitespace, non-ASCII - is
// copied verbatim, so the text's layout survives the round trip. The
// placeholder itself carries no case.
//
// Encrypt mode uses the same function: a complete key converted with
// Mapping.Table is just a table with 26 certain entries.
func Apply(original string, table cipher.Table, placeholder rune) string {
	var b strings.Builder
	b.Grow(len(original))

	for _, r := range original {
		var c byte
		var upper bool
		switch {
		case r >= 'a' && r <= 'z':
			c = byte(r)
		case r >= 'A' && r <= 'Z':
			c, upper = byte(r)+'a'-'A', true
		default:
			b.WriteRune(r)
			continue
		}

		switch res := table.Lookup(c); res.Verdict {
		case cipher.Certain:
			if upper {
				b.WriteByte(res.Plain - ('a' - 'A'))
			} else {
				b.WriteByte(res.Plain)
			}
		case cipher.Ambiguous:
			b.WriteRune(placeholder)
		default:
			// Unknown: the ciphertext letter shows through.
			b.WriteRune(r)
		}
	}

	return b.String()
}
