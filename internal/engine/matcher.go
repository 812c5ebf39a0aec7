package engine

import (
	"github.com/PolvanHoften/generalsub/internal/cipher"
)

// admit decides whether candidate can decrypt word under the inbound
// mapping, and derives the extension that makes it so.
//
// Position by position:
//  1. A cipher letter that is already mapped must map to exactly the
//     candidate's letter at that position
//  2. An unmapped cipher letter must not require a plain letter already
//     claimed by a different cipher letter (injectivity)
//  3. On success the extension binds every previously unmapped position
//
// admit never mutates m; the returned mapping is an extended copy.
//
// Callers guarantee len(word) == len(candidate): the index only hands out
// same-pattern candidates, which are same-length by construction.
func admit(m cipher.Mapping, word, candidate string) (cipher.Mapping, bool) {
	ext := m
	for i := 0; i < len(word); i++ {
		var ok bool
		ext, ok = ext.Extend(word[i], candidate[i])
		if !ok {
			return cipher.Mapping{}, false
		}
	}
	return ext, true
}
