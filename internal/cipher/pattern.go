package cipher

import (
	"strconv"
	"strings"
)

// Pattern is the isomorphism signature of a word: the sequence of
// first-occurrence ranks of its letters, one rank per character. "llama"
// has pattern 1.1.2.3.2 - it captures the structure of repetitions and
// nothing about letter identity. Two words share a Pattern exactly when
// some injective letter substitution maps one onto the other, which is
// what makes the pattern the index key for candidate lookup.
//
// The representation is the raw rank bytes, so Pattern is directly usable
// as a map key with no interning table. Use String for the display form.
type Pattern string

// PatternOf computes the Pattern of a normalized word in a single scan:
// each letter seen for the first time is assigned the next unused rank,
// and repeated letters reuse their rank. Pure function, no shared state.
//
// The input must be Normalize output; bytes outside 'a'..'z' panic.
func PatternOf(word string) Pattern {
	if word == "" {
		return ""
	}
	var ranks [26]byte
	buf := make([]byte, len(word))
	next := byte(0)
	for i := 0; i < len(word); i++ {
		idx := word[i] - 'a'
		if ranks[idx] == 0 {
			next++
			ranks[idx] = next
		}
		buf[i] = ranks[idx]
	}
	return Pattern(buf)
}

// String renders the dotted display form, e.g. "1.1.2.3.2".
func (p Pattern) String() string {
	if p == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(int(p[i])))
	}
	return b.String()
}

// Distinct returns the number of distinct letters in any word with this
// pattern (the highest rank).
func (p Pattern) Distinct() int {
	max := byte(0)
	for i := 0; i < len(p); i++ {
		if p[i] > max {
			max = p[i]
		}
	}
	return int(max)
}
