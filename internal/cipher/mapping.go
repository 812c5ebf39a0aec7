package cipher

import (
	"math/rand/v2"
	"strings"
)

// Mapping is a partial injective function from cipher letters to plain
// letters. The zero value is the empty mapping.
//
// Mapping is a value type with copy-on-extend semantics: Extend returns a
// modified copy and never mutates its receiver, so a mapping forwarded to
// another component cannot change underneath it. Injectivity, meaning no
// two cipher letters share a plain letter, is enforced here and only here.
type Mapping struct {
	to      [26]byte // plain letter for cipher letter i, 0 = unmapped
	claimed [26]bool // plain letters already the image of some cipher letter
}

// Get returns the plain letter mapped to cipher letter c, if any.
func (m Mapping) Get(c byte) (byte, bool) {
	p := m.to[c-'a']
	return p, p != 0
}

// Claimed reports whether plain letter p is already the image of some
// cipher letter.
func (m Mapping) Claimed(p byte) bool {
	return m.claimed[p-'a']
}

// Len returns the number of mapped cipher letters.
func (m Mapping) Len() int {
	n := 0
	for i := 0; i < 26; i++ {
		if m.to[i] != 0 {
			n++
		}
	}
	return n
}

// Complete reports whether every cipher letter is mapped (a full key).
func (m Mapping) Complete() bool {
	return m.Len() == 26
}

// Extend returns a copy of m with cipher→plain added. ok is false when the
// assignment conflicts: the cipher letter already maps to a different
// plain letter, or the plain letter is already claimed by a different
// cipher letter. Re-asserting an existing pair succeeds and returns m
// unchanged.
func (m Mapping) Extend(cipher, plain byte) (Mapping, bool) {
	ci, pi := cipher-'a', plain-'a'
	if cur := m.to[ci]; cur != 0 {
		return m, cur == plain
	}
	if m.claimed[pi] {
		return m, false
	}
	m.to[ci] = plain
	m.claimed[pi] = true
	return m, true
}

// Pairs calls fn for every mapped (cipher, plain) pair in cipher-letter
// order. Iteration order is deterministic by construction.
func (m Mapping) Pairs(fn func(cipher, plain byte)) {
	for i := 0; i < 26; i++ {
		if m.to[i] != 0 {
			fn(byte('a'+i), m.to[i])
		}
	}
}

// Table converts the mapping into an all-certain resolution table: mapped
// letters resolve to their image, unmapped letters stay Unknown. Encrypt
// mode uses this to render with a full random key in place of a solved
// table.
func (m Mapping) Table() Table {
	var t Table
	for i := 0; i < 26; i++ {
		if p := m.to[i]; p != 0 {
			t[i] = Resolution{Verdict: Certain, Plain: p, Proposals: string(p)}
		}
	}
	return t
}

// String renders the mapped pairs as "a:q b:w ...", for logs and verbose
// key display. The empty mapping renders as "(empty)".
func (m Mapping) String() string {
	var b strings.Builder
	for i := 0; i < 26; i++ {
		if m.to[i] == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte('a' + i))
		b.WriteByte(':')
		b.WriteByte(m.to[i])
	}
	if b.Len() == 0 {
		return "(empty)"
	}
	return b.String()
}

// RandomKey returns a uniformly random complete bijection over the
// alphabet. The caller supplies the source so encrypt runs can be seeded
// reproducibly.
func RandomKey(r *rand.Rand) Mapping {
	var m Mapping
	for i, p := range r.Perm(26) {
		m.to[i] = byte('a' + p)
		m.claimed[p] = true
	}
	return m
}
