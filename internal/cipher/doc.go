// Package cipher provides the foundational value types of the solver.
//
// This package contains pure types and functions only. All other internal
// packages import cipher; cipher imports nothing internal. This keeps it
// the bottom of the dependency graph.
//
// Key design constraints:
//   - Mapping is a value type with copy-on-extend semantics; nothing in
//     this package mutates a mapping after it has been handed out
//   - Injectivity is enforced in exactly one place (Mapping.Extend)
//   - Pattern is a pure function of repetition structure, never of letter
//     identity, and carries no interning state
//   - The alphabet is the 26 ASCII letters; Normalize decides membership
package cipher
