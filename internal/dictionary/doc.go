// Package dictionary turns a word list into the pattern-keyed candidate
// index the solver searches.
//
// A Source supplies raw dictionary lines and can be reopened, so every
// build is a fresh scan. BuildIndex normalizes each line, classifies it,
// and keeps only the words whose pattern the puzzle actually needs; the
// resulting Index is read-only and proportional to the puzzle, not the
// dictionary.
//
// Cache is an optional SQLite layer that stores every normalized word with
// its signature once per dictionary file, fingerprinted by size and mtime,
// so repeated runs skip the normalize-and-classify scan and load buckets
// with indexed queries instead.
package dictionary
