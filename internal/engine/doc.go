// Package engine implements the constraint-propagation search at the core
// of generalsub.
//
// ARCHITECTURE:
//
// Stage Chain:
// The solver builds one stage per distinct ciphertext word and wires the
// stages into a chain that ends at the aggregator. A stage receives a
// partial mapping, tries every candidate in its pattern bucket, and
// forwards one extended mapping per admissible candidate. Delivering a
// single empty mapping to the entry stage therefore walks the entire
// decomposition tree.
//
// Traversal:
//  1. Tokens are normalized, deduplicated, and classified
//  2. Words are sorted by descending candidate count; the chain is built
//     so the fattest bucket sits nearest the aggregator and the most
//     constrained words are evaluated first
//  3. The empty mapping enters the chain; fan-out is synchronous and
//     depth-first - the call stack is the scheduler
//  4. After the traversal unwinds, the aggregator finalizes exactly once
//
// The engine is designed for correctness and determinism, not throughput.
// The traversal is strictly single-threaded: no goroutines, no locks, no
// shared mutable state. Mappings are immutable values; stages never retain
// or modify what they receive. Callers may run independent solves
// concurrently because the candidate index is read-only and everything
// else is per-run.
//
// No wall clock anywhere in the search: a solve's outcome is a pure
// function of tokens, dictionary, and budget.
package engine
