package engine

import (
	"context"
	"math/bits"

	"github.com/PolvanHoften/generalsub/internal/cipher"
)

// Aggregator is the terminal Receiver. It folds every mapping that
// survives the whole chain into per-letter proposal sets, then finalizes
// them into a resolution table after the traversal has unwound.
//
// An Aggregator is single-use: one solve, one Finalize. It is not safe
// for concurrent use and does not need to be - the synchronous traversal
// is the only thing that reaches it.
type Aggregator struct {
	proposals [26]uint32 // bitmask of proposed plain letters per cipher letter
	mappings  int        // surviving decompositions observed
	finalized bool
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Receive implements Receiver. Observation ORs the mapping's pairs into
// the per-letter masks, so observing the same decomposition twice is
// idempotent on the sets (only the diagnostic count moves).
//
// Receiving after Finalize panics: the chain must be done before anyone
// finalizes, so a late observation is a programming error.
func (a *Aggregator) Receive(ctx context.Context, m cipher.Mapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.finalized {
		panic("aggregator: observation after Finalize")
	}

	a.mappings++
	m.Pairs(func(c, p byte) {
		a.proposals[c-'a'] |= 1 << (p - 'a')
	})
	return nil
}

// Mappings returns how many surviving decompositions reached the
// aggregator. Zero means the dictionary could not explain the puzzle at
// all (or the budget cut the traversal before anything survived).
func (a *Aggregator) Mappings() int {
	return a.mappings
}

// Finalize resolves every letter from its proposal set: no proposals is
// Unknown, exactly one is Certain, several is Ambiguous.
//
// Finalize may be called exactly once; a second call panics. This is a
// programming error, not a recoverable condition - the traversal drives
// the aggregator, and it finalizes a solve exactly once.
func (a *Aggregator) Finalize() cipher.Table {
	if a.finalized {
		panic("aggregator: Finalize called twice")
	}
	a.finalized = true

	var table cipher.Table
	for i := 0; i < 26; i++ {
		mask := a.proposals[i]
		switch bits.OnesCount32(mask) {
		case 0:
			// Zero Resolution is already Unknown.
		case 1:
			p := byte('a' + bits.TrailingZeros32(mask))
			table[i] = cipher.Resolution{Verdict: cipher.Certain, Plain: p, Proposals: string(p)}
		default:
			table[i] = cipher.Resolution{Verdict: cipher.Ambiguous, Proposals: maskLetters(mask)}
		}
	}
	return table
}

// maskLetters renders a proposal mask as its letters in alphabetical
// order.
func maskLetters(mask uint32) string {
	buf := make([]byte, 0, bits.OnesCount32(mask))
	for i := 0; i < 26; i++ {
		if mask&(1<<i) != 0 {
			buf = append(buf, byte('a'+i))
		}
	}
	return string(buf)
}
