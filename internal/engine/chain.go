package engine

import (
	"context"

	"github.com/PolvanHoften/generalsub/internal/cipher"
)

// Receiver consumes partial mappings flowing down the chain. Stages and
// the aggregator both implement it. The only error a Receive may return
// is the context's, which unwinds the whole traversal.
type Receiver interface {
	Receive(ctx context.Context, m cipher.Mapping) error
}

// stage is one chain link. It owns one distinct ciphertext word and that
// word's candidate bucket; receiving a mapping fans out over the
// admissible candidates and forwards one extension per hit.
//
// A stage with an empty bucket relays the inbound mapping unchanged: an
// out-of-dictionary word must not sever the chain for the words that can
// be explained. Its letters simply stay unresolved unless other words
// constrain them.
type stage struct {
	word       string   // normalized ciphertext word
	candidates []string // pattern bucket, dictionary order
	next       Receiver
	budget     *NodeBudget
}

// Receive implements Receiver. Fan-out is synchronous and depth-first:
// each forwarded extension fully explores its subtree before the next
// candidate is tried. The inbound mapping is never retained or modified.
//
// Budget is spent per forwarded extension; once refused, the stage stops
// forwarding and the traversal winds down. Relaying an empty bucket is
// free - a 1:1 forward cannot grow the tree.
func (s *stage) Receive(ctx context.Context, m cipher.Mapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(s.candidates) == 0 {
		return s.next.Receive(ctx, m)
	}

	for _, candidate := range s.candidates {
		ext, ok := admit(m, s.word, candidate)
		if !ok {
			continue
		}
		if !s.budget.Spend() {
			return nil
		}
		if err := s.next.Receive(ctx, ext); err != nil {
			return err
		}
	}
	return nil
}

// buildChain wires one stage per word around the aggregator. Iterating
// the descending-candidate-count order wraps the aggregator with the
// fattest bucket first, which leaves the leanest bucket as the entry
// stage: the most constrained words are evaluated first and the highest
// fan-out happens last, directly before aggregation. Performance only -
// the resolution table is order-independent.
func buildChain(words []*CipherWord, agg *Aggregator, budget *NodeBudget) Receiver {
	var head Receiver = agg
	for _, w := range words {
		head = &stage{word: w.Word, candidates: w.Candidates, next: head, budget: budget}
	}
	return head
}
