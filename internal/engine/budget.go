package engine

// NodeBudget bounds the number of mappings forwarded through the chain in
// one solve.
//
// The budget exists for pathological inputs: a puzzle of short words with
// common patterns over a large dictionary has a decomposition tree far
// beyond any useful size. Exhaustion truncates the traversal - stages stop
// forwarding - but the solve still finalizes with whatever the aggregator
// saw. Truncation is reported on the result, not as an error: a partial
// table is a useful answer, an aborted run is not.
//
// Each solve gets its own NodeBudget; it is driven only by the
// single-threaded traversal and needs no locking.
type NodeBudget struct {
	max     int // 0 or negative means unlimited
	used    int
	refused bool
}

// NewNodeBudget creates a budget with the given cap.
// max <= 0 means unlimited.
func NewNodeBudget(max int) *NodeBudget {
	return &NodeBudget{max: max}
}

// Spend consumes one node and reports whether the caller may forward.
// Once Spend refuses it keeps refusing, so the remaining traversal winds
// down without forwarding anything further.
func (b *NodeBudget) Spend() bool {
	if b.max > 0 && b.used >= b.max {
		b.refused = true
		return false
	}
	b.used++
	return true
}

// Used returns the number of nodes spent.
// Used for logging and diagnostics.
func (b *NodeBudget) Used() int {
	return b.used
}

// Exhausted reports whether any forward was refused. False when the tree
// fit exactly within the cap.
func (b *NodeBudget) Exhausted() bool {
	return b.refused
}

// Max returns the configured cap; 0 means unlimited.
// Used for logging and diagnostics.
func (b *NodeBudget) Max() int {
	return b.max
}
