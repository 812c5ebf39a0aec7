package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNodeBudget_Unlimited tests that a zero cap never refuses.
func TestNodeBudget_Unlimited(t *testing.T) {
	b := NewNodeBudget(0)

	for i := 0; i < 10_000; i++ {
		assert.True(t, b.Spend())
	}
	assert.Equal(t, 10_000, b.Used())
	assert.False(t, b.Exhausted())
	assert.Equal(t, 0, b.Max())
}

// TestNodeBudget_CapRefuses tests refusal past the cap.
func TestNodeBudget_CapRefuses(t *testing.T) {
	b := NewNodeBudget(3)

	for i := 0; i < 3; i++ {
		assert.True(t, b.Spend(), "spend %d should be allowed", i+1)
	}
	assert.False(t, b.Spend())
	assert.True(t, b.Exhausted())
	assert.Equal(t, 3, b.Used(), "refused spends are not counted")
}

// TestNodeBudget_ExactFitIsNotExhausted tests that a tree which fits the
// cap exactly reports no truncation.
func TestNodeBudget_ExactFitIsNotExhausted(t *testing.T) {
	b := NewNodeBudget(2)
	b.Spend()
	b.Spend()

	assert.False(t, b.Exhausted(), "only an actual refusal counts as exhaustion")
}

// TestNodeBudget_RefusalLatches tests that once refused, Spend keeps
// refusing.
func TestNodeBudget_RefusalLatches(t *testing.T) {
	b := NewNodeBudget(1)
	assert.True(t, b.Spend())
	assert.False(t, b.Spend())
	assert.False(t, b.Spend())
	assert.Equal(t, 1, b.Used())
}
