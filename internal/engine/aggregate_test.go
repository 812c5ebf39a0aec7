package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolvanHoften/generalsub/internal/cipher"
)

func observe(t *testing.T, a *Aggregator, pairs ...byte) {
	t.Helper()
	var m cipher.Mapping
	for i := 0; i+1 < len(pairs); i += 2 {
		var ok bool
		m, ok = m.Extend(pairs[i], pairs[i+1])
		require.True(t, ok)
	}
	require.NoError(t, a.Receive(context.Background(), m))
}

func TestAggregator_SingleMappingIsCertain(t *testing.T) {
	a := NewAggregator()
	observe(t, a, 'x', 'd', 'y', 'o')

	table := a.Finalize()

	res := table.Lookup('x')
	assert.Equal(t, cipher.Certain, res.Verdict)
	assert.Equal(t, byte('d'), res.Plain)
	assert.Equal(t, "d", res.Proposals)

	assert.Equal(t, cipher.Unknown, table.Lookup('z').Verdict)
	assert.Equal(t, 1, a.Mappings())
}

func TestAggregator_DisagreementIsAmbiguous(t *testing.T) {
	a := NewAggregator()
	observe(t, a, 'x', 'd')
	observe(t, a, 'x', 'c')

	table := a.Finalize()

	res := table.Lookup('x')
	assert.Equal(t, cipher.Ambiguous, res.Verdict)
	assert.Equal(t, byte(0), res.Plain, "ambiguous letters carry no single plain letter")
	assert.Equal(t, "cd", res.Proposals, "proposals are sorted alphabetically")
}

func TestAggregator_AgreementAcrossMappingsStaysCertain(t *testing.T) {
	a := NewAggregator()
	observe(t, a, 'x', 'd', 'y', 'o')
	observe(t, a, 'x', 'd', 'y', 'a')

	table := a.Finalize()

	assert.Equal(t, cipher.Certain, table.Lookup('x').Verdict)
	assert.Equal(t, cipher.Ambiguous, table.Lookup('y').Verdict)
	assert.Equal(t, "ao", table.Lookup('y').Proposals)
}

func TestAggregator_NoObservationsAllUnknown(t *testing.T) {
	a := NewAggregator()
	table := a.Finalize()

	certain, ambiguous, unknown := table.Counts()
	assert.Equal(t, 0, certain)
	assert.Equal(t, 0, ambiguous)
	assert.Equal(t, 26, unknown)
	assert.Equal(t, 0, a.Mappings())
}

func TestAggregator_ObservationIdempotentOnSets(t *testing.T) {
	a := NewAggregator()
	observe(t, a, 'x', 'd')
	observe(t, a, 'x', 'd')

	table := a.Finalize()
	assert.Equal(t, cipher.Certain, table.Lookup('x').Verdict,
		"re-observing the same proposal must not create ambiguity")
	assert.Equal(t, 2, a.Mappings(), "the diagnostic count still moves")
}

func TestAggregator_FinalizeTwicePanics(t *testing.T) {
	a := NewAggregator()
	a.Finalize()
	assert.Panics(t, func() { a.Finalize() })
}

func TestAggregator_ReceiveAfterFinalizePanics(t *testing.T) {
	a := NewAggregator()
	a.Finalize()
	assert.Panics(t, func() {
		_ = a.Receive(context.Background(), cipher.Mapping{})
	})
}

func TestMaskLetters(t *testing.T) {
	assert.Equal(t, "", maskLetters(0))
	assert.Equal(t, "a", maskLetters(1))
	assert.Equal(t, "az", maskLetters(1|1<<25))
}
