package harness

import (
	"fmt"
	"sort"

	"github.com/PolvanHoften/generalsub/internal/cipher"
)

// EvaluateExpect checks every expectation in the clause against an
// executed result and returns one message per failure. An empty slice
// means the expectations all held.
//
// Letter checks run in alphabetical key order so a scenario with
// several failures reports them deterministically.
func EvaluateExpect(result *Result, expect *ExpectClause) []string {
	var failures []string

	if expect.Rendered != "" && result.Rendered != expect.Rendered {
		failures = append(failures, fmt.Sprintf("rendered: expected %q, got %q", expect.Rendered, result.Rendered))
	}

	for _, c := range sortedKeys(expect.Certain) {
		want := expect.Certain[c]
		res := result.Table.Lookup(c[0])
		switch {
		case res.Verdict != cipher.Certain:
			failures = append(failures, fmt.Sprintf("certain[%s]: verdict is %s, want certain", c, res.Verdict))
		case string(res.Plain) != want:
			failures = append(failures, fmt.Sprintf("certain[%s]: expected plain %q, got %q", c, want, string(res.Plain)))
		}
	}

	for _, c := range sortedKeys(expect.Ambiguous) {
		want := sortLetters(expect.Ambiguous[c])
		res := result.Table.Lookup(c[0])
		switch {
		case res.Verdict != cipher.Ambiguous:
			failures = append(failures, fmt.Sprintf("ambiguous[%s]: verdict is %s, want ambiguous", c, res.Verdict))
		case res.Proposals != want:
			failures = append(failures, fmt.Sprintf("ambiguous[%s]: expected proposals %q, got %q", c, want, res.Proposals))
		}
	}

	for _, c := range expect.Unknown {
		if res := result.Table.Lookup(c[0]); res.Verdict != cipher.Unknown {
			failures = append(failures, fmt.Sprintf("unknown[%s]: verdict is %s, want unknown", c, res.Verdict))
		}
	}

	if expect.Truncated != nil && result.Stats.Truncated != *expect.Truncated {
		failures = append(failures, fmt.Sprintf("truncated: expected %v, got %v", *expect.Truncated, result.Stats.Truncated))
	}

	return failures
}

// sortedKeys returns the map's keys in alphabetical order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortLetters normalizes a proposal set into alphabetical order, the
// order the aggregator emits.
func sortLetters(s string) string {
	b := []byte(s)
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return string(b)
}
