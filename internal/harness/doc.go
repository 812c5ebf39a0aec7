// Package harness executes end-to-end solver scenarios defined in YAML.
//
// A scenario bundles an inline dictionary, a puzzle, and the expected
// resolution. The harness builds a pattern index from the dictionary,
// runs the solver over the puzzle, renders the result, and evaluates
// the scenario's expectations against the finalized table.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario exercises"
//	dictionary:
//	  - dog
//	  - see
//	puzzle: "xdg"
//	placeholder: "?"        # optional, defaults to '_'
//	fold: true              # optional, fold dictionary diacritics
//	max_nodes: 100          # optional, 0 means unlimited
//	run_token: my-token     # optional, defaults to test-run-default
//	expect:
//	  rendered: "dog"
//	  certain:
//	    x: d
//	  ambiguous:
//	    r: st
//	  unknown: [q]
//	  truncated: false
//
// # Expectations
//
// Every expectation is optional, but each scenario must state at least
// one. Letter expectations are keyed by ciphertext letter:
//
//   - rendered: the exact rendered output
//   - certain: cipher letter resolved to exactly this plain letter
//   - ambiguous: cipher letter left with exactly this proposal set
//   - unknown: cipher letters the dictionary could not explain
//   - truncated: whether the node budget cut the traversal
//
// # Deterministic Runs
//
// Scenarios execute with a fixed run token (from scenario.run_token or
// the package default) and an inline dictionary, so a scenario produces
// identical output on every run. Golden files build on this: snapshots
// are stable byte streams suitable for goldie comparison.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/checkmate.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
