package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures a scenario execution for golden comparison. Fields
// serialize in declaration order as indented JSON, so a snapshot is a
// stable byte stream.
type Snapshot struct {
	ScenarioName string       `json:"scenario_name"`
	RunToken     string       `json:"run_token"`
	Puzzle       string       `json:"puzzle"`
	Rendered     string       `json:"rendered"`
	Letters      []LetterLine `json:"letters"`
	Stats        RunStats     `json:"stats"`
}

// RunWithGolden executes a scenario, compares its snapshot against
// testdata/golden/{scenario.Name}.golden, and returns the result for
// further assertions.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot := Snapshot{
		ScenarioName: result.ScenarioName,
		RunToken:     result.RunToken,
		Puzzle:       scenario.Puzzle,
		Rendered:     result.Rendered,
		Letters:      result.Letters,
		Stats:        result.Stats,
	}
	data, err := json.MarshalIndent(&snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
