package harness

import "github.com/PolvanHoften/generalsub/internal/cipher"

// LetterLine describes one ciphertext letter occurring in the puzzle.
// The JSON shape matches the CLI's per-letter report so golden files
// read the same either way.
type LetterLine struct {
	Cipher    string `json:"cipher"`
	Verdict   string `json:"verdict"`
	Plain     string `json:"plain,omitempty"`
	Proposals string `json:"proposals,omitempty"`
}

// RunStats carries the solve counters captured in snapshots.
type RunStats struct {
	Words     int  `json:"words"`
	Mappings  int  `json:"mappings"`
	Nodes     int  `json:"nodes"`
	Truncated bool `json:"truncated"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// ScenarioName names the scenario this result belongs to.
	ScenarioName string `json:"scenario_name"`

	// RunToken is the token the solve executed under.
	RunToken string `json:"run_token"`

	// Rendered is the puzzle with the resolution applied.
	Rendered string `json:"rendered"`

	// Letters lists the puzzle's distinct ciphertext letters in
	// alphabetical order with their resolution.
	Letters []LetterLine `json:"letters"`

	// Stats carries the solve counters.
	Stats RunStats `json:"stats"`

	// Errors contains expectation failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Table is the raw resolution, kept for assertion evaluation.
	Table cipher.Table `json:"-"`
}

// AddError records an expectation failure and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
