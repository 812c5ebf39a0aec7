package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultRunToken is the run token scenarios execute with unless they
// pin their own. A fixed token keeps golden snapshots stable.
const DefaultRunToken = "test-run-default"

// Scenario defines one end-to-end solver case.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named
	// after it.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Dictionary is the inline word list the index is built from.
	Dictionary []string `yaml:"dictionary"`

	// Puzzle is the ciphertext handed to the solver, verbatim.
	Puzzle string `yaml:"puzzle"`

	// Placeholder marks ambiguous letters in rendered output.
	// Defaults to "_" when empty.
	Placeholder string `yaml:"placeholder,omitempty"`

	// Fold folds dictionary diacritics to ASCII before indexing.
	Fold bool `yaml:"fold,omitempty"`

	// MaxNodes caps the traversal. Zero means unlimited.
	MaxNodes int `yaml:"max_nodes,omitempty"`

	// RunToken is an optional fixed run token. Defaults to
	// DefaultRunToken so golden files stay deterministic.
	RunToken string `yaml:"run_token,omitempty"`

	// Expect holds the checks evaluated against the solve result.
	Expect ExpectClause `yaml:"expect"`
}

// ExpectClause specifies the expected resolution. Every field is
// optional; a scenario must state at least one.
type ExpectClause struct {
	// Rendered is the exact rendered output.
	Rendered string `yaml:"rendered,omitempty"`

	// Certain maps cipher letters to the single plain letter each must
	// resolve to.
	Certain map[string]string `yaml:"certain,omitempty"`

	// Ambiguous maps cipher letters to their exact proposal set,
	// written as a string of plain letters (order does not matter).
	Ambiguous map[string]string `yaml:"ambiguous,omitempty"`

	// Unknown lists cipher letters the dictionary must fail to explain.
	Unknown []string `yaml:"unknown,omitempty"`

	// Truncated, when present, asserts whether the node budget cut the
	// traversal.
	Truncated *bool `yaml:"truncated,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so a typo fails loudly instead of silently skipping a
// check.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario under dir. Glob returns
// paths in sorted order, so suites run stably.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Dictionary) == 0 {
		return fmt.Errorf("dictionary list is required and must be non-empty")
	}

	if s.Puzzle == "" {
		return fmt.Errorf("puzzle is required")
	}

	if s.Placeholder != "" && utf8.RuneCountInString(s.Placeholder) != 1 {
		return fmt.Errorf("placeholder must be a single character, got %q", s.Placeholder)
	}

	if s.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must be non-negative, got %d", s.MaxNodes)
	}

	return validateExpect(&s.Expect)
}

// validateExpect checks the expectation clause: at least one check
// stated, and every letter key or value within the lowercase alphabet.
func validateExpect(e *ExpectClause) error {
	if e.Rendered == "" && len(e.Certain) == 0 && len(e.Ambiguous) == 0 &&
		len(e.Unknown) == 0 && e.Truncated == nil {
		return fmt.Errorf("expect must state at least one check")
	}

	for c, p := range e.Certain {
		if !isLetter(c) {
			return fmt.Errorf("expect.certain: key %q is not a single lowercase letter", c)
		}
		if !isLetter(p) {
			return fmt.Errorf("expect.certain[%s]: value %q is not a single lowercase letter", c, p)
		}
	}

	for c, props := range e.Ambiguous {
		if !isLetter(c) {
			return fmt.Errorf("expect.ambiguous: key %q is not a single lowercase letter", c)
		}
		if len(props) < 2 {
			return fmt.Errorf("expect.ambiguous[%s]: proposal set %q needs at least two letters", c, props)
		}
		for i := 0; i < len(props); i++ {
			if props[i] < 'a' || props[i] > 'z' {
				return fmt.Errorf("expect.ambiguous[%s]: proposal set %q is not all lowercase letters", c, props)
			}
		}
	}

	for i, c := range e.Unknown {
		if !isLetter(c) {
			return fmt.Errorf("expect.unknown[%d]: %q is not a single lowercase letter", i, c)
		}
	}

	return nil
}

// isLetter reports whether s is exactly one lowercase ASCII letter.
func isLetter(s string) bool {
	return len(s) == 1 && s[0] >= 'a' && s[0] <= 'z'
}
