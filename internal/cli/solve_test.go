package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolvanHoften/generalsub/internal/testutil"
)

// isolateConfig points the default config search at an empty directory so a
// developer's real config file cannot leak into command tests.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

// execSolve runs the solve command with the given flags and arguments,
// returning everything it wrote.
func execSolve(t *testing.T, rootOpts *RootOptions, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewSolveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// solveEnvelope mirrors CLIResponse with a typed solve payload.
type solveEnvelope struct {
	Status  string      `json:"status"`
	Data    solveReport `json:"data"`
	Error   *CLIError   `json:"error"`
	TraceID string      `json:"trace_id"`
}

func decodeSolve(t *testing.T, line string) solveEnvelope {
	t.Helper()
	var env solveEnvelope
	require.NoError(t, json.Unmarshal([]byte(line), &env), "not a solve envelope: %s", line)
	return env
}

func TestSolveSingleCandidate(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog", "see")

	out, err := execSolve(t, &RootOptions{Format: "text"}, nil, "--dict", dict, "xdg")
	require.NoError(t, err)
	assert.Equal(t, "dog\n", out)
}

func TestSolveJSONEnvelope(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog", "see")

	out, err := execSolve(t, &RootOptions{Format: "json"}, nil, "--dict", dict, "xdg")
	require.NoError(t, err)

	env := decodeSolve(t, out)
	assert.Equal(t, "ok", env.Status)
	assert.Nil(t, env.Error)
	assert.Equal(t, "xdg", env.Data.Input)
	assert.Equal(t, "dog", env.Data.Rendered)
	assert.Equal(t, 3, env.Data.Stats.Certain)
	assert.Equal(t, 0, env.Data.Stats.Ambiguous)
	assert.Len(t, env.Data.Letters, 3)

	token, parseErr := uuid.Parse(env.TraceID)
	require.NoError(t, parseErr, "trace_id should be a UUID")
	assert.Equal(t, uuid.Version(7), token.Version())
}

func TestSolveAmbiguousPlaceholder(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "it", "is")

	out, err := execSolve(t, &RootOptions{Format: "text"}, nil, "--dict", dict, "qr")
	require.NoError(t, err)
	assert.Equal(t, "i_\n", out)

	out, err = execSolve(t, &RootOptions{Format: "text"}, nil,
		"--dict", dict, "--placeholder", "?", "qr")
	require.NoError(t, err)
	assert.Equal(t, "i?\n", out)
}

func TestSolveUnsolvedExitCode(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "aa")

	out, err := execSolve(t, &RootOptions{Format: "text"}, nil, "--dict", dict, "xyz")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	// The untouched puzzle is still printed before the exit status.
	assert.Contains(t, out, "xyz\n")
}

func TestSolveUnsolvedJSON(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "aa")

	out, err := execSolve(t, &RootOptions{Format: "json"}, nil, "--dict", dict, "xyz")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	env := decodeSolve(t, out)
	assert.Equal(t, "error", env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeUnsolved, env.Error.Code)
	assert.Equal(t, "xyz", env.Data.Rendered)
	assert.Equal(t, 3, env.Data.Stats.Unknown)
}

func TestSolveMissingDictionary(t *testing.T) {
	isolateConfig(t)

	out, err := execSolve(t, &RootOptions{Format: "text"}, nil,
		"--dict", filepath.Join(t.TempDir(), "absent.txt"), "xdg")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestSolveNoInput(t *testing.T) {
	isolateConfig(t)

	_, err := execSolve(t, &RootOptions{Format: "text"}, nil)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no puzzle given")
}

func TestSolveBothTextAndInput(t *testing.T) {
	isolateConfig(t)
	input := filepath.Join(t.TempDir(), "puzzles.txt")
	require.NoError(t, os.WriteFile(input, []byte("xdg\n"), 0o644))

	_, err := execSolve(t, &RootOptions{Format: "text"}, nil, "--input", input, "xdg")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not both")
}

func TestSolveBatchFile(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog", "see")
	input := filepath.Join(t.TempDir(), "puzzles.txt")
	require.NoError(t, os.WriteFile(input, []byte("# header comment\nxdg\n\nqkk\n"), 0o644))

	out, err := execSolve(t, &RootOptions{Format: "text"}, nil,
		"--dict", dict, "--input", input, "--parallel", "2")
	require.NoError(t, err)
	assert.Equal(t, "dog\nsee\n", out)
}

func TestSolveBatchStdin(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog", "see")

	out, err := execSolve(t, &RootOptions{Format: "text"}, strings.NewReader("xdg\nqkk\n"),
		"--dict", dict, "--input", "-")
	require.NoError(t, err)
	assert.Equal(t, "dog\nsee\n", out)
}

func TestSolveBatchJSONOrder(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog", "see", "it", "is")
	input := filepath.Join(t.TempDir(), "puzzles.txt")
	require.NoError(t, os.WriteFile(input, []byte("xdg\nqkk\nqr\n"), 0o644))

	out, err := execSolve(t, &RootOptions{Format: "json"}, nil,
		"--dict", dict, "--input", input, "--parallel", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	// One envelope per puzzle, in input order regardless of which worker
	// finished first.
	inputs := make([]string, len(lines))
	tokens := make(map[string]bool)
	for i, line := range lines {
		env := decodeSolve(t, line)
		inputs[i] = env.Data.Input
		tokens[env.TraceID] = true
	}
	assert.Equal(t, []string{"xdg", "qkk", "qr"}, inputs)
	assert.Len(t, tokens, 3, "each puzzle should carry its own run token")
}

func TestSolveIndexCache(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog", "see")
	cachePath := filepath.Join(t.TempDir(), "index.db")

	out, err := execSolve(t, &RootOptions{Format: "text"}, nil,
		"--dict", dict, "--index-cache", cachePath, "xdg")
	require.NoError(t, err)
	assert.Equal(t, "dog\n", out)

	_, statErr := os.Stat(cachePath)
	require.NoError(t, statErr, "cache database should be created")

	// Second run answers from the cache.
	out, err = execSolve(t, &RootOptions{Format: "text"}, nil,
		"--dict", dict, "--index-cache", cachePath, "xdg")
	require.NoError(t, err)
	assert.Equal(t, "dog\n", out)
}

func TestSolveMaxNodesTruncation(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "it", "is", "at", "on")

	out, err := execSolve(t, &RootOptions{Format: "json"}, nil,
		"--dict", dict, "--max-nodes", "1", "ab cd")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	env := decodeSolve(t, out)
	assert.True(t, env.Data.Stats.Truncated)
	assert.Equal(t, 1, env.Data.Stats.Nodes)
}

func TestSolveFoldDiacritics(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "café")

	out, err := execSolve(t, &RootOptions{Format: "text"}, nil,
		"--dict", dict, "--fold-diacritics", "xdpy")
	require.NoError(t, err)
	assert.Equal(t, "cafe\n", out)
}

func TestSolveConfigFile(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("dictionary: %s\n", dict)), 0o644))

	out, err := execSolve(t, &RootOptions{Format: "text", ConfigFile: cfgPath}, nil, "xdg")
	require.NoError(t, err)
	assert.Equal(t, "dog\n", out)
}

func TestSolveFlagOverridesConfig(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dictionary: /nonexistent/words\n"), 0o644))

	out, err := execSolve(t, &RootOptions{Format: "text", ConfigFile: cfgPath}, nil,
		"--dict", dict, "xdg")
	require.NoError(t, err)
	assert.Equal(t, "dog\n", out)
}

func TestSolveVerboseLetters(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog", "see")

	out, err := execSolve(t, &RootOptions{Format: "text", Verbose: true}, nil,
		"--dict", dict, "xdg")
	require.NoError(t, err)
	assert.Contains(t, out, "dog\n")
	assert.Contains(t, out, "x → d")
	assert.Contains(t, out, "d → o")
	assert.Contains(t, out, "g → g")
}

func TestSolveHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewSolveCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Decode monoalphabetic substitution ciphertext")
	assert.Contains(t, output, "--dict")
	assert.Contains(t, output, "--input")
	assert.Contains(t, output, "--parallel")
}
