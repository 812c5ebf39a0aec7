package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolvanHoften/generalsub/internal/testutil"
)

// execPatterns runs the patterns command and returns everything it wrote.
func execPatterns(t *testing.T, rootOpts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewPatternsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestPatternsBasic(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog", "cat", "see")

	out, err := execPatterns(t, &RootOptions{Format: "text"}, "--dict", dict, "xdg")
	require.NoError(t, err)
	assert.Equal(t, "xdg: 1.2.3 (3 distinct), 2 candidate(s): dog cat\n", out)
}

func TestPatternsJSON(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog", "cat", "see")

	out, err := execPatterns(t, &RootOptions{Format: "json"}, "--dict", dict, "xdg", "qkk")
	require.NoError(t, err)

	var env struct {
		Status string          `json:"status"`
		Data   []patternReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, "ok", env.Status)
	require.Len(t, env.Data, 2)

	assert.Equal(t, "xdg", env.Data[0].Word)
	assert.Equal(t, "1.2.3", env.Data[0].Signature)
	assert.Equal(t, 3, env.Data[0].Distinct)
	assert.Equal(t, 2, env.Data[0].Candidates)
	assert.Equal(t, []string{"dog", "cat"}, env.Data[0].Samples)

	assert.Equal(t, "qkk", env.Data[1].Word)
	assert.Equal(t, "1.2.2", env.Data[1].Signature)
	assert.Equal(t, 1, env.Data[1].Candidates)
	assert.Equal(t, []string{"see"}, env.Data[1].Samples)
}

func TestPatternsRepeatedLetters(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog")

	out, err := execPatterns(t, &RootOptions{Format: "text"}, "--dict", dict, "llama")
	require.NoError(t, err)
	assert.Equal(t, "llama: 1.1.2.3.2 (3 distinct), 0 candidate(s)\n", out)
}

func TestPatternsMixedCase(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog")

	out, err := execPatterns(t, &RootOptions{Format: "text"}, "--dict", dict, "Xdg!")
	require.NoError(t, err)
	assert.Contains(t, out, "Xdg!: 1.2.3")
	assert.Contains(t, out, "1 candidate(s): dog")
}

func TestPatternsNoLetters(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog")

	out, err := execPatterns(t, &RootOptions{Format: "text"}, "--dict", dict, "123")
	require.NoError(t, err)
	assert.Equal(t, "123: no letters\n", out)
}

func TestPatternsSamplesCap(t *testing.T) {
	isolateConfig(t)
	dict := testutil.TempDict(t, "dog", "cat", "pin")

	out, err := execPatterns(t, &RootOptions{Format: "text"}, "--dict", dict, "--samples", "1", "xdg")
	require.NoError(t, err)
	assert.Contains(t, out, "3 candidate(s): dog\n")
	assert.NotContains(t, out, "cat")
}

func TestPatternsMissingDict(t *testing.T) {
	isolateConfig(t)

	out, err := execPatterns(t, &RootOptions{Format: "text"},
		"--dict", filepath.Join(t.TempDir(), "absent.txt"), "xdg")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestPatternsHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewPatternsCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "repetition signature")
	assert.Contains(t, output, "--samples")
}
