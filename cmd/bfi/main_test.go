package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/bfi/errz"
)

const helloWorld = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())

	root := newRootCommand(newApp())
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCode(t *testing.T) {
	stdout, _, err := execute(t, "", "-c", helloWorld)
	require.NoError(t, err)
	assert.Equal(t, "Hello World!\n", stdout)
}

func TestRunFile(t *testing.T) {
	path := writeFile(t, "hello.bf", "print hello\n"+helloWorld+"\n")
	stdout, _, err := execute(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, "Hello World!\n", stdout)

	stdout, _, err = execute(t, "", "run", path)
	require.NoError(t, err)
	assert.Equal(t, "Hello World!\n", stdout)
}

func TestRunStdinCode(t *testing.T) {
	stdout, _, err := execute(t, "+++++++++[>++++++++<-]>.", "run", "--stdin")
	require.NoError(t, err)
	assert.Equal(t, "H", stdout)
}

func TestRunReadsInput(t *testing.T) {
	stdout, _, err := execute(t, "abc", "-c", ",[.,]")
	require.NoError(t, err)
	assert.Equal(t, "abc", stdout)
}

func TestRunMultipleSources(t *testing.T) {
	path := writeFile(t, "a.bf", "+")
	_, _, err := execute(t, "", "-c", "+", path)
	require.Error(t, err)
	assert.Equal(t, "multiple input sources specified", err.Error())
}

func TestRunNoInput(t *testing.T) {
	if isTerminalIO() {
		t.Skip("prints help on a terminal")
	}
	_, _, err := execute(t, "", "run")
	require.Error(t, err)
	assert.Equal(t, "no input provided", err.Error())
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := execute(t, "", filepath.Join(t.TempDir(), "missing.bf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunUnderflowMessage(t *testing.T) {
	path := writeFile(t, "under.bf", "+.\n <")
	stdout, _, err := execute(t, "", path)
	require.Error(t, err)
	assert.Empty(t, stdout)

	msg := formatError(err)
	assert.Contains(t, msg, "pointer underflow: cannot move left of cell 0 at instruction 2")
	assert.Contains(t, msg, " --> "+path+":2:2")
	assert.Contains(t, msg, "2 |  <")
	assert.Contains(t, msg, "  |  ^")
}

func TestRunTimeout(t *testing.T) {
	_, _, err := execute(t, "", "--timeout", "10ms", "-c", "+[]")
	require.Error(t, err)
	kind, ok := errz.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errz.ErrCancelled, kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunTimeoutFromConfig(t *testing.T) {
	cfg := writeFile(t, "bfi.yaml", "timeout: 10ms\n")
	_, _, err := execute(t, "", "--config", cfg, "-c", "+[]")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunTimeoutFromEnv(t *testing.T) {
	t.Setenv("BFI_TIMEOUT", "10ms")
	_, _, err := execute(t, "", "-c", "+[]")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "-c", "+")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestRunTrace(t *testing.T) {
	_, stderr, err := execute(t, "", "--trace", "-c", "+>")
	require.NoError(t, err)
	assert.Contains(t, stderr, "INCREMENT_CELL")
	assert.Contains(t, stderr, "MOVE_RIGHT")
	assert.Contains(t, stderr, "run_id=")
}

func TestRunTiming(t *testing.T) {
	stdout, stderr, err := execute(t, "", "run", "--timing", "-c", "+")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.NotEmpty(t, stderr)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "", "--log-level", "loud", "-c", "+")
	require.Error(t, err)
	assert.Equal(t, `invalid log level "loud"`, err.Error())
}

func TestDisTable(t *testing.T) {
	stdout, _, err := execute(t, "", "dis", "-c", "+[-]")
	require.NoError(t, err)
	assert.Contains(t, stdout, "| OFFSET | OPCODE")
	assert.Contains(t, stdout, "LOOP_START")
}

func TestDisJSON(t *testing.T) {
	stdout, _, err := execute(t, "", "dis", "-o", "json", "-c", "[.]")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "OUTPUT_BYTE", decoded[1]["name"])
}

func TestDisYAML(t *testing.T) {
	stdout, _, err := execute(t, "", "dis", "--output", "yaml", "-c", "<")
	require.NoError(t, err)
	assert.Contains(t, stdout, "name: MOVE_LEFT")
}

func TestDisUnbalanced(t *testing.T) {
	_, _, err := execute(t, "", "dis", "-c", "[")
	require.Error(t, err)
	kind, ok := errz.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errz.ErrUnbalancedBrackets, kind)
}

func TestCheckOK(t *testing.T) {
	stdout, _, err := execute(t, "", "check", "-c", helloWorld)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", stdout)
}

func TestCheckText(t *testing.T) {
	_, _, err := execute(t, "", "check", "-c", "]\n[+")
	require.Error(t, err)

	msg := formatError(err)
	assert.Contains(t, msg, "no matching '[' for ']' at instruction 0")
	assert.Contains(t, msg, "no matching ']' for '[' at instruction 1")
	assert.Contains(t, msg, " --> 2:1")
}

func TestCheckJSON(t *testing.T) {
	stdout, _, err := execute(t, "", "check", "-o", "json", "-c", "+]")
	require.Error(t, err)
	assert.Equal(t, "found 1 unbalanced bracket(s)", err.Error())

	var problems []problem
	require.NoError(t, json.Unmarshal([]byte(stdout), &problems))
	assert.Equal(t, []problem{{
		Index:   1,
		Line:    1,
		Column:  2,
		Message: "no matching '[' for ']' at instruction 1",
	}}, problems)
}

func TestCheckJSONClean(t *testing.T) {
	stdout, _, err := execute(t, "", "check", "-o", "json", "-c", "[]")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
}

func TestCheckUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "", "check", "-o", "xml", "-c", "+")
	require.Error(t, err)
	assert.Equal(t, "unknown output format: xml", err.Error())
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)

	stdout, _, err = execute(t, "", "version", "-o", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "dev", info["version"])
	assert.Equal(t, "unknown", info["commit"])
}

func TestFormatPlainError(t *testing.T) {
	assert.Equal(t, "boom\n", formatError(errors.New("boom")))
}
