package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSetFromStdin(t *testing.T) {
	t.Parallel()

	in := strings.NewReader(`{ version = "0.1.0"; }`)

	var out bytes.Buffer

	err := runSet(&rootOptions{}, "version", `"1.2.3"`, in, &out)
	require.NoError(t, err)
	assert.Equal(t, `{ version = "1.2.3"; }`, out.String())
}

func TestRunSetFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "default.nix")
	require.NoError(t, os.WriteFile(path, []byte("{ foo = 1; }\n"), 0o600))

	var out bytes.Buffer

	err := runSet(&rootOptions{file: path}, "foo", "2", strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "{ foo = 2; }\n", out.String())
}

func TestRunSetScopeSelector(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("{ foo = 1; }")

	var out bytes.Buffer

	err := runSet(&rootOptions{}, "@bar", "2", in, &out)
	require.NoError(t, err)
	assert.Equal(t, "let\n  bar = 2;\nin\n{ foo = 1; }\n", out.String())
}

func TestRunRm(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("{ foo = 1; bar = 2; }")

	var out bytes.Buffer

	err := runRm(&rootOptions{}, "bar", in, &out)
	require.NoError(t, err)
	assert.Equal(t, "{ foo = 1; }", out.String())
}

func TestRunRmParseErrorFails(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("{ broken")

	var out bytes.Buffer

	err := runRm(&rootOptions{}, "foo", in, &out)
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRunTestOK(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("{ foo = 1; }\n")

	var out bytes.Buffer

	err := runTest(&rootOptions{}, false, in, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "OK")
}

func TestRunTestFailOnSyntaxError(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("{ broken")

	var out bytes.Buffer

	err := runTest(&rootOptions{}, false, in, &out)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Fail")
}

func TestRunTestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	good := filepath.Join(dir, "good.nix")
	require.NoError(t, os.WriteFile(good, []byte("{ foo = 1; }\n"), 0o600))

	bad := filepath.Join(dir, "bad.nix")
	require.NoError(t, os.WriteFile(bad, []byte("{ broken"), 0o600))

	var out bytes.Buffer

	err := runTestFiles([]string{good, bad}, false, &out)
	assert.ErrorIs(t, err, errRoundTrip)
	assert.Contains(t, out.String(), "good.nix")
	assert.Contains(t, out.String(), "bad.nix")
	assert.Contains(t, out.String(), "1 failed")
}

func TestCheckRoundTripMismatchIsRoundTripError(t *testing.T) {
	t.Parallel()

	// `{}` normalizes to `{ }`, so the strict byte comparison fails.
	_, err := checkRoundTrip([]byte("{}"))
	assert.True(t, errors.Is(err, errRoundTrip))
}

func TestNewRootCmdWiring(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()

	names := make([]string, 0)
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}

	assert.Contains(t, names, "set")
	assert.Contains(t, names, "rm")
	assert.Contains(t, names, "test")
	assert.Contains(t, names, "shell")
	assert.Contains(t, names, "version")
}

func TestShellModelExecutesCommands(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "default.nix")
	require.NoError(t, os.WriteFile(path, []byte("{ foo = 1; }\n"), 0o600))

	model, err := newShellModel(path)
	require.NoError(t, err)

	assert.Contains(t, model.execute("rebuild"), "{ foo = 1; }")
	assert.Contains(t, model.execute("set foo 2"), "{ foo = 2; }")
	assert.Contains(t, model.execute("rm foo"), "{ }")
	assert.Contains(t, model.execute("help"), "commands:")
}
