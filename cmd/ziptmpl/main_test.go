package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/ziptmpl/internal/output"
)

// execute runs the CLI with args and stdin, returning stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeFile writes content to name under a temp dir and returns the path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m), "output: %s", s)
	return m
}

func TestRootCommand_Version(t *testing.T) {
	version = "1.2.3"
	t.Cleanup(func() { version = "dev" })

	out, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "ziptmpl")
	assert.Contains(t, out, "1.2.3")
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := execute(t, "", "--help")
	require.NoError(t, err)
	for _, want := range []string{"Usage:", "parse", "render", "store", "--json", "--config"} {
		assert.Contains(t, out, want)
	}
}

func TestRootCommand_JSONWithoutSubcommand(t *testing.T) {
	out, _, err := execute(t, "", "--json")
	require.Error(t, err)
	assert.Equal(t, output.ExitUserError, output.GetExitCode(err))

	got := decodeJSON(t, out)
	assert.Contains(t, got["error"], "no command specified")
}

func TestBuildVersion(t *testing.T) {
	assert.Equal(t, "dev", buildVersion())

	commit = "0123456789abcdef"
	t.Cleanup(func() { commit = "none" })
	assert.Equal(t, "dev (0123456)", buildVersion())
}
