package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func writeJob(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	return path
}

// TestRunCommand prints the closure as JSON and logs to stderr.
func TestRunCommand(t *testing.T) {
	path := writeJob(t, "algebra: {builtin: ba2}\npower: 2\ngenerators: [[0, 0], [0, 1]]\nterms: true\n")

	stdout, stderr, err := execute(t, "run", path, "--workers", "2", "--json-logs")
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Equal(t, "closed", out["status"])
	require.Equal(t, float64(4), out["size"])
	require.Contains(t, stderr, `"msg":"closure done"`)
}

// TestRunSummary drops elements and terms.
func TestRunSummary(t *testing.T) {
	path := writeJob(t, "algebra: {builtin: cyclic, size: 3}\npower: 2\ngenerators: [[1, 2]]\nterms: true\n")

	stdout, _, err := execute(t, "run", path, "--summary", "--power-path=false", "--log-level", "error")
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.NotContains(t, out, "elements")
	require.NotContains(t, out, "terms")
	require.Equal(t, float64(3), out["size"])
}

// TestRunErrors surfaces load failures and bad flags.
func TestRunErrors(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := writeJob(t, "algebra: {builtin: ba2}\ngenerators: [[0]]\n")
	_, _, err = execute(t, "run", path, "--log-level", "loud")
	require.ErrorContains(t, err, "log level")

	_, _, err = execute(t, "run", path, "--workers", "0")
	require.ErrorContains(t, err, "invalid option")
}

// TestAlgebraCommand summarises built-ins and round-trips them through YAML.
func TestAlgebraCommand(t *testing.T) {
	stdout, _, err := execute(t, "algebra", "--builtin", "cyclic", "--size", "5")
	require.NoError(t, err)
	var sum algebraSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &sum))
	require.Equal(t, algebraSummary{Name: "z5", Size: 5, Operations: []string{"plus/2", "neg/1", "zero/0"}}, sum)

	yml, _, err := execute(t, "algebra", "--builtin", "ba2", "--yaml")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "ba2.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	stdout, _, err = execute(t, "algebra", path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &sum))
	require.Equal(t, "ba2", sum.Name)
	require.Len(t, sum.Operations, 5)

	_, _, err = execute(t, "algebra")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "sgclose dev\n", stdout)
}
