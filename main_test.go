package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and returns stdout, stderr and the error.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir()) // Keep a developer's config file out of the test

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func projectFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	fs := afero.NewOsFs()
	writeTree(t, fs, dir, map[string]int{
		"a.rs":        10,
		"b.rs":        5,
		"c.md":        3,
		"vendor/d.rs": 100,
		"image.png":   1,
	})
	writeFile(t, fs, filepath.Join(dir, ".gitignore"), "vendor/\n")
	return dir
}

func TestRootCommandRequiresPath(t *testing.T) {
	stdout, stderr, err := executeCommand(t)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 0")
	assert.Contains(t, stderr, "Error: accepts 1 arg(s)")
	// Cobra prints usage to the configured output writer.
	assert.Contains(t, stdout+stderr, "Usage:")
	assert.NotContains(t, stderr, "Scanning", "no traversal before the usage error")
}

func TestRootCommandRejectsExtraArguments(t *testing.T) {
	_, _, err := executeCommand(t, "a", "b")
	require.Error(t, err)
}

func TestRootCommandMissingPath(t *testing.T) {
	_, stderr, err := executeCommand(t, filepath.Join(t.TempDir(), "nope"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error accessing path")
	assert.Contains(t, stderr, "Error: error accessing path")
	assert.Equal(t, 1, strings.Count(stderr, "Error:"), "reported once")
	assert.NotContains(t, stderr, "Usage:")
}

func TestRootCommandJSON(t *testing.T) {
	dir := projectFixture(t)

	stdout, stderr, err := executeCommand(t, dir, "--format", "json", "--threads", "2")
	require.NoError(t, err)

	var report AggregateReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, map[string]int{"rs": 15, "md": 3}, report.Totals)
	require.Len(t, report.TopFiles["rs"], 2)
	assert.Equal(t, filepath.Join(dir, "a.rs"), report.TopFiles["rs"][0].Path)
	assert.Equal(t, 10, report.TopFiles["rs"][0].LineCount)
	assert.NotContains(t, stderr, "Warning")
}

func TestRootCommandTable(t *testing.T) {
	dir := projectFixture(t)

	stdout, stderr, err := executeCommand(t, dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "rs         | Rust       | 2        | 15")
	assert.Contains(t, stdout, "Top 5 biggest files for extension: md")
	assert.NotContains(t, stdout, "png")
	assert.NotContains(t, stdout, "Scanning", "diagnostics stay off the report stream")
	assert.Contains(t, stderr, "Scanning")
}

func TestRootCommandFlagsOverrideDefaults(t *testing.T) {
	dir := projectFixture(t)
	out := filepath.Join(t.TempDir(), "report.yaml")

	stdout, _, err := executeCommand(t, dir, "--no-ignore", "--exclude", "*.md", "-o", "yaml", "-f", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rs: 115")
	assert.NotContains(t, string(data), "md:")
}

func TestRootCommandEnvironment(t *testing.T) {
	dir := projectFixture(t)
	t.Setenv("LINECOUNT_FORMAT", "toml")
	t.Setenv("LINECOUNT_NO_IGNORE", "true")

	stdout, _, err := executeCommand(t, dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "[totals]")
	assert.Contains(t, stdout, "rs = 115")
}

func TestRootCommandConfigFile(t *testing.T) {
	dir := projectFixture(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format = \"json\"\nexclude = [\"*.md\"]\n"), 0644))

	stdout, _, err := executeCommand(t, dir, "--config", cfgPath)
	require.NoError(t, err)

	var report AggregateReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, map[string]int{"rs": 15}, report.Totals)
}

func TestRootCommandUnreadableConfigWarns(t *testing.T) {
	dir := projectFixture(t)

	stdout, stderr, err := executeCommand(t, dir, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Contains(t, stderr, "Warning: error reading config file")
	assert.Contains(t, stdout, "Extension")
}

func TestRootCommandUnsupportedFormat(t *testing.T) {
	dir := projectFixture(t)

	stdout, stderr, err := executeCommand(t, dir, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
	assert.Contains(t, stderr, "Error: unsupported output format: xml")
	assert.Empty(t, stdout)
}

func TestRootCommandPDF(t *testing.T) {
	dir := projectFixture(t)
	out := filepath.Join(t.TempDir(), "report.pdf")

	stdout, stderr, err := executeCommand(t, dir, "--pdf", out)
	require.NoError(t, err)

	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "PDF saved to")
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestIsGitURL(t *testing.T) {
	tests := map[string]bool{
		"https://github.com/user/repo.git": true,
		"git@github.com:user/repo":         true,
		"./repo":                           false,
		"/home/user/project":               false,
		"https://example.com/project":      false,
	}
	for input, want := range tests {
		assert.Equal(t, want, isGitURL(input), input)
	}
}

func TestRunReportsWarningSummary(t *testing.T) {
	base := afero.NewMemMapFs()
	writeTree(t, base, "/repo", map[string]int{"a.py": 2, "b.py": 3})
	fs := newFaultyFs(base, "/repo/b.py")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), fs, Config{Format: formatTable}, "/repo", &stdout, NewReporter(&stderr, false))
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "py         | Python     | 2        | 2")
	assert.True(t, strings.HasSuffix(stderr.String(), "Info: Scan completed with 1 warning(s)\n"))
}
