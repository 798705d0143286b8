package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/kk-code-lab/rview/internal/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRepo lays out a small tree on disk and isolates the user config dir.
func newRepo(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Title\n\nSome *text*.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.log"), []byte("x"), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestLsListsDirectoriesFirst(t *testing.T) {
	dir := newRepo(t)

	out, err := run(t, "--local", dir, "ls")
	require.NoError(t, err)

	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "Type")
	srcAt := bytes.Index([]byte(out), []byte("src"))
	readmeAt := bytes.Index([]byte(out), []byte("README.md"))
	require.True(t, srcAt >= 0 && readmeAt >= 0, out)
	assert.Less(t, srcAt, readmeAt)
	assert.Contains(t, out, "22 B")
}

func TestLsSubdirectory(t *testing.T) {
	dir := newRepo(t)

	out, err := run(t, "--local", dir, "ls", "src")
	require.NoError(t, err)
	assert.Contains(t, out, "main.go")
	assert.NotContains(t, out, "README.md")
}

func TestLsHidesConfiguredPatterns(t *testing.T) {
	dir := newRepo(t)
	cfgFile := filepath.Join(t.TempDir(), "rview.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("hide:\n  - \"*.log\"\n"), 0o644))

	out, err := run(t, "--local", dir, "-c", cfgFile, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "README.md")
	assert.NotContains(t, out, "notes.log")
}

func TestLsMissingDirectoryIsEmpty(t *testing.T) {
	dir := newRepo(t)

	out, err := run(t, "--local", dir, "ls", "nope")
	require.NoError(t, err)
	assert.Equal(t, "empty directory\n", out)
}

func TestCatCodeHasLineNumbers(t *testing.T) {
	dir := newRepo(t)

	out, err := run(t, "--local", dir, "cat", "src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "1  package main\n2  \n3  func main() {}\n", out)
}

func TestCatMarkdown(t *testing.T) {
	dir := newRepo(t)

	out, err := run(t, "--local", dir, "cat", "README.md")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Some text.")
	assert.NotContains(t, out, "\x1b[")
}

func TestCatHTML(t *testing.T) {
	dir := newRepo(t)

	out, err := run(t, "--local", dir, "cat", "--html", "README.md")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<em>text</em>")
}

func TestCatErrors(t *testing.T) {
	dir := newRepo(t)

	_, err := run(t, "--local", dir, "cat", "src")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	_, err = run(t, "--local", dir, "cat", "missing.txt")
	require.Error(t, err)

	_, err = run(t, "--local", dir, "cat")
	require.Error(t, err)

	_, err = run(t, "--local", dir, "cat", "--html", "src/main.go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markdown")
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	opts := &rootOpts{repo: "golang/go", ref: "release-branch.go1.22", noSearch: true, debug: true}
	cfg, err := opts.loadConfig(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, "golang", cfg.Source.Owner)
	assert.Equal(t, "go", cfg.Source.Repository)
	assert.Equal(t, "release-branch.go1.22", cfg.Source.Ref)
	assert.False(t, cfg.SearchEnabled)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.IsLocal())
}

func TestLoadConfigArgumentWinsOverFlag(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	opts := &rootOpts{repo: "golang/go"}
	cfg, err := opts.loadConfig(t.Context(), "denoland/std")
	require.NoError(t, err)
	assert.Equal(t, "denoland", cfg.Source.Owner)
	assert.Equal(t, "std", cfg.Source.Repository)
}

func TestLoadConfigRejectsBadIdentity(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	opts := &rootOpts{}
	_, err := opts.loadConfig(t.Context(), "not-a-repo")
	require.Error(t, err)
}

func TestRootRejectsExtraArguments(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := run(t, "a/b", "c/d")
	require.Error(t, err)
}

func TestPrintLinesOnTerminal(t *testing.T) {
	lines := [][]preview.Segment{
		{{Text: "1  ", Style: preview.StyleLineNumber}, {Text: "func", Style: preview.StyleToken, Token: chroma.Keyword}},
		{{Text: "evil\x1b[2J", Style: preview.StylePlain}},
	}

	var plain bytes.Buffer
	require.NoError(t, printLines(&plain, lines, false))
	assert.Equal(t, "1  func\nevil\x1b[2J\n", plain.String())

	var term bytes.Buffer
	require.NoError(t, printLines(&term, lines, true))
	out := term.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "func")
	assert.Contains(t, out, "evil?[2J")
	assert.NotContains(t, out, "\x1b[2J")
}
