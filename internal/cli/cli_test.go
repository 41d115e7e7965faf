package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/mdfmt/internal/patch"
	"github.com/codalotl/mdfmt/internal/position"
)

const (
	messy     = "Title\n===\ntext   \n"
	formatted = "# Title\n\ntext\n"
)

// run runs the CLI in a fresh temp working directory (unless one was set up already) and returns its exit code and output.
func run(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code, err := Run(append([]string{"mdfmt"}, args...), &RunOptions{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	if code == 0 {
		assert.NoError(t, err)
	} else {
		assert.Error(t, err)
	}
	return code, out.String(), errOut.String()
}

// workdir makes a temp dir the working directory and fills it with files.
func workdir(t *testing.T, files map[string]string) string {
	t.Helper()
	t.Setenv("MDFMT_DEBUG", "")
	t.Setenv("MDFMT_LOG_FILE", "")
	t.Setenv("NO_COLOR", "")
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRun_Help(t *testing.T) {
	workdir(t, nil)
	code, out, errOut := run(t, "", "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "mdfmt [files...]")
	assert.Empty(t, errOut)
}

func TestRun_UsageErrors(t *testing.T) {
	workdir(t, map[string]string{"a.md": messy})
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"--bogus"}},
		{name: "bad color", args: []string{"--color", "sometimes", "a.md"}},
		{name: "write and check", args: []string{"--write", "--check", "a.md"}},
		{name: "write stdin", args: []string{"--write"}},
		{name: "patches without file", args: []string{"patches"}},
		{name: "patches bad unit", args: []string{"patches", "--unit", "inches", "a.md"}},
		{name: "watch without path", args: []string{"watch"}},
		{name: "version with args", args: []string{"version", "extra"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := run(t, "", tc.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, errOut, "Run 'mdfmt --help' for usage.")
		})
	}
}

func TestRun_Stdin(t *testing.T) {
	workdir(t, nil)
	code, out, errOut := run(t, messy)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, formatted, out)

	code, out, errOut = run(t, messy, "--check")
	assert.Equal(t, 1, code)
	assert.Equal(t, "<stdin>\n", out)
	assert.Contains(t, errOut, "1 of 1 files would be reformatted")
}

func TestRun_PrintsInInputOrder(t *testing.T) {
	files := map[string]string{}
	var args []string
	var want strings.Builder
	for i := range 20 {
		name := filepath.Join("docs", string(rune('a'+i))+".md")
		files[filepath.ToSlash(name)] = strings.Repeat("#", i%6+1) + "   Heading " + name + "  \n"
		args = append([]string{name}, args...) // reverse order
	}
	workdir(t, files)
	for _, name := range args {
		i := int(filepath.Base(name)[0] - 'a')
		want.WriteString(strings.Repeat("#", i%6+1) + " Heading " + name + "\n")
	}

	code, out, errOut := run(t, "", args...)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, want.String(), out)
}

func TestRun_Write(t *testing.T) {
	workdir(t, map[string]string{"a.md": messy, "b.md": formatted})
	code, out, errOut := run(t, "", "--write", "a.md", "-f", "b.md")
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, out)
	assert.Equal(t, formatted, readFile(t, "a.md"))
	assert.Equal(t, formatted, readFile(t, "b.md"))
}

func TestRun_DuplicatePaths(t *testing.T) {
	workdir(t, map[string]string{"a.md": messy, "b.md": formatted})

	code, out, errOut := run(t, "", "--check", "-f", "a.md", "--glob", "*.md", "./a.md")
	assert.Equal(t, 1, code)
	assert.Equal(t, "a.md\n", out)
	assert.Contains(t, errOut, "1 of 2 files would be reformatted")

	code, out, errOut = run(t, "", "a.md", "a.md")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, formatted, out)

	code, _, errOut = run(t, "", "--write", "-f", "a.md", "--glob", "*.md", "a.md")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, formatted, readFile(t, "a.md"))
}

func TestDedupPaths(t *testing.T) {
	got := dedupPaths([]string{"a.md", filepath.Join(".", "a.md"), "b.md", filepath.Join("x", "..", "a.md"), "b.md"})
	assert.Equal(t, []string{"a.md", "b.md"}, got)
}

func TestRun_Check(t *testing.T) {
	workdir(t, map[string]string{"a.md": messy, "b.md": formatted, "c.md": "x"})

	code, out, errOut := run(t, "", "--check", "a.md", "b.md", "c.md")
	assert.Equal(t, 1, code)
	assert.Equal(t, "a.md\nc.md\n", out)
	assert.Contains(t, errOut, "2 of 3 files would be reformatted")
	assert.Equal(t, messy, readFile(t, "a.md"), "check never writes")

	code, out, _ = run(t, "", "--check", "b.md")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
}

func TestRun_Diff(t *testing.T) {
	workdir(t, map[string]string{"a.md": messy, "b.md": formatted})

	code, out, errOut := run(t, "", "--diff", "--color", "never", "a.md", "b.md")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "--- a.md\n+++ a.md\n")
	assert.Contains(t, out, "-Title\n")
	assert.Contains(t, out, "+# Title\n")
	assert.NotContains(t, out, "b.md", "unchanged files print no diff")
	assert.NotContains(t, out, "\x1b[")

	code, out, _ = run(t, "", "--diff", "--color", "always", "a.md")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "\x1b[")

	// auto with a non-terminal writer means no color.
	code, out, _ = run(t, "", "--diff", "a.md")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "\x1b[")
}

func TestRun_Glob(t *testing.T) {
	workdir(t, map[string]string{
		"docs/a.md":         messy,
		"docs/sub/b.md":     messy,
		"docs/sub/c.txt":    messy,
		"docs/.hidden/d.md": messy,
		"top.md":            messy,
	})

	code, out, _ := run(t, "", "--check", "--glob", "docs/**/*.md")
	assert.Equal(t, 1, code)
	assert.Equal(t, filepath.Join("docs", "a.md")+"\n"+filepath.Join("docs", "sub", "b.md")+"\n", out)

	code, out, _ = run(t, "", "--check", "-g", "*.md")
	assert.Equal(t, 1, code)
	assert.Equal(t, "top.md\n", out)

	code, _, errOut := run(t, "", "--glob", "nothing/*.md")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no files match")
}

func TestRun_ConfigIgnoreAndRules(t *testing.T) {
	workdir(t, map[string]string{
		".mdfmt.yaml":      "ignore:\n  - drafts/\n",
		"drafts/a.md":      messy,
		"notes/a.md":       messy,
		"custom.toml":      "rules = [\"trim-document\"]\n",
		"bad.yaml":         "strategy: sometimes\n",
		"unknown.yaml":     "colour: red\n",
		"docs/.mdfmt.yaml": "ignore:\n  - drafts/\n",
		"docs/drafts/a.md": messy,
	})

	code, out, _ := run(t, "", "--check", filepath.Join("drafts", "a.md"), filepath.Join("notes", "a.md"))
	assert.Equal(t, 1, code)
	assert.Equal(t, filepath.Join("notes", "a.md")+"\n", out)

	// A relative --config still roots its ignore patterns at the config's directory.
	code, out, errOut := run(t, "", "--config", filepath.Join("docs", ".mdfmt.yaml"), "--check", filepath.Join("docs", "drafts", "a.md"), filepath.Join("notes", "a.md"))
	assert.Equal(t, 1, code, errOut)
	assert.Equal(t, filepath.Join("notes", "a.md")+"\n", out)

	code, out, errOut = run(t, "x\n\n", "--config", "custom.toml")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "x\n", out)

	code, _, errOut = run(t, "", "--config", "bad.yaml", "notes/a.md")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid configuration")

	code, _, errOut = run(t, "", "--config", "unknown.yaml", "notes/a.md")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "colour")
}

func TestRun_FileErrors(t *testing.T) {
	workdir(t, map[string]string{"dir/a.md": messy, "bad.md": "---\nk: [\n---\n"})

	code, _, errOut := run(t, "", "missing.md")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "missing.md")

	code, _, errOut = run(t, "", "dir")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "is a directory")

	code, _, errOut = run(t, "", "--write", "bad.md")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "front matter")
	assert.Equal(t, "---\nk: [\n---\n", readFile(t, "bad.md"))
}

func TestRun_Patches(t *testing.T) {
	workdir(t, map[string]string{"a.md": "\U0001F600 x  \n\n\n"})

	code, out, errOut := run(t, "", "patches", "a.md")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "(0:3)-(2:0) \"\"\n", out)

	code, out, _ = run(t, "", "patches", "--unit", "utf16", "a.md")
	require.Equal(t, 0, code)
	assert.Equal(t, "(0:4)-(2:0) \"\"\n", out)

	code, out, _ = run(t, "", "patches", "--json", "a.md")
	require.Equal(t, 0, code)
	var got []jsonPatch
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []jsonPatch{{Start: jsonPosition{0, 3}, End: jsonPosition{2, 0}}}, got)

	code, out, _ = run(t, "", "patches", "a.md", "--width", "-1")
	require.Equal(t, 0, code)
	assert.Equal(t, "(0:3)-(2:0) \"\"\n", out)

	workdir(t, map[string]string{"clean.md": formatted})
	code, out, _ = run(t, "", "patches", "clean.md")
	require.Equal(t, 0, code)
	assert.Empty(t, out)
}

func TestWritePatches_Truncates(t *testing.T) {
	var out bytes.Buffer
	p := patch.NewInsert("hello world", position.Position{})
	writePatches(&out, []patch.Patch{p}, 12)
	line := strings.TrimSuffix(out.String(), "\n")
	assert.True(t, strings.HasPrefix(line, "(0:0)-(0:0)"), line)
	assert.True(t, strings.HasSuffix(line, "…"), line)
	assert.LessOrEqual(t, runewidth.StringWidth(line), 12)

	out.Reset()
	writePatches(&out, []patch.Patch{p}, 0)
	assert.Equal(t, "(0:0)-(0:0) \"hello world\"\n", out.String())
}

func TestRun_Version(t *testing.T) {
	workdir(t, nil)
	code, out, _ := run(t, "", "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "mdfmt "+Version)
	assert.Contains(t, out, "Go version:")
	assert.Contains(t, out, "OS/Arch:")
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	on, err := colorEnabled("always", &buf)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = colorEnabled("auto", &buf)
	require.NoError(t, err)
	assert.False(t, on)

	_, err = colorEnabled("loud", &buf)
	assert.Error(t, err)
	assert.Zero(t, terminalWidth(&buf))
}

func TestSplitGlob(t *testing.T) {
	tests := []struct {
		pattern, root, rest string
	}{
		{"*.md", ".", "*.md"},
		{"docs/**/*.md", "docs", "**/*.md"},
		{"docs/a.md", "docs", "a.md"},
		{"a/b/*/c.md", filepath.Join("a", "b"), "*/c.md"},
		{"/abs/*.md", filepath.FromSlash("/abs"), "*.md"},
	}
	for _, tc := range tests {
		root, rest := splitGlob(tc.pattern)
		assert.Equal(t, tc.root, root, tc.pattern)
		assert.Equal(t, tc.rest, rest, tc.pattern)
	}
}
