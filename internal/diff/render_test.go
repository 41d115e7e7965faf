package diff

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestRenderUnifiedDiff_SimpleReplace_NoColor(t *testing.T) {
	d := DiffText("a\nb\nc\n", "a\nX\nc\n")

	r := d.RenderUnifiedDiff(false, "old.md", "new.md", 1)

	exp := strings.Join([]string{
		"--- old.md",
		"+++ new.md",
		"@@ -1,3 +1,3 @@",
		" a",
		"-b",
		"+X",
		" c",
	}, "\n")
	assert.Equal(t, exp, r)
}

func TestRenderUnifiedDiff_SimpleReplace_Color(t *testing.T) {
	d := DiffText("a\nb\nc\n", "a\nX\nc\n")

	styles := newUnifiedStyles(true)
	header := color.New(color.Bold, color.FgCyan)
	header.EnableColor()

	r := d.RenderUnifiedDiff(true, "old.md", "new.md", 1)

	exp := strings.Join([]string{
		header.Sprint("--- old.md"),
		header.Sprint("+++ new.md"),
		styles.hunk.Sprint("@@ -1,3 +1,3 @@"),
		" a",
		styles.del.Sprint("-b"),
		styles.add.Sprint("+X"),
		" c",
	}, "\n")
	assert.Equal(t, exp, r)
	assert.Contains(t, r, "\x1b[", "color is forced on even when stdout is not a terminal")
	assert.NotEqual(t, d.RenderUnifiedDiff(false, "old.md", "new.md", 1), r)
}

func TestRenderUnifiedDiff_MergeBridgedChanges(t *testing.T) {
	d := DiffText("a\nb\nc\nd\ne\n", "a\nX\nc\nY\ne\n")

	r := d.RenderUnifiedDiff(false, "a.md", "a.md", 1)

	exp := strings.Join([]string{
		"--- a.md",
		"+++ a.md",
		"@@ -1,5 +1,5 @@",
		" a",
		"-b",
		"+X",
		" c",
		"-d",
		"+Y",
		" e",
	}, "\n")
	assert.Equal(t, exp, r)
}

func TestRenderUnifiedDiff_SeparateHunks(t *testing.T) {
	old := "1\n2\n3\n4\n5\n6\n7\n8\n"
	new := "1\nX\n3\n4\n5\n6\n7\nY\n"

	r := DiffText(old, new).RenderUnifiedDiff(false, "n.md", "n.md", 1)

	exp := strings.Join([]string{
		"--- n.md",
		"+++ n.md",
		"@@ -1,3 +1,3 @@",
		" 1",
		"-2",
		"+X",
		" 3",
		"@@ -7,2 +7,2 @@",
		" 7",
		"-8",
		"+Y",
	}, "\n")
	assert.Equal(t, exp, r)
}

func TestRenderUnifiedDiff_InsertIntoEmpty(t *testing.T) {
	r := DiffText("", "a\nb\n").RenderUnifiedDiff(false, "", "n.md", 3)

	exp := strings.Join([]string{
		"--- ",
		"+++ n.md",
		"@@ -0,0 +1,2 @@",
		"+a",
		"+b",
	}, "\n")
	assert.Equal(t, exp, r)
}

func TestRenderUnifiedDiff_NoChanges(t *testing.T) {
	r := DiffText("same\n", "same\n").RenderUnifiedDiff(false, "a.md", "a.md", 3)
	assert.Equal(t, "--- a.md\n+++ a.md", r)
}
