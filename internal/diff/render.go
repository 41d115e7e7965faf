package diff

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// unifiedStyles colors unified diff output. Colors are forced on or off explicitly so output does not depend on whether stdout is a terminal.
type unifiedStyles struct {
	header *color.Color
	hunk   *color.Color
	add    *color.Color
	del    *color.Color
}

func newUnifiedStyles(enabled bool) unifiedStyles {
	s := unifiedStyles{
		header: color.New(color.Bold, color.FgCyan),
		hunk:   color.New(color.FgMagenta),
		add:    color.New(color.FgGreen),
		del:    color.New(color.FgRed),
	}
	for _, c := range []*color.Color{s.header, s.hunk, s.add, s.del} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// RenderUnifiedDiff returns a unified diff of d with "---"/"+++" file headers and "@@" hunk headers. Changes separated by at most 2*contextSize unchanged lines
// share one hunk. If color, the output includes ANSI color sequences. Lines are joined with "\n" and the result has no trailing newline. A diff without changes
// renders as just the two file headers.
func (d Diff) RenderUnifiedDiff(color bool, fromFilename string, toFilename string, contextSize int) string {
	styles := newUnifiedStyles(color)
	if contextSize < 0 {
		contextSize = 0
	}

	countLines := func(text string) int {
		return len(splitPreserveEOL(text, defaultEOL))
	}
	core := func(line string) string {
		c, _ := trimEOL(line, defaultEOL)
		return c
	}

	type outLine struct {
		tag  byte // ' ', '+', '-'
		text string
	}

	out := []string{
		styles.header.Sprint("--- " + fromFilename),
		styles.header.Sprint("+++ " + toFilename),
	}

	// 1-based line numbers in the old and new text at the start of the next hunk.
	oldPos, newPos := 1, 1

	i := 0
	for i < len(d.Hunks) {
		h := d.Hunks[i]
		if h.Op == OpEqual {
			n := countLines(h.OldText)
			oldPos += n
			newPos += n
			i++
			continue
		}

		var lines []outLine

		// Pre-context from the tail of the previous equal hunk.
		preK := 0
		if i > 0 && d.Hunks[i-1].Op == OpEqual {
			prev := splitPreserveEOL(d.Hunks[i-1].OldText, defaultEOL)
			preK = min(contextSize, len(prev))
			for _, ln := range prev[len(prev)-preK:] {
				lines = append(lines, outLine{tag: ' ', text: core(ln)})
			}
		}
		oldStart := oldPos - preK
		newStart := newPos - preK

		appendChange := func(hk DiffHunk) {
			for _, ln := range hk.Lines {
				if ln.Op == OpDelete {
					lines = append(lines, outLine{tag: '-', text: core(ln.OldText)})
				} else {
					lines = append(lines, outLine{tag: '+', text: core(ln.NewText)})
				}
			}
			oldPos += countLines(hk.OldText)
			newPos += countLines(hk.NewText)
		}
		appendChange(h)

		j := i + 1
		for j < len(d.Hunks) {
			if d.Hunks[j].Op != OpEqual {
				appendChange(d.Hunks[j])
				j++
				continue
			}
			eqLines := splitPreserveEOL(d.Hunks[j].OldText, defaultEOL)
			if j+1 < len(d.Hunks) && len(eqLines) <= 2*contextSize {
				// Small gap before another change: keep it all as context and continue the hunk.
				for _, ln := range eqLines {
					lines = append(lines, outLine{tag: ' ', text: core(ln)})
				}
				oldPos += len(eqLines)
				newPos += len(eqLines)
				j++
				continue
			}
			postK := min(contextSize, len(eqLines))
			for _, ln := range eqLines[:postK] {
				lines = append(lines, outLine{tag: ' ', text: core(ln)})
			}
			// The equal hunk is consumed here; the next change still finds it at i-1 for its pre-context.
			oldPos += len(eqLines)
			newPos += len(eqLines)
			j++
			break
		}
		i = j

		oldCount, newCount := 0, 0
		for _, ol := range lines {
			switch ol.tag {
			case ' ':
				oldCount++
				newCount++
			case '-':
				oldCount++
			case '+':
				newCount++
			}
		}
		// An empty side starts "before" its first line, per unified diff convention.
		if oldCount == 0 {
			oldStart--
		}
		if newCount == 0 {
			newStart--
		}

		out = append(out, styles.hunk.Sprint(fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount)))
		for _, ol := range lines {
			line := string(ol.tag) + ol.text
			switch ol.tag {
			case '+':
				out = append(out, styles.add.Sprint(line))
			case '-':
				out = append(out, styles.del.Sprint(line))
			default:
				out = append(out, line)
			}
		}
	}

	return strings.Join(out, "\n")
}
