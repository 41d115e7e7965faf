package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffText diffs oldText to newText line by line, returning a Diff. Adjacent removed and added lines are grouped into one hunk.
func DiffText(oldText, newText string) Diff {
	dmp := diffmatchpatch.New()

	// Diff based on lines: each line becomes one rune, so the diff can never split a line.
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	lineDiffs := dmp.DiffMainRunes(rOld, rNew, false)
	lineDiffs = dmp.DiffCleanupMerge(lineDiffs)

	decode := func(s string) []string {
		if s == "" {
			return nil
		}
		out := make([]string, 0, len(s))
		for _, r := range s {
			idx := int(r)
			if idx >= 0 && idx < len(lineArray) {
				out = append(out, lineArray[idx])
			}
		}
		return out
	}

	var hunks []DiffHunk
	var dels, ins []string

	flush := func() {
		if len(dels) == 0 && len(ins) == 0 {
			return
		}
		var op Op
		switch {
		case len(dels) > 0 && len(ins) > 0:
			op = OpReplace
		case len(dels) > 0:
			op = OpDelete
		default:
			op = OpInsert
		}
		lines := make([]DiffLine, 0, len(dels)+len(ins))
		for _, l := range dels {
			lines = append(lines, DiffLine{Op: OpDelete, OldText: l})
		}
		for _, l := range ins {
			lines = append(lines, DiffLine{Op: OpInsert, NewText: l})
		}
		hunks = append(hunks, DiffHunk{Op: op, OldText: strings.Join(dels, ""), NewText: strings.Join(ins, ""), Lines: lines})
		dels, ins = nil, nil
	}

	for _, d := range lineDiffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			text := strings.Join(decode(d.Text), "")
			if text == "" {
				continue
			}
			hunks = append(hunks, DiffHunk{Op: OpEqual, OldText: text, NewText: text})
		case diffmatchpatch.DiffDelete:
			dels = append(dels, decode(d.Text)...)
		case diffmatchpatch.DiffInsert:
			ins = append(ins, decode(d.Text)...)
		}
	}
	flush()

	diff := Diff{OldText: oldText, NewText: newText, Hunks: hunks}
	if err := diff.validate(); err != nil {
		panic(fmt.Errorf("DiffText: validate failed with %v", err))
	}
	return diff
}

// splitPreserveEOL splits text by eol and preserves the eol on each line, except possibly the last.
func splitPreserveEOL(text, eol string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for text != "" {
		idx := strings.Index(text, eol)
		if idx == -1 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:idx+len(eol)])
		text = text[idx+len(eol):]
	}
	return lines
}

// trimEOL removes a trailing eol from a line if present.
func trimEOL(line, eol string) (string, bool) {
	if strings.HasSuffix(line, eol) {
		return line[:len(line)-len(eol)], true
	}
	return line, false
}
