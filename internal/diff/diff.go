package diff

import "fmt"

// Op is an operation from old text to new text.
type Op int

// Operations from old text to new text. OpReplace only appears in line hunks, never in an Operation stream.
const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Operation is one unit of a character-level diff: Text is kept (OpEqual), added (OpInsert), or removed (OpDelete).
type Operation struct {
	Op   Op
	Text string
}

func (o Operation) String() string {
	return fmt.Sprintf("%s %q", o.Op, o.Text)
}

// Diff is a line-oriented diff from old text to new text, used for display.
//
// As an illustration: a note with two separate edited paragraphs produces Hunks of Equal (prefix), Replace (first edit), Equal (between), Insert or Replace (second
// edit), Equal (suffix).
//
// Invariants:
//   - concat(Hunks.OldText) == OldText
//   - concat(Hunks.NewText) == NewText
type Diff struct {
	OldText string     // Entire original text.
	NewText string     // Entire revised text.
	Hunks   []DiffHunk // Ordered hunks that cover the whole diff and reconstruct OldText/NewText.
}

// DiffHunk is a contiguous group of lines. The '\n' is part of the hunk and its lines.
//
// Operations:
//   - OpEqual: OldText == NewText, Lines is nil
//   - OpInsert: OldText == "" && NewText != ""
//   - OpDelete: OldText != "" && NewText == ""
//   - OpReplace: OldText != "" && NewText != ""
//
// For non-equal hunks, Lines holds the removed lines (OpDelete) followed by the added lines (OpInsert), and concatenating their OldText/NewText reconstructs the
// hunk's OldText/NewText.
type DiffHunk struct {
	Op      Op
	OldText string
	NewText string
	Lines   []DiffLine
}

// DiffLine is one removed or added line, including its trailing '\n' if it had one.
type DiffLine struct {
	Op      Op     // OpDelete or OpInsert.
	OldText string // Removed line; empty for inserts.
	NewText string // Added line; empty for deletes.
}

// HasChanges reports whether d has any non-equal hunk.
func (d Diff) HasChanges() bool {
	for _, h := range d.Hunks {
		if h.Op != OpEqual {
			return true
		}
	}
	return false
}

// defaultEOL is the EOL ('\n'). Buffers count lines by '\n' as well, so "\r\n" files keep their '\r' as the last character of each line.
const defaultEOL = "\n"
