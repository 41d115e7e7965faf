package position

import "strings"

// Tracker incrementally computes the position reached after a growing prefix. Advancing by some text costs O(len(text)) (plus O(len(current line)) per Position
// call for Graphemes), so tracking a whole document piecewise is linear in its length instead of quadratic.
//
// Invariant: after any sequence of Advance calls, Position() == OfUnit(concatenation of all advanced text, unit).
//
// The zero Tracker counts Runes from the start of an empty buffer.
type Tracker struct {
	unit Unit
	line int
	col  int

	// tail holds the current line's text. Only used for Graphemes, where widths are not additive across a split point.
	tail strings.Builder
}

// NewTracker returns a Tracker at (0:0) counting columns in unit.
func NewTracker(unit Unit) *Tracker {
	return &Tracker{unit: unit}
}

// Unit returns the column unit of t.
func (t *Tracker) Unit() Unit {
	return t.unit
}

// Advance appends text to the tracked prefix.
func (t *Tracker) Advance(text string) {
	if text == "" {
		return
	}
	lines, rest := splitLast(text)
	if lines > 0 {
		t.line += lines
		t.col = 0
		t.tail.Reset()
	}
	if t.unit == Graphemes {
		t.tail.WriteString(rest)
		return
	}
	t.col += Width(rest, t.unit)
}

// Position returns the position reached after everything advanced so far.
func (t *Tracker) Position() Position {
	if t.unit == Graphemes {
		return Position{Line: t.line, Column: Width(t.tail.String(), Graphemes)}
	}
	return Position{Line: t.line, Column: t.col}
}

// Peek returns the position that Advance(text) would reach, without advancing.
func (t *Tracker) Peek(text string) Position {
	lines, rest := splitLast(text)
	if lines > 0 {
		return Position{Line: t.line + lines, Column: Width(rest, t.unit)}
	}
	if t.unit == Graphemes {
		return Position{Line: t.line, Column: Width(t.tail.String()+rest, Graphemes)}
	}
	return Position{Line: t.line, Column: t.col + Width(rest, t.unit)}
}

// splitLast returns the number of '\n' in text and the text after the last one.
func splitLast(text string) (int, string) {
	n := strings.Count(text, "\n")
	if n == 0 {
		return 0, text
	}
	return n, text[strings.LastIndexByte(text, '\n')+1:]
}
