package buffer

import (
	"fmt"
	"strings"

	"github.com/codalotl/mdfmt/internal/patch"
	"github.com/codalotl/mdfmt/internal/position"
)

// Text is an in-memory, line-oriented Buffer and Selector. Columns are counted in the Unit given to New. The zero value is not usable; use New.
type Text struct {
	unit  position.Unit
	lines []string // content split on '\n'; never empty

	selStart, selEnd position.Position
	hasSel           bool

	edits        int
	replacements int
}

// New returns a buffer holding text, whose positions count columns in unit.
func New(text string, unit position.Unit) *Text {
	return &Text{unit: unit, lines: strings.Split(text, "\n")}
}

// Unit returns the column unit of b.
func (b *Text) Unit() position.Unit {
	return b.unit
}

// Value returns the entire content.
func (b *Text) Value() string {
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of lines. An empty buffer has one (empty) line.
func (b *Text) LineCount() int {
	return len(b.lines)
}

// Edits returns how many patches have been applied.
func (b *Text) Edits() int {
	return b.edits
}

// Replacements returns how many times SetValue has been called.
func (b *Text) Replacements() int {
	return b.replacements
}

// Apply replaces [p.Start, p.End) with p.Text. On error the buffer is unchanged. A successful Apply clears the selection.
func (b *Text) Apply(p patch.Patch) error {
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: %v-%v", ErrInvertedRange, p.Start, p.End)
	}
	sl, si, err := b.resolve(p.Start)
	if err != nil {
		return err
	}
	el, ei, err := b.resolve(p.End)
	if err != nil {
		return err
	}

	joined := b.lines[sl][:si] + p.Text + b.lines[el][ei:]
	replaced := strings.Split(joined, "\n")

	lines := make([]string, 0, len(b.lines)-(el-sl+1)+len(replaced))
	lines = append(lines, b.lines[:sl]...)
	lines = append(lines, replaced...)
	lines = append(lines, b.lines[el+1:]...)
	b.lines = lines

	b.edits++
	b.hasSel = false
	return nil
}

// SetValue replaces the entire content and clears the selection.
func (b *Text) SetValue(text string) {
	b.lines = strings.Split(text, "\n")
	b.hasSel = false
	b.replacements++
}

// Select sets the selection to [start, end).
func (b *Text) Select(start, end position.Position) error {
	if end.Before(start) {
		return fmt.Errorf("%w: %v-%v", ErrInvertedRange, start, end)
	}
	if _, _, err := b.resolve(start); err != nil {
		return err
	}
	if _, _, err := b.resolve(end); err != nil {
		return err
	}
	b.selStart, b.selEnd, b.hasSel = start, end, true
	return nil
}

// Selection returns the selected range, if any.
func (b *Text) Selection() (start, end position.Position, ok bool) {
	return b.selStart, b.selEnd, b.hasSel
}

// SelectionText returns the selected text, or "" if nothing is selected.
func (b *Text) SelectionText() string {
	if !b.hasSel {
		return ""
	}
	s, err := b.Range(b.selStart, b.selEnd)
	if err != nil {
		// Select validated the range and every edit clears the selection.
		panic(err)
	}
	return s
}

// Range returns the text in [start, end).
func (b *Text) Range(start, end position.Position) (string, error) {
	if end.Before(start) {
		return "", fmt.Errorf("%w: %v-%v", ErrInvertedRange, start, end)
	}
	sl, si, err := b.resolve(start)
	if err != nil {
		return "", err
	}
	el, ei, err := b.resolve(end)
	if err != nil {
		return "", err
	}
	if sl == el {
		return b.lines[sl][si:ei], nil
	}
	var sb strings.Builder
	sb.WriteString(b.lines[sl][si:])
	for l := sl + 1; l < el; l++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[l])
	}
	sb.WriteByte('\n')
	sb.WriteString(b.lines[el][:ei])
	return sb.String(), nil
}

// End returns the position after the last character.
func (b *Text) End() position.Position {
	last := len(b.lines) - 1
	return position.Position{Line: last, Column: position.Width(b.lines[last], b.unit)}
}

// resolve maps pos to a line index and a byte index within that line.
func (b *Text) resolve(pos position.Position) (line int, idx int, err error) {
	if pos.Line < 0 || pos.Line >= len(b.lines) {
		return 0, 0, fmt.Errorf("%w: %v (buffer has %d lines)", ErrOutOfRange, pos, len(b.lines))
	}
	idx, ok := position.ByteIndex(b.lines[pos.Line], pos.Column, b.unit)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %v (column not on a %v boundary of line %d)", ErrOutOfRange, pos, b.unit, pos.Line)
	}
	return pos.Line, idx, nil
}
