// Package position maps text prefixes to zero-based (line, column) coordinates.
//
// A Position is the point reached after placing some text at the start of an empty buffer: Line counts the '\n' characters in the text, and Column counts the characters
// after the last '\n' (or the whole text if it has none). What counts as one "character" is a Unit; editors disagree (browser-based editors count UTF-16 code units,
// terminal editors usually count runes or bytes), and a patch is only meaningful if its producer and the buffer applying it agree on the Unit.
//
// Only '\n' breaks lines. A '\r' preceding a '\n' is an ordinary character at the end of the previous line.
package position

import "fmt"

// Position is a zero-based (line, column) coordinate.
type Position struct {
	Line   int // number of '\n' before the point
	Column int // characters since the last '\n', in some Unit
}

// String returns "(line:column)".
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, and 1 if p > other, ordering by line and then column.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Before reports whether p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After reports whether p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Offset translates p, a position inside a sub-document that begins at base in some enclosing document, into the enclosing document's coordinates. Only line 0 of
// the sub-document shares a line with base, so only it is shifted by base.Column.
func (p Position) Offset(base Position) Position {
	if p.Line == 0 {
		return Position{Line: base.Line, Column: base.Column + p.Column}
	}
	return Position{Line: base.Line + p.Line, Column: p.Column}
}

// Of returns the position reached after text, counting columns in Runes.
func Of(text string) Position {
	return OfUnit(text, Runes)
}

// OfUnit returns the position reached after text, counting columns in unit.
func OfUnit(text string, unit Unit) Position {
	var t Tracker
	t.unit = unit
	t.Advance(text)
	return t.Position()
}
