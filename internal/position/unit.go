package position

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/graphemes"
)

// Unit is what a column counts.
//
// Graphemes is only exact when every edit boundary falls on a grapheme boundary. A character-level diff can split a cluster (ex: insert a combining accent after
// an existing "e"), and such a split point has no grapheme coordinate.
type Unit int

const (
	Runes     Unit = iota // Unicode code points. The default.
	Bytes                 // UTF-8 bytes.
	UTF16                 // UTF-16 code units; runes outside the BMP count as 2.
	Graphemes             // Extended grapheme clusters (user-perceived characters).
)

var unitNames = map[Unit]string{
	Runes:     "runes",
	Bytes:     "bytes",
	UTF16:     "utf16",
	Graphemes: "graphemes",
}

func (u Unit) String() string {
	if s, ok := unitNames[u]; ok {
		return s
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// ParseUnit parses a Unit name as returned by Unit.String (case-insensitive). The empty string is Runes.
func ParseUnit(s string) (Unit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Runes, nil
	}
	for u, name := range unitNames {
		if name == s {
			return u, nil
		}
	}
	return Runes, fmt.Errorf("unknown column unit %q (want runes, bytes, utf16, or graphemes)", s)
}

// Width returns the number of columns text occupies in unit. text is expected to hold no '\n'; if it does, the newlines count as ordinary characters.
func Width(text string, unit Unit) int {
	switch unit {
	case Bytes:
		return len(text)
	case UTF16:
		n := 0
		for _, r := range text {
			if r >= 0x10000 {
				n += 2
			} else {
				n++
			}
		}
		return n
	case Graphemes:
		n := 0
		iter := graphemes.FromString(text)
		for iter.Next() {
			n++
		}
		return n
	default:
		return utf8.RuneCountInString(text)
	}
}

// ByteIndex returns the byte index in line at which column col (in unit) begins. ok is false if col is past the end of line or falls inside a character (for
// example, between the two UTF-16 units of a surrogate pair).
func ByteIndex(line string, col int, unit Unit) (idx int, ok bool) {
	if col < 0 {
		return 0, false
	}
	if col == 0 {
		return 0, true
	}
	switch unit {
	case Bytes:
		if col > len(line) || !utf8.RuneStart(byteAt(line, col)) {
			return 0, false
		}
		return col, true
	case Graphemes:
		n := 0
		iter := graphemes.FromString(line)
		for iter.Next() {
			n++
			if n == col {
				return iter.End(), true
			}
		}
		return 0, false
	}

	n := 0
	for i, r := range line {
		if n == col {
			return i, true
		}
		if n > col {
			return 0, false
		}
		if unit == UTF16 && r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	if n == col {
		return len(line), true
	}
	return 0, false
}

// byteAt returns line[i], or a rune-start byte when i == len(line).
func byteAt(line string, i int) byte {
	if i == len(line) {
		return 0
	}
	return line[i]
}
