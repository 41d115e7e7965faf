// Package patch turns a character-level diff into an ordered list of localized edits for a live text buffer.
//
// Applying the patches one at a time, in the order returned, to a buffer holding the old text leaves the buffer holding the new text. Coordinates are only valid
// in that order: each patch is positioned against the buffer as it reads after every earlier patch has been applied, not against the original text. Reordering,
// reversing, or applying patches concurrently desynchronizes them.
//
// The builder keeps an accumulator: the buffer prefix as it will read right before the next patch is applied. Equal text is appended to it. An Insert is emitted
// at the accumulator's end position, then appended. A Delete is emitted as the range from the accumulator's end to the end of accumulator+deleted text, and is
// not appended, because the deleted span no longer exists once that patch is applied.
package patch

import (
	"errors"
	"fmt"

	"github.com/codalotl/mdfmt/internal/position"
)

var (
	// ErrUnknownOp is returned when an operation stream holds something other than Equal, Insert, or Delete.
	ErrUnknownOp = errors.New("patch: unknown diff operation")

	// ErrInvertedRange is returned for a patch whose End is before its Start.
	ErrInvertedRange = errors.New("patch: end before start")

	// ErrInvalidUTF8 is returned by Compute when either text is not valid UTF-8. Such a document cannot be patched; the diff works on runes and
	// cannot reproduce the original bytes.
	ErrInvalidUTF8 = errors.New("patch: text is not valid UTF-8")
)

// Patch replaces the half-open range [Start, End) with Text. Start == End is a zero-width insertion point.
type Patch struct {
	Text  string
	Start position.Position
	End   position.Position
}

// NewInsert returns a patch inserting text at at.
func NewInsert(text string, at position.Position) Patch {
	return Patch{Text: text, Start: at, End: at}
}

// NewDelete returns a patch deleting [start, end).
func NewDelete(start, end position.Position) Patch {
	return Patch{Start: start, End: end}
}

// IsInsertion reports whether p removes nothing.
func (p Patch) IsInsertion() bool {
	return p.Start == p.End
}

// IsDeletion reports whether p removes text and inserts nothing.
func (p Patch) IsDeletion() bool {
	return p.Text == "" && p.Start != p.End
}

func (p Patch) String() string {
	if p.IsInsertion() {
		return fmt.Sprintf("insert %q at %v", p.Text, p.Start)
	}
	if p.Text == "" {
		return fmt.Sprintf("delete %v-%v", p.Start, p.End)
	}
	return fmt.Sprintf("replace %v-%v with %q", p.Start, p.End, p.Text)
}

// Validate checks that every patch has End >= Start.
func Validate(patches []Patch) error {
	for i, p := range patches {
		if p.End.Before(p.Start) {
			return fmt.Errorf("%w: patch[%d] %v-%v", ErrInvertedRange, i, p.Start, p.End)
		}
	}
	return nil
}

// Shift translates patches computed for a sub-document that begins at base (such as a selection) into the enclosing document's coordinates.
//
// This stays correct under sequential application because every patch only changes text at or after its own Start, which is at or after base, so the text before
// base, and with it base itself, never moves.
func Shift(patches []Patch, base position.Position) []Patch {
	out := make([]Patch, len(patches))
	for i, p := range patches {
		out[i] = Patch{Text: p.Text, Start: p.Start.Offset(base), End: p.End.Offset(base)}
	}
	return out
}
