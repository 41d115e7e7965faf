// Package buffer defines the live text buffer that patches are applied to, and provides Text, an in-memory implementation.
//
// A Buffer applies each patch against its content at the moment of the call. Callers must apply patches one at a time in the order they were produced.
package buffer

import (
	"errors"
	"fmt"

	"github.com/codalotl/mdfmt/internal/patch"
	"github.com/codalotl/mdfmt/internal/position"
)

var (
	// ErrOutOfRange is returned when a position does not exist in the buffer.
	ErrOutOfRange = errors.New("buffer: position out of range")

	// ErrInvertedRange is returned when a range ends before it starts.
	ErrInvertedRange = errors.New("buffer: range end before start")
)

// Buffer is a mutable text container, such as an editor's document model.
type Buffer interface {
	// Value returns the entire content.
	Value() string

	// Apply replaces [p.Start, p.End) with p.Text, resolving positions against the current content.
	Apply(p patch.Patch) error

	// SetValue replaces the entire content. It discards cursor, selection, and similar state; it is the fallback when localized edits are not possible.
	SetValue(text string)
}

// Selector is a Buffer with a selection.
type Selector interface {
	Buffer

	// Selection returns the selected range. ok is false if nothing is selected.
	Selection() (start, end position.Position, ok bool)
}

// ApplyAll applies patches to buf strictly in order. It stops at the first error, leaving the earlier patches applied.
func ApplyAll(buf Buffer, patches []patch.Patch) error {
	for i, p := range patches {
		if err := buf.Apply(p); err != nil {
			return fmt.Errorf("apply patch[%d] (%v): %w", i, p, err)
		}
	}
	return nil
}
