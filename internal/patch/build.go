package patch

import (
	"fmt"
	"unicode/utf8"

	"github.com/codalotl/mdfmt/internal/diff"
	"github.com/codalotl/mdfmt/internal/position"
)

// Builder builds patches from diff operations. The zero Builder counts columns in runes.
type Builder struct {
	// Unit is the column unit of emitted positions. It must match the unit of the buffer the patches are applied to.
	Unit position.Unit
}

// Build returns the patches that turn the old side of ops into its new side, in application order. An empty stream, or one holding only Equal operations, yields
// no patches.
//
// A Delete followed by an Insert (diff-match-patch's order for a replaced region) yields two patches with the same Start.
//
// Any operation other than Equal, Insert, or Delete is an error wrapping ErrUnknownOp; no patches are returned with an error.
func (b Builder) Build(ops []diff.Operation) ([]Patch, error) {
	var patches []Patch
	acc := position.NewTracker(b.Unit)
	for i, o := range ops {
		switch o.Op {
		case diff.OpEqual:
			acc.Advance(o.Text)
		case diff.OpInsert:
			patches = append(patches, NewInsert(o.Text, acc.Position()))
			acc.Advance(o.Text)
		case diff.OpDelete:
			patches = append(patches, NewDelete(acc.Position(), acc.Peek(o.Text)))
		default:
			return nil, fmt.Errorf("%w: op[%d] is %v", ErrUnknownOp, i, o.Op)
		}
	}
	return patches, nil
}

// Build is Builder{}.Build(ops).
func Build(ops []diff.Operation) ([]Patch, error) {
	return Builder{}.Build(ops)
}

// Compute diffs oldText to newText and builds the patches for it. The diff is validated first; a diff that does not reconstruct both texts returns an error
// (errors.As a *diff.InvariantError) and no patches.
//
// Both texts must be valid UTF-8: otherwise Compute returns ErrInvalidUTF8 and no patches, and the caller should leave the buffer alone.
func Compute(oldText, newText string, b Builder) ([]Patch, error) {
	if oldText == newText {
		return nil, nil
	}
	if !utf8.ValidString(oldText) || !utf8.ValidString(newText) {
		return nil, ErrInvalidUTF8
	}
	ops := diff.Chars(oldText, newText)
	if err := diff.Validate(oldText, newText, ops); err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	return b.Build(ops)
}
