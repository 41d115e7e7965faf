package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Chars diffs oldText to newText character by character and returns the operation stream.
//
// The diff is diff-match-patch's DiffMain with its line-mode speedup and default one second deadline; past the deadline the result is still a valid (if less
// minimal) diff. Identical inputs return only OpEqual operations (none at all for two empty strings).
func Chars(oldText, newText string) []Operation {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, true)

	ops := make([]Operation, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = OpEqual
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		default:
			// Pass the unknown kind through so Validate and the patch builder reject it.
			op = Op(-1)
		}
		ops = append(ops, Operation{Op: op, Text: d.Text})
	}
	return ops
}

// OldText reconstructs the old side of ops: the Equal and Delete payloads, in order.
func OldText(ops []Operation) string {
	var b strings.Builder
	for _, o := range ops {
		if o.Op == OpEqual || o.Op == OpDelete {
			b.WriteString(o.Text)
		}
	}
	return b.String()
}

// NewText reconstructs the new side of ops: the Equal and Insert payloads, in order.
func NewText(ops []Operation) string {
	var b strings.Builder
	for _, o := range ops {
		if o.Op == OpEqual || o.Op == OpInsert {
			b.WriteString(o.Text)
		}
	}
	return b.String()
}
