// Package diff computes diffs between an "old" and a "new" string, at two granularities.
//
// Character operations: Chars returns the raw diff-match-patch operation stream. Each Operation is OpEqual, OpInsert, or OpDelete with a text payload. This is
// the input to the patch package and is deliberately not post-processed (no semantic cleanup), so small edits stay small.
//
// Invariants (checked by Validate):
//   - concat(Equal and Delete payloads, in order) == oldText
//   - concat(Equal and Insert payloads, in order) == newText
//   - every Op is one of OpEqual, OpInsert, OpDelete
//
// Tie-break policy: within one changed region, the Delete comes before the Insert. ("a\nb" -> "a\nc" is Equal "a\n", Delete "b", Insert "c".) Consumers may
// rely on this ordering; it is diff-match-patch's merge order.
//
// Line hunks: DiffText groups whole lines into hunks for display, and Diff.RenderUnifiedDiff renders them as a unified diff:
//
//	d := diff.DiffText(oldText, newText)
//	fmt.Println(d.RenderUnifiedDiff(false, "a.md", "a.md", 3))
//
// Newlines: '\n' is the line separator. The last line may not end with '\n'; that fact is preserved in Lines.
package diff
