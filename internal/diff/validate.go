package diff

import (
	"fmt"
	"strings"
)

// InvariantError reports an operation stream that breaks the reconstruction invariants.
type InvariantError struct {
	Index  int // index of the offending operation, or -1 if the failure is about the whole stream
	Reason string
}

func (e *InvariantError) Error() string {
	if e.Index < 0 {
		return "diff: " + e.Reason
	}
	return fmt.Sprintf("diff: op[%d]: %s", e.Index, e.Reason)
}

// Validate checks that ops is a well-formed diff from oldText to newText. It returns an *InvariantError on the first violation.
func Validate(oldText, newText string, ops []Operation) error {
	for i, o := range ops {
		switch o.Op {
		case OpEqual, OpInsert, OpDelete:
		default:
			return &InvariantError{Index: i, Reason: fmt.Sprintf("unsupported operation %v", o.Op)}
		}
	}
	if OldText(ops) != oldText {
		return &InvariantError{Index: -1, Reason: "operations do not reconstruct the old text"}
	}
	if NewText(ops) != newText {
		return &InvariantError{Index: -1, Reason: "operations do not reconstruct the new text"}
	}
	return nil
}

// validate checks the Diff invariants and returns an error on the first violation.
func (d Diff) validate() error {
	var oldConcat, newConcat strings.Builder
	for hi, h := range d.Hunks {
		switch h.Op {
		case OpEqual:
			if h.OldText != h.NewText {
				return fmt.Errorf("hunk[%d]: OpEqual requires OldText==NewText", hi)
			}
			if h.Lines != nil {
				return fmt.Errorf("hunk[%d]: OpEqual requires Lines==nil", hi)
			}
		case OpInsert:
			if h.OldText != "" || h.NewText == "" {
				return fmt.Errorf("hunk[%d]: OpInsert requires OldText==\"\" and NewText!=\"\"", hi)
			}
		case OpDelete:
			if h.OldText == "" || h.NewText != "" {
				return fmt.Errorf("hunk[%d]: OpDelete requires OldText!=\"\" and NewText==\"\"", hi)
			}
		case OpReplace:
			if h.OldText == "" || h.NewText == "" {
				return fmt.Errorf("hunk[%d]: OpReplace requires OldText!=\"\" and NewText!=\"\"", hi)
			}
		default:
			return fmt.Errorf("hunk[%d]: unknown op %v", hi, h.Op)
		}

		oldConcat.WriteString(h.OldText)
		newConcat.WriteString(h.NewText)

		if h.Op == OpEqual {
			continue
		}

		var oldLines, newLines strings.Builder
		for li, ln := range h.Lines {
			switch ln.Op {
			case OpDelete:
				if ln.OldText == "" || ln.NewText != "" {
					return fmt.Errorf("hunk[%d].line[%d]: OpDelete requires OldText!=\"\" and NewText==\"\"", hi, li)
				}
			case OpInsert:
				if ln.OldText != "" || ln.NewText == "" {
					return fmt.Errorf("hunk[%d].line[%d]: OpInsert requires OldText==\"\" and NewText!=\"\"", hi, li)
				}
			default:
				return fmt.Errorf("hunk[%d].line[%d]: lines must be OpDelete or OpInsert, got %v", hi, li, ln.Op)
			}
			oldLines.WriteString(ln.OldText)
			newLines.WriteString(ln.NewText)
		}
		if h.OldText != oldLines.String() {
			return fmt.Errorf("hunk[%d]: lines do not reconstruct OldText", hi)
		}
		if h.NewText != newLines.String() {
			return fmt.Errorf("hunk[%d]: lines do not reconstruct NewText", hi)
		}
	}

	if d.OldText != oldConcat.String() {
		return fmt.Errorf("diff: hunks do not reconstruct OldText")
	}
	if d.NewText != newConcat.String() {
		return fmt.Errorf("diff: hunks do not reconstruct NewText")
	}
	return nil
}
