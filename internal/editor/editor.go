// Package editor formats live buffers. FormatAll and FormatSelection share one pipeline: transform the text, diff old against new, and apply the resulting
// patches to the buffer in order, so that cursor and scroll state outside the changed regions survive.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codalotl/mdfmt/internal/buffer"
	"github.com/codalotl/mdfmt/internal/format"
	"github.com/codalotl/mdfmt/internal/patch"
	"github.com/codalotl/mdfmt/internal/position"
)

// ErrNoSelection is returned by FormatSelection when the buffer has nothing selected.
var ErrNoSelection = errors.New("editor: nothing selected")

// Strategy is how formatted text reaches the buffer.
type Strategy int

const (
	Incremental Strategy = iota // apply localized patches
	Replace                     // replace the whole buffer with SetValue
)

func (s Strategy) String() string {
	switch s {
	case Incremental:
		return "incremental"
	case Replace:
		return "replace"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy parses "incremental" or "replace", case-insensitively. "" is Incremental.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "incremental":
		return Incremental, nil
	case "replace":
		return Replace, nil
	}
	return 0, fmt.Errorf("unknown strategy %q (want incremental or replace)", s)
}

// Formatter formats buffers. The zero value formats with format.Default(), rune columns, and the incremental strategy.
type Formatter struct {
	Transform format.Formatter // nil means format.Default()
	Builder   patch.Builder    // Builder.Unit must match the buffer's column unit
	Strategy  Strategy

	// Log, if set, receives printf-style diagnostics, such as a fallback to Replace.
	Log func(format string, args ...any)
}

// Result describes one formatting run.
type Result struct {
	Patches  []patch.Patch // in buffer coordinates, in application order
	Changed  bool
	Strategy Strategy // the strategy that was actually used
}

// FormatAll formats the whole buffer. If formatting or diffing fails, buf is untouched.
//
// If the buffer rejects a patch partway through, FormatAll replaces the whole buffer with the formatted text rather than leave it half formatted.
func (f *Formatter) FormatAll(buf buffer.Buffer) (Result, error) {
	oldText := buf.Value()
	newText, patches, err := f.compute(oldText)
	if err != nil {
		return Result{}, err
	}
	res := Result{Patches: patches, Changed: newText != oldText, Strategy: f.Strategy}
	if !res.Changed {
		return res, nil
	}
	res.Strategy = f.apply(buf, patches, newText)
	return res, nil
}

// FormatSelection formats only the selected text. The selection is formatted as if it were a whole document, and the patches are shifted to the selection's
// position in buf. It returns ErrNoSelection if nothing is selected.
func (f *Formatter) FormatSelection(buf buffer.Selector) (Result, error) {
	start, end, ok := buf.Selection()
	if !ok {
		return Result{}, ErrNoSelection
	}
	value := buf.Value()
	before, selected, after, err := cut(value, start, end, f.Builder.Unit)
	if err != nil {
		return Result{}, err
	}
	newSelected, patches, err := f.compute(selected)
	if err != nil {
		return Result{}, err
	}
	patches = patch.Shift(patches, start)
	res := Result{Patches: patches, Changed: newSelected != selected, Strategy: f.Strategy}
	if !res.Changed {
		return res, nil
	}
	res.Strategy = f.apply(buf, patches, before+newSelected+after)
	return res, nil
}

func (f *Formatter) compute(oldText string) (string, []patch.Patch, error) {
	t := f.Transform
	if t == nil {
		t = format.Default()
	}
	newText, err := t.Format(oldText)
	if err != nil {
		return "", nil, fmt.Errorf("editor: %w", err)
	}
	patches, err := patch.Compute(oldText, newText, f.Builder)
	if err != nil {
		return "", nil, fmt.Errorf("editor: %w", err)
	}
	return newText, patches, nil
}

// apply writes the formatted document to buf and returns the strategy used. full is the whole formatted buffer content.
func (f *Formatter) apply(buf buffer.Buffer, patches []patch.Patch, full string) Strategy {
	if f.Strategy == Replace {
		buf.SetValue(full)
		return Replace
	}
	if err := buffer.ApplyAll(buf, patches); err != nil {
		f.logf("editor: incremental apply failed, replacing buffer: %v", err)
		buf.SetValue(full)
		return Replace
	}
	return Incremental
}

func (f *Formatter) logf(format string, args ...any) {
	if f.Log != nil {
		f.Log(format, args...)
	}
}

// cut splits text around [start, end).
func cut(text string, start, end position.Position, unit position.Unit) (before, selected, after string, err error) {
	if end.Before(start) {
		return "", "", "", fmt.Errorf("editor: selection %v-%v: %w", start, end, buffer.ErrInvertedRange)
	}
	s, err := offset(text, start, unit)
	if err != nil {
		return "", "", "", err
	}
	e, err := offset(text, end, unit)
	if err != nil {
		return "", "", "", err
	}
	return text[:s], text[s:e], text[e:], nil
}

// offset maps pos to a byte offset in text.
func offset(text string, pos position.Position, unit position.Unit) (int, error) {
	off := 0
	for line := 0; line < pos.Line; line++ {
		i := strings.IndexByte(text[off:], '\n')
		if i < 0 {
			return 0, fmt.Errorf("editor: selection %v: %w", pos, buffer.ErrOutOfRange)
		}
		off += i + 1
	}
	line := text[off:]
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	idx, ok := position.ByteIndex(line, pos.Column, unit)
	if !ok {
		return 0, fmt.Errorf("editor: selection %v: %w", pos, buffer.ErrOutOfRange)
	}
	return off + idx, nil
}
