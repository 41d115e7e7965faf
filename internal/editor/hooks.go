package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/codalotl/mdfmt/internal/buffer"
)

// SaveHook runs before a buffer is written to path. An error aborts the save.
type SaveHook interface {
	BeforeSave(path string, buf buffer.Buffer) error
}

// SaveHookFunc adapts a function to SaveHook.
type SaveHookFunc func(path string, buf buffer.Buffer) error

func (f SaveHookFunc) BeforeSave(path string, buf buffer.Buffer) error {
	return f(path, buf)
}

// Hooks runs each hook in order and stops at the first error.
type Hooks []SaveHook

func (hs Hooks) BeforeSave(path string, buf buffer.Buffer) error {
	for _, h := range hs {
		if err := h.BeforeSave(path, buf); err != nil {
			return err
		}
	}
	return nil
}

// Ignorer reports whether a path is excluded from formatting.
type Ignorer interface {
	Ignored(path string) bool
}

// FormatOnSave formats markdown buffers before they are saved.
type FormatOnSave struct {
	Formatter *Formatter
	Enabled   bool
	Ignore    Ignorer // may be nil
}

// BeforeSave formats buf with FormatAll unless the hook is disabled, path is not a markdown file, or path is ignored.
func (h FormatOnSave) BeforeSave(path string, buf buffer.Buffer) error {
	if !h.Enabled || !IsMarkdown(path) {
		return nil
	}
	if h.Ignore != nil && h.Ignore.Ignored(path) {
		return nil
	}
	f := h.Formatter
	if f == nil {
		f = &Formatter{}
	}
	if _, err := f.FormatAll(buf); err != nil {
		return fmt.Errorf("format %s: %w", path, err)
	}
	return nil
}

// IsMarkdown reports whether path has a markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	}
	return false
}
