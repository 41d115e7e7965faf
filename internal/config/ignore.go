package config

import (
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Matcher matches paths against the Ignore patterns of a Config.
type Matcher struct {
	root string // patterns are relative to root; "" means the working directory
	gi   *gitignore.GitIgnore
}

// Matcher compiles c.Ignore. Patterns are relative to the config file's directory.
func (c Config) Matcher() *Matcher {
	m := &Matcher{gi: gitignore.CompileIgnoreLines(c.Ignore...)}
	if c.Path != "" {
		m.root = filepath.Dir(c.Path)
		if abs, err := filepath.Abs(m.root); err == nil {
			m.root = abs
		}
	}
	return m
}

// Ignored reports whether path matches an ignore pattern. Paths outside the config's directory are never ignored.
func (m *Matcher) Ignored(path string) bool {
	if m == nil || m.gi == nil {
		return false
	}
	rel := path
	if m.root != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		rel, err = filepath.Rel(m.root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return false
		}
	}
	return m.gi.MatchesPath(filepath.ToSlash(rel))
}
