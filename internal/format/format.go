// Package format is the markdown transform: it maps a document to its formatted form. It knows nothing about buffers or patches; the editor package diffs its
// output against the input.
//
// The built-in pipeline is idempotent: formatting formatted output changes nothing.
package format

import (
	"fmt"
	"strings"
)

// Formatter transforms a document. Implementations must be deterministic. An error means the document could not be formatted and nothing should change.
type Formatter interface {
	Format(text string) (string, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(text string) (string, error)

// Format calls f(text).
func (f FormatterFunc) Format(text string) (string, error) {
	return f(text)
}

// Rule is one formatting step.
type Rule interface {
	Name() string
	Apply(src string) (string, error)
}

// Rules applies each rule in order to the output of the previous one.
type Rules []Rule

// Format runs the pipeline. The first failing rule aborts it.
func (rs Rules) Format(text string) (string, error) {
	for _, r := range rs {
		out, err := r.Apply(text)
		if err != nil {
			return "", fmt.Errorf("format: %s: %w", r.Name(), err)
		}
		text = out
	}
	return text, nil
}

// Names returns the rule names in order.
func (rs Rules) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name()
	}
	return names
}

// builtins lists every built-in rule in default pipeline order.
var builtins = []Rule{
	FrontMatter{},
	TrimTrailingWhitespace{},
	NormalizeHeadings{},
	HeadingSpacing{},
	CollapseBlankLines{},
	TrimDocument{},
}

// Default returns the standard pipeline.
func Default() Rules {
	out := make(Rules, len(builtins))
	copy(out, builtins)
	return out
}

// ByName builds a pipeline from rule names, in the given order. Names are case-insensitive. An unknown name is an error.
func ByName(names []string) (Rules, error) {
	out := make(Rules, 0, len(names))
	for _, name := range names {
		r, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("format: unknown rule %q (known: %s)", name, strings.Join(Default().Names(), ", "))
		}
		out = append(out, r)
	}
	return out, nil
}

func lookup(name string) (Rule, bool) {
	name = strings.TrimSpace(name)
	for _, r := range builtins {
		if strings.EqualFold(r.Name(), name) {
			return r, true
		}
	}
	return nil, false
}
