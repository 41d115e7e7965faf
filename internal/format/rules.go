package format

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter rejects documents whose leading "---" block is not valid YAML. It never changes the text.
type FrontMatter struct{}

func (FrontMatter) Name() string { return "front-matter" }

func (FrontMatter) Apply(src string) (string, error) {
	lines := strings.Split(src, "\n")
	n := frontMatterLines(lines)
	if n == 0 {
		return src, nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:n-1], "\n")), &node); err != nil {
		return "", fmt.Errorf("invalid front matter: %w", err)
	}
	return src, nil
}

// TrimTrailingWhitespace removes trailing spaces and tabs outside code, HTML, and front matter. A hard line break keeps exactly two spaces.
type TrimTrailingWhitespace struct{}

func (TrimTrailingWhitespace) Name() string { return "trim-trailing-whitespace" }

func (TrimTrailingWhitespace) Apply(src string) (string, error) {
	doc, err := parseDocument(src)
	if err != nil {
		return "", err
	}
	for i, l := range doc.lines {
		if doc.verbatim[i] {
			continue
		}
		body, eol := splitCR(l)
		trimmed := strings.TrimRight(body, " \t")
		if doc.breaks[i] && strings.HasSuffix(body, "  ") && strings.Trim(body[len(trimmed):], " ") == "" {
			trimmed += "  "
		}
		doc.lines[i] = trimmed + eol
	}
	return strings.Join(doc.lines, "\n"), nil
}

// NormalizeHeadings rewrites every top-level heading as ATX: setext underlines become '#' marks, indentation and closing sequences go, and exactly one
// space separates the marks from the text.
type NormalizeHeadings struct{}

func (NormalizeHeadings) Name() string { return "normalize-headings" }

func (NormalizeHeadings) Apply(src string) (string, error) {
	doc, err := parseDocument(src)
	if err != nil {
		return "", err
	}
	lines := doc.lines
	for i := len(doc.headings) - 1; i >= 0; i-- {
		h := doc.headings[i]
		_, eol := splitCR(lines[h.last])
		atx := strings.Repeat("#", h.level)
		if h.text != "" {
			atx += " " + escapeClosingHashes(h.text)
		}
		lines = splice(lines, h.first, h.last+1, atx+eol)
	}
	return strings.Join(lines, "\n"), nil
}

// HeadingSpacing surrounds every top-level heading with blank lines, except at the start and end of the document.
type HeadingSpacing struct{}

func (HeadingSpacing) Name() string { return "heading-spacing" }

func (HeadingSpacing) Apply(src string) (string, error) {
	doc, err := parseDocument(src)
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(doc.lines)+2*len(doc.headings))
	hi := 0
	for i, l := range doc.lines {
		var h *heading
		if hi < len(doc.headings) && doc.headings[hi].first <= i && i <= doc.headings[hi].last {
			h = &doc.headings[hi]
		}
		_, eol := splitCR(l)
		if h != nil && i == h.first && len(out) > 0 && !isBlank(out[len(out)-1]) {
			out = append(out, eol)
		}
		out = append(out, l)
		if h != nil && i == h.last {
			if i+1 < len(doc.lines) && !isBlank(doc.lines[i+1]) {
				out = append(out, eol)
			}
			hi++
		}
	}
	return strings.Join(out, "\n"), nil
}

// CollapseBlankLines replaces each run of blank lines outside code and HTML with a single empty line.
type CollapseBlankLines struct{}

func (CollapseBlankLines) Name() string { return "collapse-blank-lines" }

func (CollapseBlankLines) Apply(src string) (string, error) {
	doc, err := parseDocument(src)
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(doc.lines))
	prevBlank := false
	for i, l := range doc.lines {
		if doc.verbatim[i] || !isBlank(l) {
			out = append(out, l)
			prevBlank = false
			continue
		}
		if prevBlank {
			continue
		}
		_, eol := splitCR(l)
		out = append(out, eol)
		prevBlank = true
	}
	return strings.Join(out, "\n"), nil
}

// TrimDocument drops leading and trailing blank lines and ends the document with exactly one newline. A document of only whitespace becomes empty.
//
// A "---" line is never moved onto the first line: there it would open front matter. One empty line is kept in front of it instead.
type TrimDocument struct{}

func (TrimDocument) Name() string { return "trim-document" }

func (TrimDocument) Apply(src string) (string, error) {
	lines := strings.Split(src, "\n")
	start, end := 0, len(lines)
	for start < end && isBlank(lines[start]) {
		start++
	}
	for end > start && isBlank(lines[end-1]) {
		end--
	}
	if start == end {
		return "", nil
	}
	body := strings.Join(lines[start:end], "\n") + "\n"
	if start > 0 && strings.TrimRight(lines[start], " \t\r") == "---" {
		_, eol := splitCR(lines[start-1])
		body = eol + "\n" + body
	}
	return body, nil
}

// splitCR splits a trailing "\r" off a line so CRLF documents keep their line endings.
func splitCR(line string) (body, eol string) {
	if strings.HasSuffix(line, "\r") {
		return line[:len(line)-1], "\r"
	}
	return line, ""
}

// escapeClosingHashes escapes a trailing run of '#' that an ATX parser would otherwise read as a closing sequence.
func escapeClosingHashes(s string) string {
	t := strings.TrimRight(s, "#")
	if t == s {
		return s
	}
	if t == "" || strings.HasSuffix(t, " ") || strings.HasSuffix(t, "\t") {
		return t + `\` + s[len(t):]
	}
	return s
}

func splice(lines []string, from, to int, repl string) []string {
	out := make([]string, 0, len(lines)-(to-from)+1)
	out = append(out, lines[:from]...)
	out = append(out, repl)
	return append(out, lines[to:]...)
}
