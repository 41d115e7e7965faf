package format

import (
	"errors"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// document is a markdown source split into lines, with the structure line-based rules need: which lines must be left verbatim, and where the top-level headings
// are.
type document struct {
	lines     []string // src split on '\n'; the last element is "" if src ends with '\n'
	bodyStart int      // index of the first line after the front matter (0 if none)
	verbatim  []bool   // per line: front matter, code, or HTML content
	breaks    map[int]bool
	headings  []heading
}

// heading is a top-level heading occupying lines [first, last].
type heading struct {
	level  int
	setext bool // if true, lines [first, last-1] are the text and last is the underline
	first  int
	last   int
	text   string // inline content, trimmed
}

func parseDocument(src string) (*document, error) {
	lines := strings.Split(src, "\n")
	doc := &document{
		lines:     lines,
		bodyStart: frontMatterLines(lines),
		verbatim:  make([]bool, len(lines)),
		breaks:    make(map[int]bool),
	}
	for i := 0; i < doc.bodyStart; i++ {
		doc.verbatim[i] = true
	}

	body := []byte(strings.Join(lines[doc.bodyStart:], "\n"))
	root := goldmark.New().Parser().Parse(text.NewReader(body))
	if root == nil {
		return nil, errors.New("parse markdown: nil document")
	}

	// Byte offset in body of the start of each body line.
	starts := make([]int, 0, len(lines)-doc.bodyStart)
	off := 0
	for _, l := range lines[doc.bodyStart:] {
		starts = append(starts, off)
		off += len(l) + 1
	}
	lineOf := func(offset int) int {
		return doc.bodyStart + sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	}

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
			segs := n.Lines()
			for i := 0; i < segs.Len(); i++ {
				doc.verbatim[lineOf(segs.At(i).Start)] = true
			}
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			// A hard line break is the only place trailing spaces carry meaning.
			if t := n.(*ast.Text); t.HardLineBreak() {
				doc.breaks[lineOf(t.Segment.Start)] = true
			}
		case ast.KindHeading:
			h := n.(*ast.Heading)
			if n.Parent() == nil || n.Parent().Kind() != ast.KindDocument {
				return ast.WalkSkipChildren, nil
			}
			segs := h.Lines()
			if segs.Len() == 0 {
				// Empty ATX heading ("#"); nothing to normalize.
				return ast.WalkSkipChildren, nil
			}
			first := lineOf(segs.At(0).Start)
			last := lineOf(segs.At(segs.Len() - 1).Start)
			var parts []string
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				parts = append(parts, strings.TrimSpace(string(seg.Value(body))))
			}
			hd := heading{level: h.Level, first: first, last: last, text: strings.Join(parts, " ")}
			if !isATXHeading(doc.lines[first]) && last+1 < len(doc.lines) {
				hd.setext = true
				hd.last = last + 1
			}
			doc.headings = append(doc.headings, hd)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// isATXHeading reports whether line opens an ATX heading: up to 3 spaces, 1-6 '#', then a space, tab, or end of line.
func isATXHeading(line string) bool {
	line = strings.TrimSuffix(line, "\r")
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	n := 0
	for i < len(line) && line[i] == '#' {
		i++
		n++
	}
	if n == 0 || n > 6 {
		return false
	}
	return i == len(line) || line[i] == ' ' || line[i] == '\t'
}

// isBlank reports whether line holds only whitespace.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// frontMatterLines returns how many leading lines form a YAML front matter block ("---" ... "---"), or 0 if there is none.
func frontMatterLines(lines []string) int {
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\r") != "---" {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		l := strings.TrimRight(lines[i], " \t\r")
		if l == "---" || l == "..." {
			return i + 1
		}
	}
	return 0
}
