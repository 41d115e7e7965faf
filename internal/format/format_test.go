package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		src  string
		want string
	}{
		{name: "trim trailing", rule: TrimTrailingWhitespace{}, src: "a \t\nb\t\n", want: "a\nb\n"},
		{name: "trim keeps hard break", rule: TrimTrailingWhitespace{}, src: "a    \nb\n", want: "a  \nb\n"},
		{name: "trim drops break at paragraph end", rule: TrimTrailingWhitespace{}, src: "a  \n\nb\n", want: "a\n\nb\n"},
		{name: "trim skips fenced code", rule: TrimTrailingWhitespace{}, src: "```\ncode  \n```  \n", want: "```\ncode  \n```\n"},
		{name: "trim keeps crlf", rule: TrimTrailingWhitespace{}, src: "a  \r\n\r\nb \r\n", want: "a\r\n\r\nb\r\n"},

		{name: "collapse", rule: CollapseBlankLines{}, src: "a\n\n\n  \nb\n", want: "a\n\nb\n"},
		{name: "collapse skips fenced code", rule: CollapseBlankLines{}, src: "```\nx\n\n\ny\n```\n", want: "```\nx\n\n\ny\n```\n"},
		{name: "collapse skips indented code", rule: CollapseBlankLines{}, src: "para\n\n    x\n\n\n    y\n", want: "para\n\n    x\n\n\n    y\n"},

		{name: "atx spacing", rule: NormalizeHeadings{}, src: "#   Title   \n", want: "# Title\n"},
		{name: "atx closing", rule: NormalizeHeadings{}, src: "## Sub ##\n", want: "## Sub\n"},
		{name: "atx indented", rule: NormalizeHeadings{}, src: "  ### Deep\n", want: "### Deep\n"},
		{name: "setext h1", rule: NormalizeHeadings{}, src: "Title\n=====\n\nbody\n", want: "# Title\n\nbody\n"},
		{name: "setext h2 multiline", rule: NormalizeHeadings{}, src: "two\nlines\n---\n", want: "## two lines\n"},
		{name: "escapes hashes", rule: NormalizeHeadings{}, src: "C #\n===\n", want: "# C \\#\n"},
		{name: "not a heading", rule: NormalizeHeadings{}, src: "#hashtag\n", want: "#hashtag\n"},
		{name: "heading in quote", rule: NormalizeHeadings{}, src: ">   #  q\n", want: ">   #  q\n"},
		{name: "heading in code", rule: NormalizeHeadings{}, src: "```\n#  x\n```\n", want: "```\n#  x\n```\n"},
		{name: "empty heading", rule: NormalizeHeadings{}, src: "#\n", want: "#\n"},
		{name: "front matter untouched", rule: NormalizeHeadings{}, src: "---\ntitle: x\n---\nBody\n---\n", want: "---\ntitle: x\n---\n## Body\n"},

		{name: "spacing", rule: HeadingSpacing{}, src: "a\n# H\nb\n", want: "a\n\n# H\n\nb\n"},
		{name: "spacing at edges", rule: HeadingSpacing{}, src: "# H\nb\n# I", want: "# H\n\nb\n\n# I"},
		{name: "spacing already there", rule: HeadingSpacing{}, src: "a\n\n# H\n\nb\n", want: "a\n\n# H\n\nb\n"},
		{name: "spacing setext", rule: HeadingSpacing{}, src: "a\n\nT\n---\nb\n", want: "a\n\nT\n---\n\nb\n"},

		{name: "trim document", rule: TrimDocument{}, src: "\n\n  \n# T\n\n\n", want: "# T\n"},
		{name: "trim document adds newline", rule: TrimDocument{}, src: "x", want: "x\n"},
		{name: "trim document whitespace only", rule: TrimDocument{}, src: " \n\t\n", want: ""},
		{name: "trim document empty", rule: TrimDocument{}, src: "", want: ""},
		{name: "trim document keeps break off first line", rule: TrimDocument{}, src: "\n\n---\ntext\n---\n", want: "\n---\ntext\n---\n"},
		{name: "trim document keeps break off first line crlf", rule: TrimDocument{}, src: "\r\n---\r\n", want: "\r\n---\r\n"},
		{name: "trim document front matter at start", rule: TrimDocument{}, src: "---\na: 1\n---\n\n", want: "---\na: 1\n---\n"},

		{name: "front matter valid", rule: FrontMatter{}, src: "---\na: 1\n---\n", want: "---\na: 1\n---\n"},
		{name: "no front matter", rule: FrontMatter{}, src: "# x\n", want: "# x\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.rule.Apply(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFrontMatter_Invalid(t *testing.T) {
	_, err := FrontMatter{}.Apply("---\na: [1,\n---\n# T\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid front matter")

	_, err = Default().Format("---\na: [1,\n---\n# T\n")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "format: front-matter:"))
}

func TestDefault(t *testing.T) {
	src := "Title\n=====\nSome text   \n\n\n\n##   Sub ##\n* item\n\n```go\nx := 1   \n\n\n```\n\n\n"
	want := "# Title\n\nSome text\n\n## Sub\n\n* item\n\n```go\nx := 1   \n\n\n```\n"
	got, err := Default().Format(src)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDefault_Idempotent(t *testing.T) {
	docs := []string{
		"",
		"   \n\n",
		"plain",
		"Title\n=====\nSome text   \n\n\n\n##   Sub ##\n* item\n",
		"a  \n# H\nb    \nc\n",
		"---\ntitle: x\n---\nBody\n---\ntext\n",
		"> quote\n# H\n    code  \n\n\n    more\n",
		"<div>\n\n\n</div>\n\nText\n===\n",
		"\u00e9\U0001F600 line   \r\n\r\n\r\n# CRLF  #\r\nbody\r\n",
		"C #\n===\n",
		"\n---\n```\n---\n# H\n<div>\n    indented  \n\r\n",
		"\n\n---\nkey: [\n---\nText\n",
		"  \n---  \nnot: front matter\n...\n",
	}
	for _, doc := range docs {
		once, err := Default().Format(doc)
		require.NoError(t, err, "%q", doc)
		twice, err := Default().Format(once)
		require.NoError(t, err, "%q", doc)
		assert.Equal(t, once, twice, "%q", doc)
	}
}

func TestByName(t *testing.T) {
	rs, err := ByName([]string{"Trim-Document", " collapse-blank-lines"})
	require.NoError(t, err)
	assert.Equal(t, []string{"trim-document", "collapse-blank-lines"}, rs.Names())

	_, err = ByName([]string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown rule "nope"`)

	rs, err = ByName(nil)
	require.NoError(t, err)
	got, err := rs.Format("  x  ")
	require.NoError(t, err)
	assert.Equal(t, "  x  ", got)
}

func TestDefault_IsACopy(t *testing.T) {
	d := Default()
	d[0] = TrimDocument{}
	assert.Equal(t, "front-matter", Default()[0].Name())
}

func TestFormatterFunc(t *testing.T) {
	boom := errors.New("boom")
	var f Formatter = FormatterFunc(func(string) (string, error) { return "", boom })
	_, err := f.Format("x")
	assert.ErrorIs(t, err, boom)

	f = FormatterFunc(func(s string) (string, error) { return strings.ToUpper(s), nil })
	got, err := f.Format("ab")
	require.NoError(t, err)
	assert.Equal(t, "AB", got)
}
