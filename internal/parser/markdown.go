// Package parser finds the markdown lines that must never be taken for
// headings or tasks: YAML front matter and code blocks.
package parser

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// ExcludeOptions selects which regions ExcludedLines reports
type ExcludeOptions struct {
	// FrontMatter excludes a leading "---" delimited YAML block
	FrontMatter bool
	// CodeBlocks excludes the content of fenced and indented code blocks
	CodeBlocks bool
}

// ExcludedLines returns the 1-based numbers of the lines of content that fall
// inside the selected regions. The result is empty, never nil.
func ExcludedLines(content []byte, opts ExcludeOptions) map[int]bool {
	excluded := make(map[int]bool)

	body := content
	offset := 0
	if opts.FrontMatter {
		if n, size := frontMatterLines(content); n > 0 {
			for line := 1; line <= n; line++ {
				excluded[line] = true
			}
			body = content[size:]
			offset = n
		}
	}

	if opts.CodeBlocks {
		for _, line := range codeBlockLines(body) {
			excluded[line+offset] = true
		}
	}

	return excluded
}

// Excluder adapts ExcludedLines to the searcher's Exclude hook
func Excluder(opts ExcludeOptions) func(content []byte) map[int]bool {
	if !opts.FrontMatter && !opts.CodeBlocks {
		return nil
	}
	return func(content []byte) map[int]bool {
		return ExcludedLines(content, opts)
	}
}

// frontMatterLines reports how many lines a leading front matter block spans,
// delimiters included, and its size in bytes. A block that is not valid YAML
// is not front matter.
func frontMatterLines(content []byte) (lines int, size int) {
	rest := content
	first, rest := nextLine(rest)
	if !bytes.Equal(bytes.TrimSpace(first), []byte("---")) {
		return 0, 0
	}
	size = len(content) - len(rest)

	start := size
	for n := 2; len(rest) > 0; n++ {
		var line []byte
		line, rest = nextLine(rest)
		if bytes.Equal(bytes.TrimSpace(line), []byte("---")) {
			var fm map[string]interface{}
			if err := yaml.Unmarshal(content[start:size], &fm); err != nil {
				return 0, 0
			}
			return n, len(content) - len(rest)
		}
		size = len(content) - len(rest)
	}

	// No closing delimiter found
	return 0, 0
}

// nextLine splits off the first line of b, terminator included
func nextLine(b []byte) (line, rest []byte) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i+1], b[i+1:]
	}
	return b, nil
}

// codeBlockLines returns the 1-based numbers of lines holding code block content
func codeBlockLines(source []byte) []int {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	starts := lineStarts(source)

	var lines []int
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			segments := n.Lines()
			for i := 0; i < segments.Len(); i++ {
				lines = append(lines, lineOf(starts, segments.At(i).Start))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return lines
}

// lineStarts returns the byte offset at which every line of source begins
func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf maps a byte offset to its 1-based line number
func lineOf(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
}
