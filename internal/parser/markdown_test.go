package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func linesOf(m map[int]bool) []int {
	var lines []int
	for n := 1; n <= 100; n++ {
		if m[n] {
			lines = append(lines, n)
		}
	}
	return lines
}

func TestExcludedLines(t *testing.T) {
	doc := "---\n" + // 1
		"title: Notes\n" + // 2
		"# not a heading\n" + // 3
		"---\n" + // 4
		"# Real heading\n" + // 5
		"\n" + // 6
		"```sh\n" + // 7
		"# shell comment\n" + // 8
		"- [ ] not a task\n" + // 9
		"```\n" + // 10
		"\n" + // 11
		"* [ ] real task\n" // 12

	tests := []struct {
		name string
		opts ExcludeOptions
		want []int
	}{
		{name: "nothing selected", opts: ExcludeOptions{}, want: nil},
		{name: "front matter", opts: ExcludeOptions{FrontMatter: true}, want: []int{1, 2, 3, 4}},
		{name: "front matter and code", opts: ExcludeOptions{FrontMatter: true, CodeBlocks: true}, want: []int{1, 2, 3, 4, 8, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, linesOf(ExcludedLines([]byte(doc), tt.opts)))
		})
	}
}

func TestExcludedLinesCodeBlocks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []int
	}{
		{
			name: "fenced block",
			doc:  "# Title\n\n```\n# comment\n```\n* [ ] task\n",
			want: []int{4},
		},
		{
			name: "tilde fence",
			doc:  "~~~\n- [ ] example\n- [ ] example two\n~~~\n",
			want: []int{2, 3},
		},
		{
			name: "indented block after paragraph break",
			doc:  "Intro\n\n    # indented code\n\n* [ ] task\n",
			want: []int{3},
		},
		{
			name: "nested list content is not code",
			doc:  "* [ ] my task\n\t* additional info\n",
			want: nil,
		},
		{
			name: "front matter ignored when not selected",
			doc:  "---\ntitle: x\n---\n```\ncode\n```\n",
			want: []int{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, linesOf(ExcludedLines([]byte(tt.doc), ExcludeOptions{CodeBlocks: true})))
		})
	}
}

func TestFrontMatterLines(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantLines int
		wantSize  int
	}{
		{name: "valid", doc: "---\na: 1\n---\nbody\n", wantLines: 3, wantSize: 13},
		{name: "empty block", doc: "---\n---\nbody\n", wantLines: 2, wantSize: 8},
		{name: "no opening delimiter", doc: "# Title\n---\n", wantLines: 0},
		{name: "unterminated", doc: "---\na: 1\nbody\n", wantLines: 0},
		{name: "not yaml", doc: "---\n: : [\n---\n", wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, size := frontMatterLines([]byte(tt.doc))
			assert.Equal(t, tt.wantLines, lines)
			if tt.wantLines > 0 {
				assert.Equal(t, tt.wantSize, size)
			}
		})
	}
}

func TestExcluder(t *testing.T) {
	assert.Nil(t, Excluder(ExcludeOptions{}))

	exclude := Excluder(ExcludeOptions{CodeBlocks: true})
	if assert.NotNil(t, exclude) {
		assert.True(t, exclude([]byte("```\nx\n```\n"))[2])
	}
}
