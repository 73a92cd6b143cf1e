package mining

import "unicode"

// tabWidth is the indentation a single tab contributes.
const tabWidth = 4

// IndentationWidth measures the leading whitespace of line. A tab counts as 4,
// a space as 1. Other whitespace (line terminators, unicode spaces) belongs to
// the leading run but adds nothing.
func IndentationWidth(line string) int {
	width := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		}
	}
	return width
}

// HeadingDepth counts the run of '#' characters at the start of line.
// Returns 0 when line does not start with '#'.
func HeadingDepth(line string) int {
	depth := 0
	for depth < len(line) && line[depth] == '#' {
		depth++
	}
	return depth
}
