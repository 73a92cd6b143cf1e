package mining

import "strings"

// AncestorChain reduces headings, accumulated in document order, to the
// headings that enclose whatever follows the last of them.
//
// The buffer is scanned from the end. A heading is kept when it is shallower
// than the last kept one, so the result reads in document order with strictly
// decreasing depth towards the task. Siblings and deeper headings that a later
// heading already superseded are dropped, as are lines that are not headings.
func AncestorChain(headings []string) []string {
	var chain []string
	lastLevel := 0 // 0 accepts the first heading unconditionally
	for i := len(headings) - 1; i >= 0; i-- {
		line := headings[i]
		if !strings.HasPrefix(line, "#") {
			continue
		}
		level := HeadingDepth(line)
		if lastLevel != 0 && level >= lastLevel {
			continue
		}
		chain = append([]string{line}, chain...)
		lastLevel = level
	}
	return chain
}

// FormatChain renders a chain as printed before a task: every heading,
// passed through decorate when it is not nil, followed by a newline. An
// empty chain renders as "".
func FormatChain(chain []string, decorate func(string) string) string {
	var b strings.Builder
	for _, heading := range chain {
		if decorate != nil {
			heading = decorate(heading)
		}
		b.WriteString(heading)
		b.WriteString("\n")
	}
	return b.String()
}

// splitHeadingLines splits raw matched heading text into lines without their
// terminators, so a multi-line match still contributes one entry per line.
func splitHeadingLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	return lines
}
