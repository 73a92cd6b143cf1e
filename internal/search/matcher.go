package search

import (
	"fmt"
	"regexp"
)

// DefaultPattern matches heading lines ("#" run then whitespace) and open
// checklist items ("* [ ] " or "- [ ] ", optionally indented).
const DefaultPattern = `^(#+\s|\s*[*-] \[ \] )`

// Matcher decides which lines are reported as matches.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles pattern. An empty pattern selects DefaultPattern.
func NewMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &Matcher{re: re}, nil
}

// MustMatcher is like NewMatcher but panics on an invalid pattern.
func MustMatcher(pattern string) *Matcher {
	m, err := NewMatcher(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether line, including its terminator, matches.
func (m *Matcher) Match(line []byte) bool {
	return m.re.Match(line)
}

// String returns the source pattern.
func (m *Matcher) String() string {
	return m.re.String()
}
