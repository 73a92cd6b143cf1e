package fileutil

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignoreFileNames are read from every walked directory when ignore files are honoured
var ignoreFileNames = []string{".gitignore", ".ignore"}

// loadIgnorePatterns reads dir/name as gitignore patterns scoped to domain,
// the path of dir below the walk root. A missing file yields no patterns.
func loadIgnorePatterns(dir, name string, domain []string) ([]gitignore.Pattern, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// ignoreStack holds the patterns of every ignore file from the walk root down
// to the current directory, shallow files first so deeper ones win.
type ignoreStack struct {
	root     string
	patterns []gitignore.Pattern
	matcher  gitignore.Matcher
}

func newIgnoreStack(root string) ignoreStack {
	return ignoreStack{root: root, matcher: gitignore.NewMatcher(nil)}
}

// with returns a stack extended by patterns; s itself is left untouched so
// sibling directories do not see each other's rules.
func (s ignoreStack) with(patterns []gitignore.Pattern) ignoreStack {
	if len(patterns) == 0 {
		return s
	}
	combined := make([]gitignore.Pattern, 0, len(s.patterns)+len(patterns))
	combined = append(combined, s.patterns...)
	combined = append(combined, patterns...)
	return ignoreStack{root: s.root, patterns: combined, matcher: gitignore.NewMatcher(combined)}
}

// domain splits p into its components below the walk root.
func (s ignoreStack) domain(p string) []string {
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." {
		return []string{}
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}

// ignored reports whether the last pattern matching p excludes it.
func (s ignoreStack) ignored(p string, isDir bool) bool {
	if len(s.patterns) == 0 {
		return false
	}
	return s.matcher.Match(s.domain(p), isDir)
}
