package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink records events as compact strings
type recordingSink struct {
	events   []string
	stopAt   int // stop (return false) at this event index, 0 = never
	failAt   int // return an error at this event index, 0 = never
	doc      Document
	finished int
}

func (s *recordingSink) record(event string) (bool, error) {
	s.events = append(s.events, event)
	n := len(s.events)
	if s.failAt == n {
		return false, errors.New("sink failure")
	}
	if s.stopAt == n {
		return false, nil
	}
	return true, nil
}

func (s *recordingSink) Begin(doc Document) (bool, error) {
	s.doc = doc
	return s.record("begin " + doc.Name)
}

func (s *recordingSink) Matched(line []byte, lineNumber int) (bool, error) {
	return s.record(fmt.Sprintf("match %d %q", lineNumber, line))
}

func (s *recordingSink) Context(kind ContextKind, line []byte) (bool, error) {
	return s.record(fmt.Sprintf("%s %q", kind, line))
}

func (s *recordingSink) Finish() error {
	s.finished++
	s.events = append(s.events, "finish")
	return nil
}

func runSearch(t *testing.T, s *Searcher, content string, sink *recordingSink) error {
	t.Helper()
	return s.SearchBytes(context.Background(), MustMatcher(""), NewDocument("/notes/todo.md"), []byte(content), sink)
}

func TestDefaultMatcher(t *testing.T) {
	m := MustMatcher("")

	tests := []struct {
		line string
		want bool
	}{
		{"# Heading\n", true},
		{"### Deep heading\n", true},
		{"#\n", true},
		{"#hashtag\n", false},
		{"* [ ] task\n", true},
		{"- [ ] task\n", true},
		{"\t- [ ] nested task\n", true},
		{"    * [ ] indented task\n", true},
		{"* [x] done\n", false},
		{"+ [ ] plus marker\n", false},
		{"*[ ] no space\n", false},
		{"plain text\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.line), func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match([]byte(tt.line)))
		})
	}
}

func TestNewMatcher(t *testing.T) {
	m, err := NewMatcher("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPattern, m.String())

	m, err = NewMatcher(`^TODO`)
	require.NoError(t, err)
	assert.True(t, m.Match([]byte("TODO: ship\n")))

	_, err = NewMatcher(`^(`)
	assert.Error(t, err)
}

func TestSearchBytesAfterContext(t *testing.T) {
	content := "A test\n\n* [ ] my task\n\t* additional info\nAnother test"
	sink := &recordingSink{}

	err := runSearch(t, &Searcher{AfterContext: 20}, content, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"begin todo.md",
		`match 3 "* [ ] my task\n"`,
		`after "\t* additional info\n"`,
		`after "Another test"`,
		"finish",
	}, sink.events)
	assert.Equal(t, "/notes/todo.md", sink.doc.Path)
}

func TestSearchBytesWindowLimits(t *testing.T) {
	content := "# H\none\ntwo\nthree\n* [ ] t\nfour\n"
	sink := &recordingSink{}

	err := runSearch(t, &Searcher{BeforeContext: 2, AfterContext: 2}, content, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"begin todo.md",
		`match 1 "# H\n"`,
		`after "one\n"`,
		`after "two\n"`,
		`before "three\n"`,
		`match 5 "* [ ] t\n"`,
		`after "four\n"`,
		"finish",
	}, sink.events)
}

func TestSearchBytesBeforeContextNotRepeated(t *testing.T) {
	content := "* [ ] a\nx\n* [ ] b\n"
	sink := &recordingSink{}

	err := runSearch(t, &Searcher{BeforeContext: 3, AfterContext: 1}, content, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"begin todo.md",
		`match 1 "* [ ] a\n"`,
		`after "x\n"`,
		`match 3 "* [ ] b\n"`,
		"finish",
	}, sink.events)
}

func TestSearchBytesMatchRestartsWindow(t *testing.T) {
	content := "* [ ] a\nx\n* [ ] b\ny\nz\n"
	sink := &recordingSink{}

	err := runSearch(t, &Searcher{AfterContext: 2}, content, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"begin todo.md",
		`match 1 "* [ ] a\n"`,
		`after "x\n"`,
		`match 3 "* [ ] b\n"`,
		`after "y\n"`,
		`after "z\n"`,
		"finish",
	}, sink.events)
}

func TestSearchBytesExclude(t *testing.T) {
	content := "```\n# comment\n```\n# Real\n"
	sink := &recordingSink{}
	s := &Searcher{
		AfterContext: 1,
		Exclude: func(content []byte) map[int]bool {
			return map[int]bool{2: true}
		},
	}

	require.NoError(t, runSearch(t, s, content, sink))
	assert.Equal(t, []string{"begin todo.md", `match 4 "# Real\n"`, "finish"}, sink.events)
}

func TestSearchBytesSinkStops(t *testing.T) {
	t.Run("stop at begin", func(t *testing.T) {
		sink := &recordingSink{stopAt: 1}
		require.NoError(t, runSearch(t, &Searcher{}, "* [ ] a\n", sink))
		assert.Equal(t, []string{"begin todo.md", "finish"}, sink.events)
	})

	t.Run("stop at match", func(t *testing.T) {
		sink := &recordingSink{stopAt: 2}
		require.NoError(t, runSearch(t, &Searcher{AfterContext: 5}, "* [ ] a\nb\n* [ ] c\n", sink))
		assert.Equal(t, []string{"begin todo.md", `match 1 "* [ ] a\n"`, "finish"}, sink.events)
	})

	t.Run("error skips finish", func(t *testing.T) {
		sink := &recordingSink{failAt: 2}
		err := runSearch(t, &Searcher{}, "* [ ] a\n", sink)
		require.EqualError(t, err, "sink failure")
		assert.Equal(t, 0, sink.finished)
	})
}

func TestSearchBytesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	err := (&Searcher{}).SearchBytes(ctx, MustMatcher(""), NewDocument("a.md"), []byte("* [ ] a\n"), sink)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("* [ ] my task\n"), 0644))

	sink := &recordingSink{}
	require.NoError(t, (&Searcher{}).SearchPath(context.Background(), MustMatcher(""), path, sink))
	assert.Equal(t, "sample.txt", sink.doc.Name)
	assert.Equal(t, []string{"begin sample.txt", `match 1 "* [ ] my task\n"`, "finish"}, sink.events)

	err := (&Searcher{}).SearchPath(context.Background(), MustMatcher(""), filepath.Join(dir, "missing.md"), sink)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSplitLines(t *testing.T) {
	assert.Empty(t, splitLines(nil))
	assert.Equal(t, [][]byte{[]byte("a\n"), []byte("b")}, splitLines([]byte("a\nb")))
	assert.Equal(t, [][]byte{[]byte("a\r\n"), []byte("\n")}, splitLines([]byte("a\r\n\n")))
}
