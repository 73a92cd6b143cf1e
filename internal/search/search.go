// Package search turns documents into the ordered line events consumed by a
// Sink: one Begin, then matched lines interleaved with the before/after
// context windows around them, then Finish.
package search

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Document identifies the document being searched.
type Document struct {
	// Path is the path the document was read from
	Path string
	// Name is the display name, the base name of Path
	Name string
}

// NewDocument builds a Document for path.
func NewDocument(path string) Document {
	return Document{Path: path, Name: filepath.Base(path)}
}

// ContextKind says why a non-matching line was reported.
type ContextKind int

const (
	// ContextBefore lines precede a match
	ContextBefore ContextKind = iota
	// ContextAfter lines follow a match
	ContextAfter
	// ContextOther lines are reported for any other reason
	ContextOther
)

func (k ContextKind) String() string {
	switch k {
	case ContextBefore:
		return "before"
	case ContextAfter:
		return "after"
	default:
		return "other"
	}
}

// Sink receives the events of one document. Returning false from Begin,
// Matched or Context stops the document early; Finish is still called.
// Returning an error aborts the document without calling Finish.
type Sink interface {
	Begin(doc Document) (bool, error)
	Matched(line []byte, lineNumber int) (bool, error)
	Context(kind ContextKind, line []byte) (bool, error)
	Finish() error
}

// Searcher reports matches of a Matcher together with bounded context
// windows. Lines are reported with their terminators.
type Searcher struct {
	// BeforeContext is the number of lines reported before each match
	BeforeContext int
	// AfterContext is the number of lines reported after each match
	AfterContext int
	// Exclude, when set, returns 1-based line numbers that must never be
	// reported as matches. They may still be reported as context.
	Exclude func(content []byte) map[int]bool
}

// SearchPath reads the file at path and searches it.
func (s *Searcher) SearchPath(ctx context.Context, m *Matcher, path string, sink Sink) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.SearchBytes(ctx, m, NewDocument(path), content, sink)
}

// SearchBytes searches content, reporting events for doc to sink.
func (s *Searcher) SearchBytes(ctx context.Context, m *Matcher, doc Document, content []byte, sink Sink) error {
	ok, err := sink.Begin(doc)
	if err != nil {
		return err
	}
	if !ok {
		return sink.Finish()
	}

	var excluded map[int]bool
	if s.Exclude != nil {
		excluded = s.Exclude(content)
	}

	lines := splitLines(content)
	afterRemaining := 0
	lastReported := 0

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNumber := i + 1

		if !excluded[lineNumber] && m.Match(line) {
			start := lineNumber - s.BeforeContext
			if start <= lastReported {
				start = lastReported + 1
			}
			for n := start; n < lineNumber; n++ {
				if ok, err = sink.Context(ContextBefore, lines[n-1]); err != nil || !ok {
					return finishEarly(sink, err)
				}
			}
			if ok, err = sink.Matched(line, lineNumber); err != nil || !ok {
				return finishEarly(sink, err)
			}
			lastReported = lineNumber
			afterRemaining = s.AfterContext
			continue
		}

		if afterRemaining > 0 {
			if ok, err = sink.Context(ContextAfter, line); err != nil || !ok {
				return finishEarly(sink, err)
			}
			lastReported = lineNumber
			afterRemaining--
		}
	}

	return sink.Finish()
}

// finishEarly ends a document a sink stopped, or returns the sink's error.
func finishEarly(sink Sink, err error) error {
	if err != nil {
		return err
	}
	return sink.Finish()
}

// splitLines splits content into lines that keep their "\n" terminator. A
// final line without a terminator is kept as is.
func splitLines(content []byte) [][]byte {
	lines := bytes.SplitAfter(content, []byte("\n"))
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}
