// Package mining extracts open checklist items from markdown line events.
//
// A Session holds what lives for a whole run: the output sink and whether any
// task has been printed yet. Each document gets its own Engine from
// Session.NewEngine. The engine buffers heading lines until a task line
// arrives, prints the task under the headings that enclose it, then prints
// the after-context lines nested deeper than the task until the indentation
// falls back.
package mining

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/harrison/mdtask/internal/search"
)

// Session is the run-wide state shared by the engines of every document.
// Engines of one session must not run concurrently.
type Session struct {
	out   io.Writer
	style style

	separatorOnMatchOnly bool
	firstOutputEmitted   bool
	tasks                int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSeparatorOnMatchOnly holds back a document's "--name--" separator
// until its first task is printed, so documents without tasks print nothing.
func WithSeparatorOnMatchOnly(enabled bool) SessionOption {
	return func(s *Session) { s.separatorOnMatchOnly = enabled }
}

// WithColor colors document separators and headings with ANSI codes.
func WithColor(enabled bool) SessionOption {
	return func(s *Session) {
		if enabled {
			s.style = colorStyle()
		} else {
			s.style = plainStyle()
		}
	}
}

// NewSession creates a session writing to out.
func NewSession(out io.Writer, opts ...SessionOption) *Session {
	s := &Session{out: out, style: plainStyle()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns the number of tasks printed so far.
func (s *Session) Tasks() int {
	return s.tasks
}

// NewEngine returns a fresh engine for the next document.
func (s *Session) NewEngine() *Engine {
	return &Engine{session: s}
}

// write sends text to the sink, classifying failures as WriteError.
func (s *Session) write(text string) error {
	if _, err := io.WriteString(s.out, text); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// Engine mines a single document. It implements search.Sink.
type Engine struct {
	session *Session
	doc     search.Document

	pendingHeaders     []string
	lastMatchIndent    int
	continuationActive bool
	separatorPending   bool
	tasks              int
}

var _ search.Sink = (*Engine)(nil)

// Begin starts the document and prints its separator. With
// WithSeparatorOnMatchOnly the separator waits for the first task.
func (e *Engine) Begin(doc search.Document) (bool, error) {
	e.doc = doc
	e.pendingHeaders = nil
	e.lastMatchIndent = 0
	e.continuationActive = false
	e.tasks = 0

	if e.session.separatorOnMatchOnly {
		e.separatorPending = true
		return true, nil
	}
	return true, e.writeSeparator()
}

// Matched handles a line selected by the matcher: headings are buffered,
// anything else is a task and is printed with its ancestor headings.
func (e *Engine) Matched(line []byte, lineNumber int) (bool, error) {
	text, err := e.decode(line, lineNumber)
	if err != nil {
		return false, err
	}

	if strings.HasPrefix(text, "#") {
		e.pendingHeaders = append(e.pendingHeaders, splitHeadingLines(text)...)
		return true, nil
	}

	e.lastMatchIndent = IndentationWidth(text)
	e.continuationActive = true

	chain := AncestorChain(e.pendingHeaders)

	if e.separatorPending {
		if err := e.writeSeparator(); err != nil {
			return false, err
		}
	}

	var b strings.Builder
	if e.session.firstOutputEmitted && len(chain) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(FormatChain(chain, e.session.style.heading))
	b.WriteString(strings.TrimRightFunc(text, unicode.IsSpace))
	b.WriteString("\n")
	if err := e.session.write(b.String()); err != nil {
		return false, err
	}

	e.session.firstOutputEmitted = true
	e.session.tasks++
	e.tasks++
	e.pendingHeaders = nil
	return true, nil
}

// Context prints after-context lines nested deeper than the last task. The
// first line at or below the task's indentation ends the continuation until
// the next task.
func (e *Engine) Context(kind search.ContextKind, line []byte) (bool, error) {
	text, err := e.decode(line, 0)
	if err != nil {
		return false, err
	}

	if kind != search.ContextAfter {
		return true, nil
	}

	if e.continuationActive && IndentationWidth(text) > e.lastMatchIndent {
		return true, e.session.write(text)
	}
	e.continuationActive = false
	return true, nil
}

// Finish ends the document. Nothing is printed.
func (e *Engine) Finish() error {
	e.pendingHeaders = nil
	e.continuationActive = false
	e.separatorPending = false
	return nil
}

// Tasks returns the number of tasks printed for the current document.
func (e *Engine) Tasks() int {
	return e.tasks
}

func (e *Engine) writeSeparator() error {
	e.separatorPending = false
	return e.session.write(fmt.Sprintf("\n\n%s\n", e.session.style.separator("--"+e.doc.Name+"--")))
}

func (e *Engine) decode(line []byte, lineNumber int) (string, error) {
	if !utf8.Valid(line) {
		return "", &DecodingError{Document: e.doc.Path, Line: lineNumber, Err: ErrInvalidUTF8}
	}
	return string(line), nil
}

// style decorates the parts of the output that carry structure.
type style struct {
	separator func(string) string
	heading   func(string) string
}

func plainStyle() style {
	identity := func(s string) string { return s }
	return style{separator: identity, heading: identity}
}

func colorStyle() style {
	sep := color.New(color.FgMagenta, color.Bold)
	sep.EnableColor()
	head := color.New(color.FgCyan)
	head.EnableColor()
	return style{
		separator: func(s string) string { return sep.Sprint(s) },
		heading:   func(s string) string { return head.Sprint(s) },
	}
}
