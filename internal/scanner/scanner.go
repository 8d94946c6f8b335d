// Package scanner turns raw document text into a stream of line events.
//
// The scanner recognizes line-initial org directives and classifies every
// other line as plain text. It tracks whether the current position is inside
// a source block: there, directive-looking lines are demoted to plain content
// and only the block terminator keeps its meaning. Structural errors (a block
// that never closes) are reported here, with the position of the offending
// opener.
package scanner

import (
	"fmt"
	"strings"
)

// Kind classifies a scanned line.
type Kind int

const (
	// Plain is prose outside a block or content inside one.
	Plain Kind = iota
	// Name is a #+NAME: directive; Text carries the block name.
	Name
	// Begin opens a source block; Text carries the raw header arguments.
	Begin
	// End closes a source block.
	End
	// Include is a #+INCLUDE: directive; Text carries the raw spec.
	Include
	// Deps is a #+DEPS: directive; Text carries the dependency names.
	Deps
	// SrcLang is a #+SRC_LANG: directive; Text carries "language extension".
	SrcLang
	// File is a #+FILE: directive; Text carries the target path.
	File
)

// Event is one classified line. Line is 1-based. For Plain events Text is
// the raw line; for directives it is the trimmed argument remainder.
type Event struct {
	Kind Kind
	Line int
	Text string
}

// UnterminatedBlockError reports a #+BEGIN_SRC whose block never closes,
// either because the document ends first or because another #+BEGIN_SRC
// appears before an #+END_SRC. Line is the position of the unclosed opener.
type UnterminatedBlockError struct {
	File string
	Line int
}

func (e *UnterminatedBlockError) Error() string {
	return fmt.Sprintf("%s:%d: unterminated source block", e.File, e.Line)
}

// Scanner walks a document line by line. Use it like bufio.Scanner: Scan
// until it returns false, then check Err.
type Scanner struct {
	file  string
	lines []string

	pos     int
	ev      Event
	err     error
	inBlock bool
	beginLn int
}

// New returns a scanner over text. file is used in positions and errors only;
// nothing is read from disk.
func New(file, text string) *Scanner {
	return &Scanner{file: file, lines: splitLines(text)}
}

// Reset rewinds the scanner to the start of the document.
func (s *Scanner) Reset() {
	s.pos = 0
	s.ev = Event{}
	s.err = nil
	s.inBlock = false
	s.beginLn = 0
}

// Scan advances to the next line event. It returns false at the end of the
// document or on error.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if s.pos >= len(s.lines) {
		if s.inBlock {
			s.inBlock = false
			s.err = &UnterminatedBlockError{File: s.file, Line: s.beginLn}
		}
		return false
	}
	line := s.lines[s.pos]
	s.pos++
	n := s.pos

	kind, rest := classify(line)
	if s.inBlock {
		switch kind {
		case End:
			s.inBlock = false
			s.ev = Event{Kind: End, Line: n}
		case Begin:
			s.err = &UnterminatedBlockError{File: s.file, Line: s.beginLn}
			return false
		default:
			// Directives lose their meaning inside a block.
			s.ev = Event{Kind: Plain, Line: n, Text: line}
		}
		return true
	}

	switch kind {
	case Begin:
		s.inBlock = true
		s.beginLn = n
		s.ev = Event{Kind: Begin, Line: n, Text: rest}
	case End:
		// A closer with no open block is ordinary prose.
		s.ev = Event{Kind: Plain, Line: n, Text: line}
	default:
		s.ev = Event{Kind: kind, Line: n, Text: rest}
	}
	return true
}

// Event returns the event produced by the last successful Scan.
func (s *Scanner) Event() Event {
	return s.ev
}

// Err returns the first error the scanner hit, or nil.
func (s *Scanner) Err() error {
	return s.err
}

// File returns the document name the scanner was created with.
func (s *Scanner) File() string {
	return s.file
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// classify matches the line-initial directive markers, case-insensitively.
// The bare markers require a word boundary so that "#+begin_srcfoo" stays
// plain text.
func classify(line string) (Kind, string) {
	if !strings.HasPrefix(line, "#+") {
		return Plain, line
	}
	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lower, "#+name:"):
		return Name, argOf(line, "#+name:")
	case strings.HasPrefix(lower, "#+deps:"):
		return Deps, argOf(line, "#+deps:")
	case strings.HasPrefix(lower, "#+file:"):
		return File, argOf(line, "#+file:")
	case strings.HasPrefix(lower, "#+src_lang:"):
		return SrcLang, argOf(line, "#+src_lang:")
	case strings.HasPrefix(lower, "#+include:"):
		return Include, argOf(line, "#+include:")
	case hasWordPrefix(lower, "#+begin_src"):
		return Begin, argOf(line, "#+begin_src")
	case hasWordPrefix(lower, "#+end_src"):
		return End, ""
	}
	return Plain, line
}

func argOf(line, marker string) string {
	return strings.TrimSpace(line[len(marker):])
}

func hasWordPrefix(lower, marker string) bool {
	if !strings.HasPrefix(lower, marker) {
		return false
	}
	rest := lower[len(marker):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}
