package codefmt

import (
	"strings"
	"unicode/utf8"
)

// stream accumulates output lines.
//
// The indent of a line is fixed when the line is started, from nextIndent.
// Changing nextIndent only affects lines started after the next break.
type stream struct {
	// sticky forbids a break before the next append.
	sticky bool

	out        []string
	line       []string
	lineLen    int
	maxWidth   int
	lineIndent int
	nextIndent int
}

func newStream(maxWidth int) *stream {
	return &stream{maxWidth: maxWidth}
}

// breakLine flushes the current line, if any, and starts a new one at
// nextIndent.
func (s *stream) breakLine() {
	s.sticky = false
	if len(s.line) > 0 {
		text := strings.TrimSpace(strings.Join(s.line, ""))
		s.out = append(s.out, strings.Repeat("  ", s.lineIndent)+text)
		s.line = s.line[:0]
		s.lineLen = 0
	}
	s.lineIndent = s.nextIndent
}

// canFit reports whether length more columns fit on the current line.
func (s *stream) canFit(length int) bool {
	return s.lineIndent*2+s.lineLen+length < s.maxWidth
}

func (s *stream) append(text string) {
	s.sticky = false
	s.lineLen += utf8.RuneCountInString(text)
	s.line = append(s.line, text)
}

func (s *stream) String() string {
	return strings.Join(s.out, "\n")
}
