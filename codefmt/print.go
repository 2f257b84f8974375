package codefmt

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnknownChunk is returned when a chunk has a Kind the printer does not
// know how to lay out.
var ErrUnknownChunk = errors.New("codefmt: unknown chunk kind")

// DefaultMaxWidth is the line width used when no WithMaxWidth option is
// given.
const DefaultMaxWidth = 100

// Option configures Print.
type Option func(*options)

type options struct {
	maxWidth      int
	initialIndent int
}

func defaultOptions() options {
	return options{maxWidth: DefaultMaxWidth}
}

// WithMaxWidth sets the column limit. Lines are kept strictly shorter than
// width whenever the chunk structure allows a break.
func WithMaxWidth(width int) Option {
	return func(o *options) {
		if width > 0 {
			o.maxWidth = width
		}
	}
}

// WithInitialIndent sets the indent level (two spaces per level) of every
// line that is not a continuation line.
func WithInitialIndent(level int) Option {
	return func(o *options) {
		if level >= 0 {
			o.initialIndent = level
		}
	}
}

// Print lays out chunks, one after another. Each top-level chunk starts on a
// new line.
func Print(chunks []Chunk, opts ...Option) (string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	for _, c := range chunks {
		if err := validate(c); err != nil {
			return "", err
		}
	}

	s := newStream(o.maxWidth)
	s.nextIndent = o.initialIndent
	s.breakLine()
	for i, c := range chunks {
		if i > 0 {
			s.breakLine()
		}
		if err := s.emit(c); err != nil {
			return "", err
		}
	}
	s.breakLine()
	return s.String(), nil
}

// PrintChunk lays out a single chunk.
func PrintChunk(c Chunk, opts ...Option) (string, error) {
	return Print([]Chunk{c}, opts...)
}

// String renders c on a single line, without wrapping.
func (c Chunk) String() string {
	return flatten(c)
}

func (s *stream) emit(c Chunk) error {
	if c.Kind == KindText || s.canFit(length(c)) {
		s.append(flatten(c))
		return nil
	}

	saveIndent := s.nextIndent
	switch c.Kind {
	case KindParens:
		s.append("(")
		if err := s.greedyWrap(c.Args); err != nil {
			return err
		}
		s.append(")")

	case KindBrackets:
		s.append("[")
		if err := s.greedyWrap(c.Args); err != nil {
			return err
		}
		s.append("]")

	case KindFCall:
		s.append(c.Fn + "(")

		// A lone argument whose head fits breaks internally instead.
		if len(c.Args) == 1 && s.canFit(headLength(c.Args[0])) {
			if err := s.emit(c.Args[0]); err != nil {
				return err
			}
			s.append(")")
			break
		}

		for i, arg := range c.Args {
			if len(c.Args) > 1 {
				s.nextIndent = saveIndent + 1
				s.breakLine()
			}
			if err := s.emit(arg); err != nil {
				return err
			}
			if i < len(c.Args)-1 {
				s.append(", ")
			}
		}
		s.nextIndent = saveIndent
		if len(c.Args) > 1 {
			s.breakLine()
		}
		s.append(")")

	case KindFlat:
		if err := s.greedyWrap(c.Args); err != nil {
			return err
		}

	case KindInfix:
		// Left operand, operator and the head of the right operand on one
		// line.
		if len(c.Args) == 2 && s.canFit(length(c.Args[0])+3+headLength(c.Args[1])) {
			if err := s.emit(c.Args[0]); err != nil {
				return err
			}
			s.append(" " + c.Fn + " ")
			if err := s.emit(c.Args[1]); err != nil {
				return err
			}
			break
		}

		for i, arg := range c.Args {
			if i > 0 {
				s.append(" " + c.Fn + " ")
			}
			if !s.sticky && !s.canFit(length(arg)) {
				s.nextIndent = saveIndent + 1
				s.breakLine()
			}
			if err := s.emit(arg); err != nil {
				return err
			}
		}
		s.nextIndent = saveIndent

	case KindRet:
		s.append("return ")
		s.sticky = true
		if err := s.greedyWrap(c.Args); err != nil {
			return err
		}
		s.append(";")

	case KindStmt:
		if err := s.greedyWrap(c.Args); err != nil {
			return err
		}
		s.append(";")

	case KindLit:
		s.append(c.Text)

	default:
		return fmt.Errorf("%w: %d", ErrUnknownChunk, c.Kind)
	}
	return nil
}

// greedyWrap fits as many fragments as possible on the current line,
// breaking only before raw text fragments.
func (s *stream) greedyWrap(fragments []Chunk) error {
	saveIndent := s.nextIndent
	for i, f := range fragments {
		switch {
		case s.canFit(length(f)):
			s.append(flatten(f))
		case f.Kind == KindText && !s.sticky:
			if i > 0 {
				s.nextIndent = saveIndent + 1
			}
			s.breakLine()
			s.append(f.Text)
		default:
			if err := s.emit(f); err != nil {
				return err
			}
		}
	}
	s.nextIndent = saveIndent
	return nil
}

func validate(c Chunk) error {
	if c.Kind > KindFCall {
		return fmt.Errorf("%w: %d", ErrUnknownChunk, c.Kind)
	}
	for _, a := range c.Args {
		if err := validate(a); err != nil {
			return err
		}
	}
	return nil
}

func runes(s string) int {
	return utf8.RuneCountInString(s)
}

func lengthOf(list []Chunk) int {
	n := 0
	for _, c := range list {
		n += length(c)
	}
	return n
}

// length is the width of c printed flat. The bracket and call estimates
// count two columns per element for the separators.
func length(c Chunk) int {
	switch c.Kind {
	case KindParens:
		return lengthOf(c.Args) + 2
	case KindBrackets:
		return lengthOf(c.Args) + 2*len(c.Args)
	case KindFCall:
		return runes(c.Fn) + lengthOf(c.Args) + 2*len(c.Args)
	case KindFlat, KindStmt:
		return lengthOf(c.Args)
	case KindInfix:
		if len(c.Args) == 0 {
			return 0
		}
		return lengthOf(c.Args) + (len(c.Args)-1)*(runes(c.Fn)+2)
	case KindRet:
		return lengthOf(c.Args) + len("return ")
	default:
		return runes(c.Text)
	}
}

// headLength is the width of the first token of c that cannot be broken.
func headLength(c Chunk) int {
	switch c.Kind {
	case KindParens, KindBrackets:
		return 1
	case KindFCall:
		return runes(c.Fn) + 1
	case KindFlat:
		return lengthOf(c.Args)
	case KindInfix:
		if len(c.Args) == 0 {
			return 0
		}
		return length(c.Args[0]) + runes(c.Fn)
	case KindRet:
		return len("return ") + firstLength(c.Args)
	case KindStmt:
		return firstLength(c.Args)
	default:
		return runes(c.Text)
	}
}

func firstLength(list []Chunk) int {
	if len(list) == 0 {
		return 0
	}
	return length(list[0])
}

func flatten(c Chunk) string {
	switch c.Kind {
	case KindParens:
		return "(" + flattenAll(c.Args, "") + ")"
	case KindBrackets:
		return "[" + flattenAll(c.Args, ", ") + "]"
	case KindFCall:
		return c.Fn + "(" + flattenAll(c.Args, ", ") + ")"
	case KindFlat:
		return flattenAll(c.Args, "")
	case KindInfix:
		return flattenAll(c.Args, " "+c.Fn+" ")
	case KindRet:
		return "return " + flattenAll(c.Args, "") + ";"
	case KindStmt:
		return flattenAll(c.Args, "") + ";"
	default:
		return c.Text
	}
}

func flattenAll(list []Chunk, sep string) string {
	parts := make([]string, len(list))
	for i, c := range list {
		parts[i] = flatten(c)
	}
	return strings.Join(parts, sep)
}
