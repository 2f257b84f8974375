package main

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlight writes source to w with terminal colors. Dialects without a
// lexer are written as plain text.
func highlight(w io.Writer, source, dialect, style string) error {
	lexer := lexers.Get(dialect)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, source)
	if err != nil {
		return err
	}
	return formatters.TTY256.Format(w, styles.Get(style), it)
}
