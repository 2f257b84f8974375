// Package codefmt renders structured output chunks as line-wrapped source
// text.
//
// A code generator describes its output as a tree of Chunks (function calls,
// infix operations, parenthesized groups, statements). Print lays the tree
// out greedily: anything that fits on the current line is written flat, and
// only chunks that overflow the maximum width are broken, at the boundaries
// their kind allows. Output is deterministic for a given tree and width.
package codefmt

// Kind identifies the layout behavior of a Chunk.
type Kind uint8

const (
	KindLit      Kind = iota // Atomic text, never broken
	KindText                 // Raw fragment of a Flat sequence; a line may break before it
	KindParens               // ( fragments )
	KindBrackets             // [ fragment, fragment ]
	KindFlat                 // Fragments concatenated
	KindStmt                 // Fragments followed by ';'
	KindRet                  // 'return ' fragments ';'
	KindInfix                // Args joined by an operator
	KindFCall                // Fn(args)
)

var kindNames = [...]string{
	KindLit:      "lit",
	KindText:     "text",
	KindParens:   "parens",
	KindBrackets: "brackets",
	KindFlat:     "flat",
	KindStmt:     "stmt",
	KindRet:      "ret",
	KindInfix:    "infix",
	KindFCall:    "fcall",
}

// String returns the string representation of a Kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Chunk is a node of the output layout tree.
type Chunk struct {
	Kind Kind

	// Text is the content of KindLit and KindText chunks.
	Text string

	// Fn is the function name of KindFCall or the operator of KindInfix.
	Fn string

	// Args holds fragments or arguments, depending on Kind.
	Args []Chunk
}

// Lit returns an atomic text chunk.
func Lit(text string) Chunk {
	return Chunk{Kind: KindLit, Text: text}
}

// Text returns a raw fragment for use inside Flat. The printer may break the
// line before a raw fragment that does not fit.
func Text(text string) Chunk {
	return Chunk{Kind: KindText, Text: text}
}

// Parens wraps fragments in parentheses.
func Parens(fragments ...Chunk) Chunk {
	return Chunk{Kind: KindParens, Args: fragments}
}

// Brackets wraps fragments in square brackets, separated by commas.
func Brackets(fragments ...Chunk) Chunk {
	return Chunk{Kind: KindBrackets, Args: fragments}
}

// Flat concatenates fragments.
func Flat(fragments ...Chunk) Chunk {
	return Chunk{Kind: KindFlat, Args: fragments}
}

// Stmt terminates c with a semicolon.
func Stmt(c Chunk) Chunk {
	return Chunk{Kind: KindStmt, Args: []Chunk{c}}
}

// Ret returns c from the enclosing function.
func Ret(c Chunk) Chunk {
	return Chunk{Kind: KindRet, Args: []Chunk{c}}
}

// Infix joins args with the operator op.
func Infix(op string, args ...Chunk) Chunk {
	return Chunk{Kind: KindInfix, Fn: op, Args: args}
}

// FCall is a call of fn with args.
func FCall(fn string, args ...Chunk) Chunk {
	return Chunk{Kind: KindFCall, Fn: fn, Args: args}
}
