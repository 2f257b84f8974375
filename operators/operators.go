// Package operators provides the built-in operator catalog.
//
// Operators are stateless values shared by every node created from them.
// Default returns a registry holding the whole catalog:
//
//	g := texgraph.NewGraph(texgraph.WithLibrary(shaders.Library()))
//	err := g.OpenFile("brick.json", operators.Default())
package operators

import (
	"strconv"
	"strings"

	"github.com/gogpu/texgraph"
	"github.com/gogpu/texgraph/expr"
)

// All returns every built-in operator.
func All() []texgraph.Operator {
	return []texgraph.Operator{
		Gradient,
		Solid,
		Invert,
		Offset,
		SplitChannels,
		Blend,
		Blur,
		Illuminate,
	}
}

// Default returns a new registry holding every built-in operator.
func Default() *texgraph.Registry {
	return texgraph.NewRegistry(All()...)
}

// floatLit returns a float literal for v that reads as a float in every
// dialect, e.g. "1." rather than "1".
func floatLit(v float64) *expr.LiteralExpr {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	return expr.Literal(s, expr.Float)
}

func out(t expr.DataType) []texgraph.TerminalSpec {
	return []texgraph.TerminalSpec{{ID: "out", Name: "Out", Type: t}}
}
