// Package shader turns the expression trees of a node and everything
// upstream of it into a complete fragment shader.
//
// # Pipeline
//
//  1. Resolve inlines the code of upstream nodes into the requested node's
//     output expression, substituting sampling coordinates.
//  2. Lower hoists forks into deduplicated local variable definitions.
//  3. Generate maps each statement to a codefmt chunk tree for a Dialect.
//  4. codefmt.Print lays the statements out as the body of main.
//  5. Assemble wraps the body with the prelude, imported library fragments,
//     fixed attributes, and uniform declarations.
//
// The Compiler runs the pipeline and caches results per node, dialect, and
// upstream fingerprint.
//
// # Dialects
//
// Two dialects are registered: "glsl" (GLSL ES 3.00, the default) and
// "wgsl". WGSL programs can be compiled further to SPIR-V with CompileSPIRV.
package shader

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/gogpu/texgraph/expr"
)

// Node is the view of a graph node that the shader pipeline needs.
type Node interface {
	// ID returns the node id, unique within its graph.
	ID() int

	// OperatorID returns the id of the node's operator.
	OperatorID() string

	// Title returns the human readable operator name.
	Title() string

	// Outputs returns the ids of the node's output terminals, in order.
	Outputs() []string

	// Inputs returns the ids of the node's input terminals, in order.
	Inputs() []string

	// Code returns the expression computing the given output.
	Code(output string) (expr.Expr, error)

	// Imports returns the library fragments the node's own code needs.
	Imports() []string

	// Uniforms returns the uniforms the node's code reads: samplers for
	// buffered inputs first, then parameters.
	Uniforms() []Uniform

	// Upstream returns the node and output terminal connected to input.
	Upstream(input string) (Node, string, bool)

	// Buffered reports whether input must be read from a rendered texture
	// rather than inlined.
	Buffered(input string) bool

	// CodeKey identifies everything besides topology that changes the
	// node's generated code, such as compile-time parameter values.
	CodeKey() string
}

// Uniform is one uniform declaration.
//
// Image uniforms are declared as samplers. RGBAGradient uniforms are declared
// as a pair of arrays named Name+"_colors" and Name+"_positions".
type Uniform struct {
	Name string
	Type expr.DataType
}

// GradientStops is the number of color stops a gradient uniform can hold.
const GradientStops = 32

// UniformName returns the uniform name for parameter or input id of a node.
// The name depends only on its arguments, so regenerating code for the same
// node yields the same names.
func UniformName(operatorID string, nodeID int, id string) string {
	return fmt.Sprintf("%s%d_%s", operatorID, nodeID, id)
}

// UpstreamNodes returns the nodes feeding n, directly or transitively, in
// depth-first order over inputs. Each node appears once; n itself is not
// included.
func UpstreamNodes(n Node) []Node {
	var out []Node
	visited := map[int]bool{n.ID(): true}
	var visit func(Node)
	visit = func(node Node) {
		for _, in := range node.Inputs() {
			up, _, ok := node.Upstream(in)
			if !ok || visited[up.ID()] {
				continue
			}
			visited[up.ID()] = true
			out = append(out, up)
			visit(up)
		}
	}
	visit(n)
	return out
}

// TransitiveImports returns the library fragments needed by n and every node
// upstream of it: n's own imports first, then those of each input in order,
// without duplicates.
func TransitiveImports(n Node) []string {
	var out []string
	visited := map[int]bool{}
	var visit func(Node)
	visit = func(node Node) {
		if visited[node.ID()] {
			return
		}
		visited[node.ID()] = true
		out = append(out, node.Imports()...)
		for _, in := range node.Inputs() {
			if up, _, ok := node.Upstream(in); ok {
				visit(up)
			}
		}
	}
	visit(n)
	return lo.Uniq(out)
}
