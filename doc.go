// Package texgraph is the document model of a node-based procedural texture
// editor: a graph of operator nodes whose outputs feed each other's inputs,
// compiled to fragment shaders.
//
// # Overview
//
// A Graph holds Nodes. Each node is an instance of an Operator, which
// declares the node's input and output terminals, its parameters, and the
// expression it contributes to a shader. Connections run from an output
// terminal to an input terminal; an input has at most one connection, an
// output any number. Cycles are rejected.
//
// Every edit made through Graph is undoable. Edits notify subscribers once
// per update, so a UI can redraw after a whole Batch instead of after each
// step.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/texgraph"
//	    "github.com/gogpu/texgraph/operators"
//	    "github.com/gogpu/texgraph/operators/shaders"
//	)
//
//	g := texgraph.NewGraph(texgraph.WithLibrary(shaders.Library()))
//	grad, _ := g.CreateNode(operators.Gradient, 0, 0)
//	inv, _ := g.CreateNode(operators.Invert, 200, 0)
//	_ = g.Connect(grad.ID(), "out", inv.ID(), "input")
//
//	src, _ := g.Source(inv.ID()) // GLSL ES 3.00 fragment shader
//
// # Shaders
//
// Program compiles the subgraph feeding a node into one fragment shader.
// Parameters become uniforms named <operator><node>_<param>, except those
// marked Pre, whose values are baked into the code. Programs are cached by a
// fingerprint of the upstream topology and compile-time values; changing a
// uniform value does not recompile.
//
// The shader package generates GLSL and WGSL. WGSL programs can be
// validated and translated to SPIR-V with naga.
//
// # Documents
//
// Document is the serialized form of a graph. SaveFile and OpenFile store it
// as JSON, or YAML when the file name ends in .yaml or .yml. Loading is
// atomic: a document that references an unknown operator, node, or terminal
// leaves the graph untouched.
//
// # Logging
//
// texgraph logs through log/slog and is silent by default. See SetLogger and
// WithLogger.
package texgraph
