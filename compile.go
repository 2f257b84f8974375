package texgraph

import (
	"github.com/gogpu/texgraph/expr"
	"github.com/gogpu/texgraph/shader"
)

// shaderNode presents a graph node to the shader pipeline.
type shaderNode struct {
	g *Graph
	n *Node
}

var _ shader.Node = shaderNode{}

func (s shaderNode) ID() int            { return s.n.id }
func (s shaderNode) OperatorID() string { return s.n.op.ID() }
func (s shaderNode) Title() string      { return s.n.Title() }
func (s shaderNode) Outputs() []string  { return terminalIDs(s.n.outputs) }
func (s shaderNode) Inputs() []string   { return terminalIDs(s.n.inputs) }
func (s shaderNode) Imports() []string  { return s.n.op.Imports(s.n) }
func (s shaderNode) CodeKey() string    { return s.n.CodeKey() }

func (s shaderNode) Uniforms() []shader.Uniform { return s.n.Uniforms() }

func (s shaderNode) Code(output string) (expr.Expr, error) {
	if s.n.Output(output) == nil {
		return nil, terminalNotFound(s.n.id, output)
	}
	return s.n.op.Code(s.n, output)
}

func (s shaderNode) Upstream(input string) (shader.Node, string, bool) {
	t := s.n.Input(input)
	if t == nil || t.conn == nil {
		return nil, "", false
	}
	up, ok := s.g.index[t.conn.Src.Node]
	if !ok {
		return nil, "", false
	}
	return shaderNode{g: s.g, n: up}, t.conn.Src.Terminal, true
}

func (s shaderNode) Buffered(input string) bool {
	t := s.n.Input(input)
	return t != nil && t.Buffered
}

func terminalIDs(ts []*Terminal) []string {
	ids := make([]string, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}

// Compiler returns the graph's shader compiler.
func (g *Graph) Compiler() *shader.Compiler { return g.compiler }

// ShaderNode returns the node with the given id as seen by the shader
// pipeline.
func (g *Graph) ShaderNode(id int) (shader.Node, error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	return shaderNode{g: g, n: n}, nil
}

// Program returns the compiled program rendering node id in the compiler's
// default dialect. Programs are cached until the node or anything upstream
// of it changes shape.
func (g *Graph) Program(id int) (*shader.Program, error) {
	s, err := g.ShaderNode(id)
	if err != nil {
		return nil, err
	}
	return g.compiler.Compile(s)
}

// ProgramDialect is like Program for the named dialect.
func (g *Graph) ProgramDialect(id int, dialect string) (*shader.Program, error) {
	s, err := g.ShaderNode(id)
	if err != nil {
		return nil, err
	}
	return g.compiler.CompileDialect(s, dialect)
}

// Source returns the shader source rendering node id.
func (g *Graph) Source(id int) (string, error) {
	p, err := g.Program(id)
	if err != nil {
		return "", err
	}
	return p.Source, nil
}

// TransitiveImports returns the library fragments needed by node id and
// everything upstream of it: the node's own first, then each input's in
// order, without duplicates.
func (g *Graph) TransitiveImports(id int) ([]string, error) {
	s, err := g.ShaderNode(id)
	if err != nil {
		return nil, err
	}
	return g.compiler.TransitiveImports(s), nil
}
