package shader

import (
	"fmt"

	"github.com/gogpu/texgraph/expr"
)

// fakeNode is a hand-wired Node for pipeline tests.
type fakeNode struct {
	id       int
	op       string
	title    string
	inputs   []string
	outputs  []string
	buffered map[string]bool
	imports  []string
	uniforms []Uniform
	key      string
	code     func(output string) expr.Expr
	links    map[string]link
}

type link struct {
	node   *fakeNode
	output string
}

func (n *fakeNode) ID() int                 { return n.id }
func (n *fakeNode) OperatorID() string      { return n.op }
func (n *fakeNode) Title() string           { return n.title }
func (n *fakeNode) Outputs() []string       { return n.outputs }
func (n *fakeNode) Inputs() []string        { return n.inputs }
func (n *fakeNode) Imports() []string       { return n.imports }
func (n *fakeNode) Uniforms() []Uniform     { return n.uniforms }
func (n *fakeNode) Buffered(in string) bool { return n.buffered[in] }
func (n *fakeNode) CodeKey() string         { return n.key }

func (n *fakeNode) Code(output string) (expr.Expr, error) {
	if n.code == nil {
		return nil, fmt.Errorf("node %d has no code", n.id)
	}
	return n.code(output), nil
}

func (n *fakeNode) Upstream(in string) (Node, string, bool) {
	l, ok := n.links[in]
	if !ok {
		return nil, "", false
	}
	return l.node, l.output, true
}

func (n *fakeNode) connect(in string, src *fakeNode, output string) {
	if n.links == nil {
		n.links = map[string]link{}
	}
	n.links[in] = link{node: src, output: output}
}

func solidNode(id int) *fakeNode {
	name := UniformName("generator_solid", id, "color")
	return &fakeNode{
		id:       id,
		op:       "generator_solid",
		title:    "Solid Color",
		outputs:  []string{"out"},
		uniforms: []Uniform{{Name: name, Type: expr.RGBA}},
		code: func(string) expr.Expr {
			return expr.RefUniform(name, expr.RGBA, id, "color")
		},
	}
}

func invertNode(id int) *fakeNode {
	return &fakeNode{
		id:      id,
		op:      "filter_invert",
		title:   "Invert",
		inputs:  []string{"in"},
		outputs: []string{"out"},
		imports: []string{"modulus"},
		code: func(string) expr.Expr {
			return expr.Sub(
				expr.Literal("1.", expr.Float),
				expr.RefInput(id, "in", expr.Vec4, expr.TexCoords()),
				expr.Vec4,
			)
		},
	}
}

func splitNode(id int) *fakeNode {
	return &fakeNode{
		id:      id,
		op:      "filter_split_channels",
		title:   "Split Channels",
		inputs:  []string{"in"},
		outputs: []string{"r", "g", "b", "a"},
		code: func(output string) expr.Expr {
			rgba := expr.Fork(expr.RefInput(id, "in", expr.Vec4, expr.TexCoords()), fmt.Sprintf("split_input_%d", id))
			return expr.GetAttr(rgba, output, expr.Float)
		},
	}
}

func combineNode(id int) *fakeNode {
	return &fakeNode{
		id:      id,
		op:      "filter_combine",
		title:   "Combine",
		inputs:  []string{"r", "g"},
		outputs: []string{"out"},
		code: func(string) expr.Expr {
			tc := expr.TexCoords()
			return expr.Vec4Of(
				expr.RefInput(id, "r", expr.Float, tc),
				expr.RefInput(id, "g", expr.Float, tc),
				expr.Literal("0.", expr.Float),
				expr.Literal("1.", expr.Float),
			)
		},
	}
}

func offsetNode(id int) *fakeNode {
	ux := UniformName("transform_offset", id, "offset_x")
	uy := UniformName("transform_offset", id, "offset_y")
	return &fakeNode{
		id:       id,
		op:       "transform_offset",
		title:    "Offset",
		inputs:   []string{"in"},
		outputs:  []string{"out"},
		uniforms: []Uniform{{Name: ux, Type: expr.Float}, {Name: uy, Type: expr.Float}},
		code: func(string) expr.Expr {
			uv := expr.Fork(expr.TexCoords(), "uv")
			ruv := expr.Vec2Of(
				expr.Fract(expr.Sub(expr.GetAttr(uv, "x", expr.Float), expr.RefUniform(ux, expr.Float, id, "offset_x"), expr.Float)),
				expr.Fract(expr.Sub(expr.GetAttr(uv, "y", expr.Float), expr.RefUniform(uy, expr.Float, id, "offset_y"), expr.Float)),
			)
			return expr.RefInput(id, "in", expr.Vec4, ruv)
		},
	}
}

func rampNode(id int) *fakeNode {
	return &fakeNode{
		id:      id,
		op:      "generator_ramp",
		title:   "Ramp",
		outputs: []string{"out"},
		code: func(string) expr.Expr {
			return expr.Vec4Of(expr.GetAttr(expr.TexCoords(), "x", expr.Float))
		},
	}
}

func blurNode(id int) *fakeNode {
	return &fakeNode{
		id:       id,
		op:       "filter_blur",
		title:    "Blur",
		inputs:   []string{"in"},
		outputs:  []string{"out"},
		buffered: map[string]bool{"in": true},
		uniforms: []Uniform{{Name: UniformName("filter_blur", id, "in"), Type: expr.Image}},
		code: func(string) expr.Expr {
			return expr.RefInput(id, "in", expr.Vec4, expr.TexCoords())
		},
	}
}

var testLibrary = MapLibrary{
	GLSL: {"modulus": "float modulus(float a, float b) { return a - b * floor(a / b); }"},
	WGSL: {"modulus": "fn modulus(a: f32, b: f32) -> f32 { return a - b * floor(a / b); }"},
}
