package texgraph

import (
	"testing"

	"github.com/gogpu/texgraph/expr"
)

type testOp struct {
	BaseOperator
	code func(n *Node, output string) expr.Expr
}

func (o *testOp) Code(n *Node, output string) (expr.Expr, error) {
	return o.code(n, output), nil
}

var (
	// sourceOp has one parameter of each value type and no inputs.
	sourceOp = &testOp{
		BaseOperator: BaseOperator{
			OpID:        "test_source",
			OpName:      "Source",
			OpGroup:     "generator",
			OutputSpecs: []TerminalSpec{{ID: "out", Name: "Out", Type: expr.Vec4}},
			ParamSpecs: []Param{
				{ID: "color", Name: "Color", Type: expr.RGBA, Default: [4]float64{1, 1, 1, 1}},
				{ID: "scale", Name: "Scale", Type: expr.Float, Default: 1.0},
				{ID: "count", Name: "Count", Type: expr.Int, Default: 3},
				{ID: "stops", Name: "Stops", Type: expr.RGBAGradient, Default: []ColorStop{
					{Value: [4]float64{0, 0, 0, 1}, Position: 0},
					{Value: [4]float64{1, 1, 1, 1}, Position: 1},
				}},
				{ID: "group", Name: "Group", Type: expr.Group, Children: []Param{
					{ID: "inner", Name: "Inner", Type: expr.Float, Default: 0.5, Pre: true},
				}},
			},
		},
		code: func(n *Node, _ string) expr.Expr {
			return n.RefUniform("color")
		},
	}

	// passOp forwards its input.
	passOp = &testOp{
		BaseOperator: BaseOperator{
			OpID:        "test_pass",
			OpName:      "Pass",
			OpGroup:     "filter",
			InputSpecs:  []TerminalSpec{{ID: "in", Name: "In", Type: expr.Vec4}},
			OutputSpecs: []TerminalSpec{{ID: "out", Name: "Out", Type: expr.Vec4}},
		},
		code: func(n *Node, _ string) expr.Expr {
			return n.RefInput("in", expr.TexCoords())
		},
	}

	// mixOp adds two inputs.
	mixOp = &testOp{
		BaseOperator: BaseOperator{
			OpID:    "test_mix",
			OpName:  "Mix",
			OpGroup: "filter",
			InputSpecs: []TerminalSpec{
				{ID: "a", Name: "A", Type: expr.Vec4},
				{ID: "b", Name: "B", Type: expr.Vec4},
			},
			OutputSpecs: []TerminalSpec{{ID: "out", Name: "Out", Type: expr.Vec4}},
		},
		code: func(n *Node, _ string) expr.Expr {
			tc := expr.TexCoords()
			return expr.Add(n.RefInput("a", tc), n.RefInput("b", tc), expr.Vec4)
		},
	}
)

func testRegistry() *Registry {
	return NewRegistry(sourceOp, passOp, mixOp)
}

// mustNode creates a node of op.
func mustNode(t *testing.T, g *Graph, op Operator) *Node {
	t.Helper()
	n, err := g.CreateNode(op, 0, 0)
	if err != nil {
		t.Fatalf("CreateNode(%s): %v", op.ID(), err)
	}
	return n
}

// mustConnect connects output "out" of src to input in of dst.
func mustConnect(t *testing.T, g *Graph, src *Node, dst *Node, in string) {
	t.Helper()
	if err := g.Connect(src.ID(), "out", dst.ID(), in); err != nil {
		t.Fatalf("Connect(%d.out -> %d.%s): %v", src.ID(), dst.ID(), in, err)
	}
}

// chain builds source -> pass -> pass.
func chain(t *testing.T, g *Graph) (a, b, c *Node) {
	t.Helper()
	a = mustNode(t, g, sourceOp)
	b = mustNode(t, g, passOp)
	c = mustNode(t, g, passOp)
	mustConnect(t, g, a, b, "in")
	mustConnect(t, g, b, c, "in")
	return a, b, c
}
