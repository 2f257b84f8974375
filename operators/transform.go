package operators

import (
	"github.com/gogpu/texgraph"
	"github.com/gogpu/texgraph/expr"
)

type offset struct {
	texgraph.BaseOperator
}

// Offset shifts the input, wrapping around the texture edges.
var Offset texgraph.Operator = &offset{texgraph.BaseOperator{
	OpID:          "transform_offset",
	OpName:        "Offset",
	OpGroup:       "transform",
	OpDescription: "Offsets the pattern in the x and y direction.",
	InputSpecs:    []texgraph.TerminalSpec{{ID: "in", Name: "In", Type: expr.Vec4}},
	OutputSpecs:   out(expr.Vec4),
	ParamSpecs: []texgraph.Param{
		{ID: "offset_x", Name: "Offset X", Type: expr.Float, Default: 0.0, Min: -1, Max: 1, Precision: 2},
		{ID: "offset_y", Name: "Offset Y", Type: expr.Float, Default: 0.0, Min: -1, Max: 1, Precision: 2},
	},
}}

func (o *offset) Code(n *texgraph.Node, _ string) (expr.Expr, error) {
	uv := expr.Fork(expr.TexCoords(), "uv")
	ruv := expr.Vec2Of(
		expr.Fract(expr.Sub(expr.GetAttr(uv, "x", expr.Float), n.RefUniform("offset_x"), expr.Float)),
		expr.Fract(expr.Sub(expr.GetAttr(uv, "y", expr.Float), n.RefUniform("offset_y"), expr.Float)),
	)
	return n.RefInput("in", ruv), nil
}
