package operators

import (
	"github.com/gogpu/texgraph"
	"github.com/gogpu/texgraph/expr"
)

// Gradient types of the "type" parameter of Gradient.
const (
	GradientLinearHorizontal = iota
	GradientLinearVertical
	GradientSymmetricHorizontal
	GradientSymmetricVertical
	GradientRadial
	GradientSquare
)

var gradientFn = &expr.FunctionDefn{
	Name: "gradient",
	Types: []expr.FunctionType{{
		Result: expr.Vec4,
		Args:   []expr.DataType{expr.Vec2, expr.Int, expr.Vec4Array, expr.FloatArray},
	}},
}

type gradient struct {
	texgraph.BaseOperator
}

// Gradient generates a color gradient across the texture.
var Gradient texgraph.Operator = &gradient{texgraph.BaseOperator{
	OpID:          "generator_gradient",
	OpName:        "Color Gradient",
	OpGroup:       "generator",
	OpDescription: "Generates a simple gradient.",
	OutputSpecs:   out(expr.Vec4),
	ParamSpecs: []texgraph.Param{
		{
			ID:      "type",
			Name:    "Gradient Type",
			Type:    expr.Int,
			Default: GradientLinearHorizontal,
			Enum: []string{
				"Linear Horizontal",
				"Linear Vertical",
				"Symmetric Horizontal",
				"Symmetric Vertical",
				"Radial",
				"Square",
			},
		},
		{
			ID:   "color",
			Name: "Gradient Color",
			Type: expr.RGBAGradient,
			Max:  32,
			Default: []texgraph.ColorStop{
				{Value: [4]float64{0, 0, 0, 1}, Position: 0},
				{Value: [4]float64{1, 1, 1, 1}, Position: 1},
			},
		},
	},
	ImportNames: []string{"gradient-color", "gradient"},
}}

func (g *gradient) Code(n *texgraph.Node, _ string) (expr.Expr, error) {
	color := n.UniformName("color")
	return gradientFn.Call(
		expr.TexCoords(),
		n.RefUniform("type"),
		expr.RefUniform(color+"_colors", expr.Vec4Array, n.ID(), "color"),
		expr.RefUniform(color+"_positions", expr.FloatArray, n.ID(), "color"),
	), nil
}

type solid struct {
	texgraph.BaseOperator
}

// Solid fills the texture with one color.
var Solid texgraph.Operator = &solid{texgraph.BaseOperator{
	OpID:          "generator_solid",
	OpName:        "Solid Color",
	OpGroup:       "generator",
	OpDescription: "Fills the texture with a single color.",
	OutputSpecs:   out(expr.Vec4),
	ParamSpecs: []texgraph.Param{{
		ID:      "color",
		Name:    "Color",
		Type:    expr.RGBA,
		Default: [4]float64{0.5, 0.5, 0.5, 1},
	}},
}}

func (s *solid) Code(n *texgraph.Node, _ string) (expr.Expr, error) {
	return n.RefUniform("color"), nil
}
