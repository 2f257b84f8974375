package operators

import (
	"fmt"
	"math"

	"github.com/gogpu/texgraph"
	"github.com/gogpu/texgraph/expr"
)

type invert struct {
	texgraph.BaseOperator
}

// Invert turns white into black and vice versa.
var Invert texgraph.Operator = &invert{texgraph.BaseOperator{
	OpID:          "filter_invert",
	OpName:        "Invert",
	OpGroup:       "filter",
	OpDescription: "Inverts the colors of a grayscale image: white becomes black and vice versa.",
	InputSpecs:    []texgraph.TerminalSpec{{ID: "input", Name: "In", Type: expr.Float}},
	OutputSpecs:   out(expr.Float),
	ImportNames:   []string{"modulus"},
}}

func (i *invert) Code(n *texgraph.Node, _ string) (expr.Expr, error) {
	return expr.Sub(
		expr.Literal("1.", expr.Float),
		n.RefInput("input", expr.TexCoords()),
		expr.Float,
	), nil
}

type splitChannels struct {
	texgraph.BaseOperator
}

// SplitChannels separates the red, green, blue and alpha channels.
var SplitChannels texgraph.Operator = &splitChannels{texgraph.BaseOperator{
	OpID:          "filter_split_channels",
	OpName:        "Split Channels",
	OpGroup:       "filter",
	OpDescription: "Separates the red, green, blue and alpha channels as separate outputs.",
	InputSpecs:    []texgraph.TerminalSpec{{ID: "in", Name: "In", Type: expr.Vec4}},
	OutputSpecs: []texgraph.TerminalSpec{
		{ID: "r", Name: "R", Type: expr.Float},
		{ID: "g", Name: "G", Type: expr.Float},
		{ID: "b", Name: "B", Type: expr.Float},
		{ID: "a", Name: "A", Type: expr.Float},
	},
}}

// Code reads one channel of the input. Every output forks the input under
// the same name, so a shader reading several channels samples it once.
func (s *splitChannels) Code(n *texgraph.Node, output string) (expr.Expr, error) {
	rgba := expr.Fork(n.RefInput("in", expr.TexCoords()), fmt.Sprintf("split_input_%d", n.ID()))
	return expr.GetAttr(rgba, output, expr.Float), nil
}

// Blend modes of the "mode" parameter of Blend.
const (
	BlendNormal = iota
	BlendMultiply
	BlendScreen
	BlendAdd
	BlendDifference
)

var blendFns = [...]*expr.FunctionDefn{
	BlendNormal:     blendFn("blendNormal"),
	BlendMultiply:   blendFn("blendMultiply"),
	BlendScreen:     blendFn("blendScreen"),
	BlendAdd:        blendFn("blendAdd"),
	BlendDifference: blendFn("blendDifference"),
}

func blendFn(name string) *expr.FunctionDefn {
	return &expr.FunctionDefn{
		Name:  name,
		Types: []expr.FunctionType{{Result: expr.Vec4, Args: []expr.DataType{expr.Vec4, expr.Vec4}}},
	}
}

type blend struct {
	texgraph.BaseOperator
}

// Blend combines two images. The blend mode is fixed at compile time; the
// opacity is a uniform.
var Blend texgraph.Operator = &blend{texgraph.BaseOperator{
	OpID:          "filter_blend",
	OpName:        "Blend",
	OpGroup:       "filter",
	OpDescription: "Blends the top image over the bottom image.",
	InputSpecs: []texgraph.TerminalSpec{
		{ID: "a", Name: "Bottom", Type: expr.Vec4},
		{ID: "b", Name: "Top", Type: expr.Vec4},
	},
	OutputSpecs: out(expr.Vec4),
	ParamSpecs: []texgraph.Param{
		{
			ID:      "mode",
			Name:    "Mode",
			Type:    expr.Int,
			Default: BlendNormal,
			Enum:    []string{"Normal", "Multiply", "Screen", "Add", "Difference"},
			Pre:     true,
		},
		{
			ID:        "opacity",
			Name:      "Opacity",
			Type:      expr.Float,
			Default:   1.0,
			Min:       0,
			Max:       1,
			Precision: 2,
		},
	},
	ImportNames: []string{"blend"},
}}

func (b *blend) Code(n *texgraph.Node, _ string) (expr.Expr, error) {
	mode := n.ParamInt("mode")
	if mode < 0 || mode >= len(blendFns) {
		return nil, fmt.Errorf("%w: blend mode %d", texgraph.ErrInvalidParam, mode)
	}
	bottom := expr.Fork(n.RefInput("a", expr.TexCoords()), fmt.Sprintf("blend_input_%d", n.ID()))
	top := n.RefInput("b", expr.TexCoords())
	return expr.Mix(bottom, blendFns[mode].Call(bottom, top), n.RefUniform("opacity")), nil
}

type blur struct {
	texgraph.BaseOperator
}

// Blur averages the input around each point. Its input is rendered to a
// texture first, so the upstream code is not repeated for every tap.
var Blur texgraph.Operator = &blur{texgraph.BaseOperator{
	OpID:          "filter_blur",
	OpName:        "Blur",
	OpGroup:       "filter",
	OpDescription: "Blurs the input image.",
	InputSpecs:    []texgraph.TerminalSpec{{ID: "in", Name: "In", Type: expr.Vec4, Buffered: true}},
	OutputSpecs:   out(expr.Vec4),
	ParamSpecs: []texgraph.Param{{
		ID:        "radius",
		Name:      "Radius",
		Type:      expr.Float,
		Default:   0.01,
		Min:       0,
		Max:       0.1,
		Precision: 3,
	}},
}}

func (b *blur) Code(n *texgraph.Node, _ string) (expr.Expr, error) {
	uv := expr.Fork(expr.TexCoords(), "uv")
	r := n.RefUniform("radius")
	zero := expr.Literal("0.", expr.Float)
	taps := []expr.Expr{
		uv,
		expr.Add(uv, expr.Vec2Of(r, zero), expr.Vec2),
		expr.Sub(uv, expr.Vec2Of(r, zero), expr.Vec2),
		expr.Add(uv, expr.Vec2Of(zero, r), expr.Vec2),
		expr.Sub(uv, expr.Vec2Of(zero, r), expr.Vec2),
	}
	var sum expr.Expr
	for _, tap := range taps {
		s := n.RefInput("in", tap)
		if sum == nil {
			sum = s
			continue
		}
		sum = expr.Add(sum, s, expr.Vec4)
	}
	return expr.Mul(sum, floatLit(1/float64(len(taps))), expr.Vec4), nil
}

var illuminateFn = &expr.FunctionDefn{
	Name: "illuminate",
	Types: []expr.FunctionType{{
		Result: expr.Vec4,
		Args: []expr.DataType{
			expr.Vec4, expr.Vec4, expr.Vec3, expr.Float,
			expr.Vec4, expr.Vec4, expr.Vec4,
		},
	}},
}

type illuminate struct {
	texgraph.BaseOperator
}

// Illuminate lights the input with a directional light, treating the normal
// input as a normal map.
var Illuminate texgraph.Operator = &illuminate{texgraph.BaseOperator{
	OpID:          "filter_illuminate",
	OpName:        "Illuminate",
	OpGroup:       "filter",
	OpDescription: "Illuminates the input texture.",
	InputSpecs: []texgraph.TerminalSpec{
		{ID: "in", Name: "In", Type: expr.Vec4},
		{ID: "normal", Name: "Normal", Type: expr.Vec4},
	},
	OutputSpecs: out(expr.Vec4),
	ParamSpecs: []texgraph.Param{
		{
			ID:   "light",
			Name: "Light Direction",
			Type: expr.Group,
			Children: []texgraph.Param{
				{ID: "azimuth", Name: "Azimuth", Type: expr.Float, Default: 45.0, Min: 0, Max: 360, Pre: true},
				{ID: "elevation", Name: "Elevation", Type: expr.Float, Default: 45.0, Min: 0, Max: 90, Pre: true},
			},
		},
		{ID: "shininess", Name: "Shininess", Type: expr.Float, Default: 10.0, Min: 1, Max: 100},
		{ID: "ambient", Name: "Ambient Color", Type: expr.RGBA, Default: [4]float64{0, 0, 0, 1}},
		{ID: "diffuse", Name: "Diffuse Color", Type: expr.RGBA, Default: [4]float64{0.5, 0.5, 0.5, 1}},
		{ID: "specular", Name: "Specular Color", Type: expr.RGBA, Default: [4]float64{0.5, 0.5, 0.5, 1}},
	},
	ImportNames: []string{"illuminate"},
}}

// LightDirection returns the unit vector towards a light at the given
// azimuth and elevation, in degrees.
func LightDirection(azimuth, elevation float64) [3]float64 {
	a := -azimuth * math.Pi / 180
	e := elevation * math.Pi / 180
	return [3]float64{math.Sin(a) * math.Cos(e), math.Cos(a) * math.Cos(e), math.Sin(e)}
}

func (i *illuminate) Code(n *texgraph.Node, _ string) (expr.Expr, error) {
	uv := expr.Fork(expr.TexCoords(), "uv")
	dir := LightDirection(n.ParamFloat("azimuth"), n.ParamFloat("elevation"))
	return illuminateFn.Call(
		n.RefInput("in", uv),
		n.RefInput("normal", uv),
		expr.Vec3Fn.Call(floatLit(round(dir[0])), floatLit(round(dir[1])), floatLit(round(dir[2]))),
		n.RefUniform("shininess"),
		n.RefUniform("ambient"),
		n.RefUniform("diffuse"),
		n.RefUniform("specular"),
	), nil
}

// round keeps light direction literals short.
func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
