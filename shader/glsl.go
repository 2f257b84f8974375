package shader

import (
	"fmt"

	"github.com/gogpu/texgraph/codefmt"
	"github.com/gogpu/texgraph/expr"
)

// glslDialect emits GLSL ES 3.00 for WebGL 2 style fragment shaders.
type glslDialect struct{}

func (glslDialect) Name() string { return GLSL }
func (glslDialect) Ext() string  { return ".glsl" }

func (glslDialect) TypeName(t expr.DataType) (string, error) {
	switch t {
	case expr.Float:
		return "float", nil
	case expr.Int:
		return "int", nil
	case expr.Vec2:
		return "vec2", nil
	case expr.Vec3:
		return "vec3", nil
	case expr.Vec4, expr.RGBA:
		return "vec4", nil
	case expr.Image:
		return "sampler2D", nil
	default:
		return "", fmt.Errorf("%w: %s in glsl", ErrUnsupportedType, t)
	}
}

func (d glslDialect) DeclareLocal(name string, t expr.DataType, init *codefmt.Chunk) (codefmt.Chunk, error) {
	typ, err := d.TypeName(t)
	if err != nil {
		return codefmt.Chunk{}, fmt.Errorf("local %s: %w", name, err)
	}
	if init == nil {
		return codefmt.Stmt(codefmt.Lit(typ + " " + name)), nil
	}
	return codefmt.Stmt(codefmt.Flat(codefmt.Lit(typ+" "+name), codefmt.Text(" = "), *init)), nil
}

func (glslDialect) Sample(sampler string, uv codefmt.Chunk) codefmt.Chunk {
	return codefmt.FCall("texture", codefmt.Lit(sampler), uv)
}

func (glslDialect) Prelude(title string) []string {
	return []string{
		"#version 300 es",
		"precision mediump float;",
		"",
		"// Shader for " + title,
		"",
	}
}

func (glslDialect) Attribs() []string {
	return []string{
		"in highp vec2 vTextureCoord;",
		"out vec4 fragColor;",
		"",
	}
}

func (d glslDialect) DeclareUniforms(us []Uniform, _ *Bindings) ([]string, error) {
	out := make([]string, 0, len(us))
	for _, u := range us {
		switch u.Type {
		case expr.RGBAGradient:
			out = append(out,
				fmt.Sprintf("uniform vec4 %s_colors[%d];", u.Name, GradientStops),
				fmt.Sprintf("uniform float %s_positions[%d];", u.Name, GradientStops),
			)
		default:
			typ, err := d.TypeName(u.Type)
			if err != nil {
				return nil, fmt.Errorf("uniform %s: %w", u.Name, err)
			}
			out = append(out, fmt.Sprintf("uniform %s %s;", typ, u.Name))
		}
	}
	return out, nil
}

func (glslDialect) Main(body string) []string {
	return []string{"void main() {", body, "}"}
}
