package shader

import (
	"fmt"

	"github.com/gogpu/texgraph/codefmt"
	"github.com/gogpu/texgraph/expr"
)

// wgslDialect emits WGSL. Uniforms live in bind group 0, one binding each,
// in declaration order.
type wgslDialect struct{}

func (wgslDialect) Name() string { return WGSL }
func (wgslDialect) Ext() string  { return ".wgsl" }

func (wgslDialect) TypeName(t expr.DataType) (string, error) {
	switch t {
	case expr.Float:
		return "f32", nil
	case expr.Int:
		return "i32", nil
	case expr.Vec2:
		return "vec2<f32>", nil
	case expr.Vec3:
		return "vec3<f32>", nil
	case expr.Vec4, expr.RGBA:
		return "vec4<f32>", nil
	case expr.Image:
		return "texture_2d<f32>", nil
	default:
		return "", fmt.Errorf("%w: %s in wgsl", ErrUnsupportedType, t)
	}
}

// uniformSize returns the byte size of a uniform buffer holding t.
func uniformSize(t expr.DataType) uint64 {
	switch t {
	case expr.Vec2:
		return 8
	case expr.Vec3:
		return 12
	case expr.Vec4, expr.RGBA:
		return 16
	default:
		return 4
	}
}

func (d wgslDialect) DeclareLocal(name string, t expr.DataType, init *codefmt.Chunk) (codefmt.Chunk, error) {
	typ, err := d.TypeName(t)
	if err != nil {
		return codefmt.Chunk{}, fmt.Errorf("local %s: %w", name, err)
	}
	if init == nil {
		return codefmt.Stmt(codefmt.Lit("var " + name + ": " + typ)), nil
	}
	return codefmt.Stmt(codefmt.Flat(codefmt.Lit("let "+name+": "+typ), codefmt.Text(" = "), *init)), nil
}

func (wgslDialect) Sample(sampler string, uv codefmt.Chunk) codefmt.Chunk {
	return codefmt.FCall("textureSample", codefmt.Lit(sampler), codefmt.Lit(sampler+"_sampler"), uv)
}

func (wgslDialect) Prelude(title string) []string {
	return []string{"// Shader for " + title, ""}
}

func (wgslDialect) Attribs() []string {
	return nil
}

// Gradient positions are packed four to a vec4 to satisfy uniform array
// stride rules.
const gradientPositionVecs = GradientStops / 4

func (d wgslDialect) DeclareUniforms(us []Uniform, b *Bindings) ([]string, error) {
	if b == nil {
		b = &Bindings{}
	}
	out := make([]string, 0, len(us))
	for _, u := range us {
		switch u.Type {
		case expr.Image:
			tex := b.addTexture()
			smp := b.addSampler()
			out = append(out,
				fmt.Sprintf("@group(0) @binding(%d) var %s: texture_2d<f32>;", tex, u.Name),
				fmt.Sprintf("@group(0) @binding(%d) var %s_sampler: sampler;", smp, u.Name),
			)
		case expr.RGBAGradient:
			colors := b.addBuffer(16 * GradientStops)
			positions := b.addBuffer(16 * gradientPositionVecs)
			out = append(out,
				fmt.Sprintf("@group(0) @binding(%d) var<uniform> %s_colors: array<vec4<f32>, %d>;", colors, u.Name, GradientStops),
				fmt.Sprintf("@group(0) @binding(%d) var<uniform> %s_positions: array<vec4<f32>, %d>;", positions, u.Name, gradientPositionVecs),
			)
		default:
			typ, err := d.TypeName(u.Type)
			if err != nil {
				return nil, fmt.Errorf("uniform %s: %w", u.Name, err)
			}
			n := b.addBuffer(uniformSize(u.Type))
			out = append(out, fmt.Sprintf("@group(0) @binding(%d) var<uniform> %s: %s;", n, u.Name, typ))
		}
	}
	return out, nil
}

func (wgslDialect) Main(body string) []string {
	return []string{
		"@fragment",
		"fn main(@location(0) vTextureCoord: vec2<f32>) -> @location(0) vec4<f32> {",
		"  var fragColor: vec4<f32>;",
		body,
		"  return fragColor;",
		"}",
	}
}
