package shader

import (
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/texgraph/codefmt"
	"github.com/gogpu/texgraph/expr"
)

// Dialect is a target shading language.
type Dialect interface {
	// Name returns the registry name of the dialect.
	Name() string

	// Ext returns the file extension of library fragments, including the
	// dot.
	Ext() string

	// TypeName returns the spelling of t in the dialect.
	TypeName(t expr.DataType) (string, error)

	// DeclareLocal returns a local variable declaration. init is nil for a
	// declaration without a value.
	DeclareLocal(name string, t expr.DataType, init *codefmt.Chunk) (codefmt.Chunk, error)

	// Sample returns a texture read of the sampler uniform at uv.
	Sample(sampler string, uv codefmt.Chunk) codefmt.Chunk

	// Prelude returns the lines opening a shader for the named operator.
	Prelude(title string) []string

	// Attribs returns the fixed input/output declarations.
	Attribs() []string

	// DeclareUniforms returns the declarations of us. Dialects with explicit
	// resource bindings record them in b.
	DeclareUniforms(us []Uniform, b *Bindings) ([]string, error)

	// Main wraps the printed statement body as the entry point.
	Main(body string) []string
}

// Bindings collects the bind group layout of a program's uniforms.
type Bindings struct {
	Entries []gputypes.BindGroupLayoutEntry
}

// next returns the binding number of the next entry.
func (b *Bindings) next() uint32 {
	return uint32(len(b.Entries))
}

func (b *Bindings) addBuffer(size uint64) uint32 {
	n := b.next()
	b.Entries = append(b.Entries, gputypes.BindGroupLayoutEntry{
		Binding:    n,
		Visibility: gputypes.ShaderStageFragment,
		Buffer: &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: size,
		},
	})
	return n
}

func (b *Bindings) addTexture() uint32 {
	n := b.next()
	b.Entries = append(b.Entries, gputypes.BindGroupLayoutEntry{
		Binding:    n,
		Visibility: gputypes.ShaderStageFragment,
		Texture: &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		},
	})
	return n
}

func (b *Bindings) addSampler() uint32 {
	n := b.next()
	b.Entries = append(b.Entries, gputypes.BindGroupLayoutEntry{
		Binding:    n,
		Visibility: gputypes.ShaderStageFragment,
		Sampler: &gputypes.SamplerBindingLayout{
			Type: gputypes.SamplerBindingTypeFiltering,
		},
	})
	return n
}

// Dialect names.
const (
	GLSL = "glsl"
	WGSL = "wgsl"
)

var dialects = gpucontext.NewRegistry[Dialect](gpucontext.WithPriority(GLSL, WGSL))

func init() {
	RegisterDialect(GLSL, func() Dialect { return glslDialect{} })
	RegisterDialect(WGSL, func() Dialect { return wgslDialect{} })
}

// RegisterDialect makes a dialect available by name. Registering an existing
// name replaces it.
func RegisterDialect(name string, factory func() Dialect) {
	dialects.Register(name, factory)
}

// LookupDialect returns the dialect registered under name. An empty name
// selects the preferred dialect.
func LookupDialect(name string) (Dialect, error) {
	if name == "" {
		name = dialects.BestName()
	}
	if !dialects.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
	return dialects.Get(name), nil
}

// Dialects returns the names of all registered dialects, sorted.
func Dialects() []string {
	names := dialects.Available()
	slices.Sort(names)
	return names
}
