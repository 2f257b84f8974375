package expr

// FunctionType is one signature of a function.
type FunctionType struct {
	Result DataType
	Args   []DataType
}

// Matches reports whether args have exactly the signature's argument types.
func (ft FunctionType) Matches(args []Expr) bool {
	if len(args) != len(ft.Args) {
		return false
	}
	for i, a := range args {
		if !sameType(a.Type(), ft.Args[i]) {
			return false
		}
	}
	return true
}

func sameType(a, b DataType) bool {
	if a == RGBA {
		a = Vec4
	}
	if b == RGBA {
		b = Vec4
	}
	return a == b
}

// FunctionDefn describes a function callable from generated code: either a
// language intrinsic or a function provided by an imported library fragment.
type FunctionDefn struct {
	Name  string
	Types []FunctionType

	// Names overrides Name for individual dialects, keyed by dialect name.
	Names map[string]string
}

// NameIn returns the function's name in dialect.
func (f *FunctionDefn) NameIn(dialect string) string {
	if n, ok := f.Names[dialect]; ok {
		return n
	}
	return f.Name
}

// Call returns a call of f. The result type is taken from the signature that
// matches the argument types; with a single signature it is used directly.
func (f *FunctionDefn) Call(args ...Expr) *CallExpr {
	result := Other
	switch {
	case len(f.Types) == 1:
		result = f.Types[0].Result
	default:
		for _, ft := range f.Types {
			if ft.Matches(args) {
				result = ft.Result
				break
			}
		}
	}
	return &CallExpr{Fn: f, Args: args, Result: result}
}

// OverloadDefn is a function bound to one of its signatures.
type OverloadDefn struct {
	Fn  *FunctionDefn
	Sig FunctionType
}

// Overload binds f to the signature sig.
func Overload(f *FunctionDefn, sig FunctionType) *OverloadDefn {
	return &OverloadDefn{Fn: f, Sig: sig}
}

// Call returns a call of the bound signature.
func (o *OverloadDefn) Call(args ...Expr) *OverloadCallExpr {
	return &OverloadCallExpr{Fn: o, Args: args}
}

func sig(result DataType, args ...DataType) FunctionType {
	return FunctionType{Result: result, Args: args}
}

// genType returns the float genType signatures of a component-wise
// intrinsic taking n arguments.
func genType(n int) []FunctionType {
	out := make([]FunctionType, 0, 4)
	for _, t := range []DataType{Float, Vec2, Vec3, Vec4} {
		args := make([]DataType, n)
		for i := range args {
			args[i] = t
		}
		out = append(out, sig(t, args...))
	}
	return out
}

// Intrinsics shared by every dialect.
var (
	Vec2Fn = &FunctionDefn{
		Name:  "vec2",
		Types: []FunctionType{sig(Vec2, Float, Float), sig(Vec2, Float)},
		Names: map[string]string{"wgsl": "vec2<f32>"},
	}
	Vec3Fn = &FunctionDefn{
		Name:  "vec3",
		Types: []FunctionType{sig(Vec3, Float, Float, Float), sig(Vec3, Float), sig(Vec3, Vec2, Float)},
		Names: map[string]string{"wgsl": "vec3<f32>"},
	}
	Vec4Fn = &FunctionDefn{
		Name: "vec4",
		Types: []FunctionType{
			sig(Vec4, Float, Float, Float, Float),
			sig(Vec4, Float),
			sig(Vec4, Vec3, Float),
			sig(Vec4, Vec2, Float, Float),
		},
		Names: map[string]string{"wgsl": "vec4<f32>"},
	}
	FractFn      = &FunctionDefn{Name: "fract", Types: genType(1)}
	FloorFn      = &FunctionDefn{Name: "floor", Types: genType(1)}
	AbsFn        = &FunctionDefn{Name: "abs", Types: genType(1)}
	LengthFn     = &FunctionDefn{Name: "length", Types: []FunctionType{sig(Float, Vec2), sig(Float, Vec3), sig(Float, Vec4)}}
	DotFn        = &FunctionDefn{Name: "dot", Types: []FunctionType{sig(Float, Vec2, Vec2), sig(Float, Vec3, Vec3), sig(Float, Vec4, Vec4)}}
	MinFn        = &FunctionDefn{Name: "min", Types: genType(2)}
	MaxFn        = &FunctionDefn{Name: "max", Types: genType(2)}
	ClampFn      = &FunctionDefn{Name: "clamp", Types: append(genType(3), sig(Vec4, Vec4, Float, Float))}
	MixFn        = &FunctionDefn{Name: "mix", Types: append(genType(3), sig(Vec4, Vec4, Vec4, Float), sig(Vec3, Vec3, Vec3, Float))}
	SmoothstepFn = &FunctionDefn{Name: "smoothstep", Types: genType(3)}

	// TextureFn samples a texture. Dialects that separate textures from
	// samplers expand the first argument into both.
	TextureFn = &FunctionDefn{
		Name:  "texture",
		Types: []FunctionType{sig(Vec4, Image, Vec2)},
		Names: map[string]string{"wgsl": "textureSample"},
	}
)

// Vec2Of constructs a vec2 from two floats.
func Vec2Of(x, y Expr) *CallExpr { return Vec2Fn.Call(x, y) }

// Vec4Of constructs a vec4 from its arguments.
func Vec4Of(args ...Expr) *CallExpr { return Vec4Fn.Call(args...) }

// Fract returns the fractional part of x.
func Fract(x Expr) *CallExpr { return FractFn.Call(x) }

// Mix linearly interpolates between a and b by t.
func Mix(a, b, t Expr) *CallExpr { return MixFn.Call(a, b, t) }

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi Expr) *CallExpr { return ClampFn.Call(x, lo, hi) }
